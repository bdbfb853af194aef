package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pjt727/bookcs/bookingapi/mockapi"
	"github.com/Pjt727/bookcs/data"
	logginghelpers "github.com/Pjt727/bookcs/data/logging-helpers"
	"github.com/Pjt727/bookcs/server"
	servermanage "github.com/Pjt727/bookcs/server/manage"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the web frontend",
	Long: `Runs the web frontend. With --mock an in memory booking api with seeded
professors and appointments is started and used instead of BOOKCS_API_URL`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := log.WithFields(log.Fields{
			"job": "serve",
		})
		useMock, err := cmd.Flags().GetBool("mock")
		if err != nil {
			logger.Error("invalid mock flag ", err)
			return
		}
		cfg, err := loadConfig(false)
		if err != nil {
			logger.Error("Could not load config: ", err)
			return
		}
		if cmd.Flags().Changed("port") {
			if cfg.Port, err = cmd.Flags().GetInt("port"); err != nil {
				logger.Error("invalid port ", err)
				return
			}
		}

		var logs *servermanage.LogBroadcaster
		handler := newStderrHandler(cfg)
		if cfg.ManageLogs {
			logs = servermanage.NewLogBroadcaster()
			handler = logginghelpers.NewMultiHandler(
				handler,
				logginghelpers.NewHandler(logs, &logginghelpers.Options{Level: cfg.LogLevel}),
			)
		}
		serverLogger := slog.New(handler)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if useMock {
			api := mockapi.NewMockServer(ctx, serverLogger.With("component", "mockapi"))
			api.Seed(data.DateOf(time.Now().In(cfg.Location)))
			cfg.APIURL = api.URL
			logger.Infof("Using the mock booking api at %s, every password is \"password\"", api.URL)
		}
		if err := cfg.Validate(); err != nil {
			logger.Error("Invalid config: ", err)
			return
		}

		err = server.Serve(ctx, server.Options{
			Config: cfg,
			Client: newClient(cfg, serverLogger.With("component", "bookingapi")),
			Logs:   logs,
			Logger: serverLogger,
		})
		if err != nil {
			logger.Error("Server failed: ", err)
			os.Exit(1)
		}
	},
}

func init() {
	appCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 3000, "The port to listen on (overrides BOOKCS_PORT)")
	serveCmd.Flags().Bool("mock", false, "Serve against an in memory booking api with seeded data")
}
