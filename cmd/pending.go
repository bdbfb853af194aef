package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Pjt727/bookcs/bookingapi"
	"github.com/Pjt727/bookcs/data"
	"github.com/Pjt727/bookcs/grid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// pendingCmd represents the pending command
var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Lists and answers a professor's pending requests",
	Long: `Works with the pending meeting requests of the professor given by --email
(this command is not ran directly)`,
}

var pendingListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists pending requests",
	Run: func(cmd *cobra.Command, args []string) {
		logger := log.WithFields(log.Fields{
			"job": "pending-list",
		})
		ctx := context.Background()
		client, cookies, err := pendingSession(ctx, cmd)
		if err != nil {
			logger.Error(err)
			return
		}
		requests, err := client.Pending(ctx, cookies)
		switch {
		case errors.Is(err, bookingapi.ErrLoginRequired):
			logger.Error("Please log in as a professor")
			return
		case bookingapi.IsTransportError(err):
			logger.Error("Failed to fetch pending requests: ", err)
			return
		case err != nil:
			logger.Error(bookingapi.MessageOr(err, "Error fetching pending requests"))
			return
		}
		if len(requests) == 0 {
			fmt.Println("No pending appointments")
			return
		}
		for _, r := range requests {
			fmt.Printf("%-6s %-28s %s - %s  Meeting with %s\n",
				r.AppointmentID, grid.LongDate(r.Date), r.StartTime, r.EndTime, r.StudentName())
		}
	},
}

func newPendingActionCmd(action bookingapi.PendingAction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " <appointment id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logger := log.WithFields(log.Fields{
				"job":         "pending-" + string(action),
				"appointment": args[0],
			})
			ctx := context.Background()
			client, cookies, err := pendingSession(ctx, cmd)
			if err != nil {
				logger.Error(err)
				return
			}
			message, err := client.ManagePending(ctx, cookies, data.ID(args[0]), action)
			switch {
			case errors.Is(err, bookingapi.ErrLoginRequired):
				logger.Error("Please log in as a professor")
				return
			case bookingapi.IsTransportError(err):
				logger.Error("Failed to process the request: ", err)
				return
			case err != nil:
				logger.Error(bookingapi.MessageOr(err, "Error processing the request."))
				return
			}
			logger.Info(message)
		},
	}
}

// pendingSession logs in as the --email professor
func pendingSession(ctx context.Context, cmd *cobra.Command) (*bookingapi.Client, []*http.Cookie, error) {
	email, err := cmd.Flags().GetString("email")
	if err != nil {
		return nil, nil, err
	}
	if email == "" {
		return nil, nil, errors.New("--email is required")
	}
	cfg, err := loadConfig(true)
	if err != nil {
		return nil, nil, err
	}
	client := newClient(cfg, slog.New(newStderrHandler(cfg)))
	cookies, err := login(ctx, client, email)
	if err != nil {
		return nil, nil, err
	}
	return client, cookies, nil
}

func init() {
	rootCmd.AddCommand(pendingCmd)
	pendingCmd.PersistentFlags().String("email", "", "The professor to log in as")
	pendingCmd.AddCommand(pendingListCmd)
	pendingCmd.AddCommand(newPendingActionCmd(bookingapi.Accept, "Accepts a pending request"))
	pendingCmd.AddCommand(newPendingActionCmd(bookingapi.Reject, "Declines a pending request"))
}
