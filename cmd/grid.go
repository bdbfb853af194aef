package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Pjt727/bookcs/bookingapi"
	"github.com/Pjt727/bookcs/data"
	"github.com/Pjt727/bookcs/grid"
	"github.com/Pjt727/bookcs/internal/termgrid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// gridCmd represents the grid command
var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Prints the availability grid of a day",
	Long: `Prints the availability grid of a day in the terminal. Only business hours
are shown when the terminal is too narrow for the whole day. With --email the
grid is shown as that user sees it`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := log.WithFields(log.Fields{
			"job": "grid",
		})
		dateInput, err := cmd.Flags().GetString("date")
		if err != nil {
			logger.Error("invalid date flag ", err)
			return
		}
		professorID, err := cmd.Flags().GetString("prof")
		if err != nil {
			logger.Error("invalid prof flag ", err)
			return
		}
		email, err := cmd.Flags().GetString("email")
		if err != nil {
			logger.Error("invalid email flag ", err)
			return
		}

		cfg, err := loadConfig(true)
		if err != nil {
			logger.Error("Could not load config: ", err)
			return
		}
		now := time.Now().In(cfg.Location)
		date := data.DateOf(now)
		if dateInput != "" {
			if date, err = data.ParseDate(dateInput); err != nil {
				logger.Errorf("Date %q is not YYYY-MM-DD", dateInput)
				return
			}
		}

		ctx := context.Background()
		client := newClient(cfg, slog.New(newStderrHandler(cfg)))

		var cookies []*http.Cookie
		if email != "" {
			if cookies, err = login(ctx, client, email); err != nil {
				logger.Error(err)
				return
			}
		}
		session, err := client.Session(ctx, cookies)
		if err != nil {
			logger.Warn("Could not check the session, showing the public grid: ", err)
		}

		day, err := client.Day(ctx, cookies, date, data.ID(professorID))
		switch {
		case errors.Is(err, bookingapi.ErrProfessorNotFound):
			logger.Errorf("Professor %s not found.", professorID)
			return
		case bookingapi.IsTransportError(err):
			logger.Error("Error loading appointments: ", err)
			return
		case err != nil:
			logger.Error("Failed to load appointments: ", bookingapi.MessageOr(err, err.Error()))
			return
		case len(day.Professors) == 0:
			logger.Info("No professors available.")
			return
		}

		professors := day.Professors
		if professorID != "" {
			professor, _ := day.Professor(data.ID(professorID))
			professors = []data.Professor{professor}
		}
		policy := grid.Policy{Pages: grid.DefaultPages(cfg.SiteURL), Location: cfg.Location}
		g := grid.Builder{Policy: policy}.Build(session, date, professors, day.Appointments)

		fd := int(os.Stdout.Fd())
		opts := termgrid.Options{Color: term.IsTerminal(fd)}
		if width, _, err := term.GetSize(fd); err == nil && width < termgrid.Width(g, opts) {
			opts.BusinessHoursOnly = true
		}
		if err := termgrid.Render(os.Stdout, g, opts); err != nil {
			logger.Error("Could not print the grid: ", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(gridCmd)
	gridCmd.Flags().String("date", "", "The day to show (YYYY-MM-DD, defaults to today)")
	gridCmd.Flags().String("prof", "", "Only show this professor's member id")
	gridCmd.Flags().String("email", "", "Log in as this user first")
}
