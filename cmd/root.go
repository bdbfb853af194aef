package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"

	"github.com/Pjt727/bookcs/bookingapi"
	logginghelpers "github.com/Pjt727/bookcs/data/logging-helpers"
	"github.com/Pjt727/bookcs/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bookcs",
	Short: "bookcs is the web frontend for booking meetings with computer science professors",
	Long: `bookcs serves the professor availability grid and the pending request
pages in front of the booking api, and can show the same views in a terminal`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration; the api url is only checked when
// requireAPI is set
func loadConfig(requireAPI bool) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if requireAPI {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newStderrHandler is the colored log handler every command logs through
func newStderrHandler(cfg *config.Config) slog.Handler {
	return logginghelpers.NewHandler(os.Stderr, &logginghelpers.Options{
		Level:   cfg.LogLevel,
		NoColor: !term.IsTerminal(int(os.Stderr.Fd())),
	})
}

func newClient(cfg *config.Config, logger *slog.Logger) *bookingapi.Client {
	return bookingapi.New(bookingapi.Options{
		BaseURL:    cfg.APIURL,
		RateLimit:  cfg.APIRateLimit,
		Burst:      cfg.APIBurst,
		MaxRetries: cfg.APIRetries,
		Timeout:    cfg.APITimeout,
		Logger:     logger,
	})
}

// login asks for the password of email without echo and returns the api's
// session cookies
func login(ctx context.Context, client *bookingapi.Client, email string) ([]*http.Cookie, error) {
	fmt.Fprintf(os.Stderr, "Password for %s: ", email)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // New line after password input
	if err != nil {
		return nil, fmt.Errorf("could not read password: %w", err)
	}

	result, err := client.Login(ctx, nil, url.Values{
		"email":    {strings.TrimSpace(email)},
		"password": {string(bytePassword)},
	})
	if err != nil {
		return nil, fmt.Errorf("could not log in: %s", bookingapi.MessageOr(err, err.Error()))
	}
	return result.Cookies, nil
}
