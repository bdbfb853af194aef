package cmd

import (
	"github.com/spf13/cobra"
)

// appCmd represents the app command
var appCmd = &cobra.Command{
	Use:   "app",
	Short: "used to run the bookcs web frontend",
	Long: `The bookcs frontend renders the booking pages and relays the browser's
session to the booking api (this command is not ran directly)`,
}

func init() {
	rootCmd.AddCommand(appCmd)
}
