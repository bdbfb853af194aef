package cmd

import (
	"fmt"
	"os"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

var hashPasswordFlag string

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "hash the management password",
	Long: `prints the bcrypt hash for BOOKCS_MANAGE_PASSWORD_HASH. Defaults to
interactive but the password can be given with a flag`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := log.WithFields(log.Fields{
			"job": "hash-password",
		})
		password := hashPasswordFlag

		for password == "" {
			fmt.Fprint(os.Stderr, "Enter password: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Fprintln(os.Stderr) // New line after password input
			if err != nil {
				logger.Error("Failed to read password: ", err)
				os.Exit(1)
			}
			if len(bytePassword) == 0 {
				fmt.Fprintln(os.Stderr, "Password cannot be empty. Please try again.")
				continue
			}

			fmt.Fprint(os.Stderr, "Confirm password: ")
			byteConfirmPassword, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Fprintln(os.Stderr) // New line after confirmation input
			if err != nil {
				logger.Error("Failed to read password confirmation: ", err)
				os.Exit(1)
			}
			if string(bytePassword) != string(byteConfirmPassword) {
				fmt.Fprintln(os.Stderr, "Passwords do not match. Please try again.")
				continue
			}
			password = string(bytePassword)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Could not hash password: ", err)
			os.Exit(1)
		}
		fmt.Println(string(hash))
	},
}

func init() {
	appCmd.AddCommand(hashPasswordCmd)
	hashPasswordCmd.Flags().StringVarP(&hashPasswordFlag, "password", "p", "", "Password to hash instead of prompting")
}
