package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/envspace/envspace/pkg/hasher"
)

var (
	resetEmail    string
	resetPassword string
)

// userResetPasswordCmd represents the user reset-password command
var userResetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Reset a user's password",
	Long: `Reset a user's password.

Example:
  envspacectl user reset-password --email dev@example.com --password n3w`,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := connectStore()
		if err != nil {
			return err
		}

		user, err := users.FindByEmail(resetEmail)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("user %q not found", resetEmail)
		}

		err = user.Update(map[string]interface{}{
			"password": hasher.Digest(resetPassword),
		})
		if err != nil {
			return err
		}

		fmt.Printf("Password reset for %s\n", resetEmail)
		return nil
	},
}

func init() {
	userResetPasswordCmd.Flags().StringVar(&resetEmail, "email", "", "account email")
	userResetPasswordCmd.Flags().StringVar(&resetPassword, "password", "", "new password")
	_ = userResetPasswordCmd.MarkFlagRequired("email")
	_ = userResetPasswordCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userResetPasswordCmd)
}
