package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/envspace/envspace/pkg/hasher"
	"github.com/envspace/envspace/pkg/model"
	"github.com/envspace/envspace/pkg/store"
)

var (
	createEmail    string
	createPassword string
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Long: `Create a user account.

The password is hashed before it reaches the store; the data layer only
ever holds digests.

Example:
  envspacectl user create --email dev@example.com --password s3cret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := connectStore()
		if err != nil {
			return err
		}

		_, err = users.Create(model.User{
			Email:    createEmail,
			Password: hasher.Digest(createPassword),
		})
		if err != nil {
			if store.IsConstraintViolation(err) {
				return fmt.Errorf("user %q already exists", createEmail)
			}
			return err
		}

		fmt.Printf("Created user %s\n", createEmail)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&createEmail, "email", "", "account email")
	userCreateCmd.Flags().StringVar(&createPassword, "password", "", "account password")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd)
}
