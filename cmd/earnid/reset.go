// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// NewResetCmd creates the reset subcommand group.
func NewResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Password recovery",
	}

	cmd.AddCommand(newResetRequestCmd())
	cmd.AddCommand(newResetConfirmCmd())

	return cmd
}

func newResetRequestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "request <email>",
		Short: "Issue a password reset token",
		Long: `Issue a reset token for the account registered under the email.
Requesting again replaces the previous token. The token expires after
the configured TTL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			token, err := app.identity.InitiateReset(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			cmd.Printf("Reset token: %s\n", token)
			return nil
		},
	}
}

func newResetConfirmCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "confirm <email> <token>",
		Short: "Redeem a reset token and set a new password",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if password == "" {
				password, err = promptNewPassword(cmd)
				if err != nil {
					return err
				}
			}

			ok, err := app.identity.ConsumeAndReset(cmd.Context(), args[0], password, args[1])
			if err != nil {
				return err
			}
			if !ok {
				return oops.Code("RESET_TOKEN_INVALID").
					Errorf("reset token is invalid or has expired")
			}

			cmd.Println("Password updated")
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "new password (prompted when omitted)")

	return cmd
}
