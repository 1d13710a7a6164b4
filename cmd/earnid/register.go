// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewRegisterCmd creates the register subcommand.
func NewRegisterCmd() *cobra.Command {
	var (
		username string
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Long: `Create a new account in the identity directory. The email address
must not already be registered; comparison ignores case and surrounding
whitespace.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			account, err := app.identity.Register(cmd.Context(), username, password, email)
			if err != nil {
				return err
			}

			cmd.Printf("Registered %s (%s)\n", account.Username, account.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (required)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
