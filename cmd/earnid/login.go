// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewLoginCmd creates the login subcommand.
func NewLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <identifier>",
		Short: "Log in with a username or email",
		Long: `Verify credentials and start a session. The identifier may be a
username or an email address; both are matched case-insensitively.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if password == "" {
				password, err = readPassword(cmd, "Password")
				if err != nil {
					return err
				}
			}

			account, _, err := app.identity.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}

			cmd.Printf("Logged in as %s\n", account.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")

	return cmd
}

// NewLogoutCmd creates the logout subcommand.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Long:  `End the current session. Account records are left untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.identity.Logout(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("Logged out")
			return nil
		},
	}
}

// NewWhoamiCmd creates the whoami subcommand.
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account behind the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			account, err := app.identity.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("Username: %s\n", account.Username)
			cmd.Printf("Email:    %s\n", account.Email)
			cmd.Printf("Joined:   %s\n", account.JoinDate)
			if account.Bio != "" {
				cmd.Printf("Bio:      %s\n", account.Bio)
			}
			return nil
		},
	}
}
