// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show store location, account count, and session state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()

			storePath := app.cfg.Store.Path
			if storePath == "" {
				storePath = "(in-memory)"
			}
			cmd.Printf("Store:     %s\n", storePath)

			accounts, err := app.accounts.List(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("Accounts:  %d\n", len(accounts))

			loggedIn, err := app.identity.IsLoggedIn(ctx)
			if err != nil {
				return err
			}
			if loggedIn {
				current, err := app.identity.CurrentUser(ctx)
				if err != nil {
					return err
				}
				cmd.Printf("Session:   active (%s)\n", current.Username)
			} else {
				cmd.Println("Session:   none")
			}
			return nil
		},
	}
}
