// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// NewAccountCmd creates the account subcommand group.
func NewAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account administration",
	}

	cmd.AddCommand(newAccountRmCmd())
	cmd.AddCommand(newAccountLsCmd())

	return cmd
}

func newAccountRmCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Delete every account record",
		Long: `Delete every account record from the store. This is irreversible
and is not the same as logging out; use logout to end a session.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return oops.Code("CONFIRM_REQUIRED").
					Errorf("refusing to delete accounts without --yes")
			}

			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.identity.RemoveAccounts(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("All accounts removed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")

	return cmd
}

func newAccountLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List registered accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			accounts, err := app.accounts.List(cmd.Context())
			if err != nil {
				return err
			}

			if len(accounts) == 0 {
				cmd.Println("No accounts registered")
				return nil
			}
			for _, account := range accounts {
				cmd.Printf("%s\t%s\t%s\n", account.Username, account.Email, account.JoinDate)
			}
			return nil
		},
	}
}
