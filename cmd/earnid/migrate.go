// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/earnchallenge/identity/internal/config"
	"github.com/earnchallenge/identity/internal/kvstore"
)

// NewMigrateCmd creates the migrate subcommand group.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage store schema migrations",
	}

	cmd.AddCommand(newMigrateUpCmd())
	cmd.AddCommand(newMigrateDownCmd())
	cmd.AddCommand(newMigrateStatusCmd())

	return cmd
}

// migratorFromFlags resolves the store path and opens a migrator on it.
func migratorFromFlags(cmd *cobra.Command) (*kvstore.Migrator, error) {
	path := configFile
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path, cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}
	if cfg.Store.Path == "" {
		return nil, oops.Code("CONFIG_INVALID").
			Errorf("migrations need a store path; the in-memory store has none")
	}
	return kvstore.NewMigrator(cfg.Store.Path)
}

func newMigrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := migratorFromFlags(cmd)
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Up(); err != nil {
				return err
			}
			cmd.Println("Migrations applied")
			return nil
		},
	}
}

func newMigrateDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := migratorFromFlags(cmd)
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Down(); err != nil {
				return err
			}
			cmd.Println("Migrations rolled back")
			return nil
		},
	}
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current migration version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := migratorFromFlags(cmd)
			if err != nil {
				return err
			}
			defer m.Close()

			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if version == 0 {
				cmd.Println("No migrations applied")
				return nil
			}
			cmd.Printf("Version: %d (dirty: %t)\n", version, dirty)
			return nil
		},
	}
}
