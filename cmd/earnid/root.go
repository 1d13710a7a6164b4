package main

import (
	"github.com/spf13/cobra"

	"github.com/earnchallenge/identity/internal/config"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the earnid CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "earnid",
		Short: "Earn Challenge identity directory",
		Long: `earnid manages the local Earn Challenge identity directory:
account registration, login sessions, profile updates, and password
recovery tokens.`,
		SilenceUsage: true,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	config.RegisterFlags(cmd.PersistentFlags())

	// Add subcommands
	cmd.AddCommand(NewRegisterCmd())
	cmd.AddCommand(NewLoginCmd())
	cmd.AddCommand(NewLogoutCmd())
	cmd.AddCommand(NewWhoamiCmd())
	cmd.AddCommand(NewUpdateCmd())
	cmd.AddCommand(NewResetCmd())
	cmd.AddCommand(NewAccountCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
