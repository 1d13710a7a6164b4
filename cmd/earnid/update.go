// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/earnchallenge/identity/internal/directory"
)

// NewUpdateCmd creates the update subcommand.
func NewUpdateCmd() *cobra.Command {
	var (
		fullName string
		bio      string
		avatar   string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the current user's profile",
		Long: `Update profile fields on the account behind the current session.
Only the flags given are changed; everything else is left as is.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()

			if avatar != "" {
				if _, err := app.identity.UploadAvatar(ctx, avatar); err != nil {
					return err
				}
			}

			var updates directory.ProfileUpdate
			if cmd.Flags().Changed("full-name") {
				updates.FullName = &fullName
			}
			if cmd.Flags().Changed("bio") {
				updates.Bio = &bio
			}

			if updates.FullName == nil && updates.Bio == nil && avatar == "" {
				cmd.Println("Nothing to update")
				return nil
			}
			if updates.FullName != nil || updates.Bio != nil {
				if _, err := app.identity.UpdateProfile(ctx, updates); err != nil {
					return err
				}
			}

			cmd.Println("Profile updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&fullName, "full-name", "", "display name")
	cmd.Flags().StringVar(&bio, "bio", "", "profile bio")
	cmd.Flags().StringVar(&avatar, "avatar", "", "path to an image file to use as avatar")

	return cmd
}
