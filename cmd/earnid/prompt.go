// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword reads a password without echo when stdin is a terminal,
// falling back to a plain line read otherwise (pipes, tests).
func readPassword(cmd *cobra.Command, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ", label)
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", oops.Code("PROMPT_FAILED").Wrap(err)
		}
		return string(raw), nil
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", oops.Code("PROMPT_FAILED").Wrap(err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptNewPassword asks for a password twice and insists they match.
func promptNewPassword(cmd *cobra.Command) (string, error) {
	password, err := readPassword(cmd, "Password")
	if err != nil {
		return "", err
	}
	confirm, err := readPassword(cmd, "Confirm password")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", oops.Code("PROMPT_MISMATCH").Errorf("passwords do not match")
	}
	return password, nil
}
