// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package main

import (
	"log/slog"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/earnchallenge/identity/internal/config"
	"github.com/earnchallenge/identity/internal/directory"
	"github.com/earnchallenge/identity/internal/identity"
	"github.com/earnchallenge/identity/internal/kvstore"
	"github.com/earnchallenge/identity/internal/logging"
	"github.com/earnchallenge/identity/internal/reset"
	"github.com/earnchallenge/identity/internal/session"
	"github.com/earnchallenge/identity/internal/xdg"
)

// app holds the wired services a subcommand runs against.
type app struct {
	cfg      *config.Config
	store    kvstore.Store
	accounts *directory.KVAccountRepository
	identity *identity.Service
	logger   *slog.Logger
}

// newApp loads configuration, opens the store, and wires the services.
// Callers must Close the returned app.
func newApp(cmd *cobra.Command) (*app, error) {
	path := configFile
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path, cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}

	logger := logging.Setup("earnid", version, cfg.Log.Format, nil)
	slog.SetDefault(logger)

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	limits := directory.Limits{
		MinUsername: cfg.Auth.MinUsernameLength,
		MaxUsername: cfg.Auth.MaxUsernameLength,
		MinPassword: cfg.Auth.MinPasswordLength,
		MaxPassword: cfg.Auth.MaxPasswordLength,
	}
	accounts := directory.NewKVAccountRepository(store, cfg.Auth.StoragePrefix)

	dir, err := directory.NewService(accounts, directory.NewArgon2idHasher(), limits, logger)
	if err != nil {
		return nil, err
	}

	sessions, err := session.NewService(store, cfg.Session.TTL, logger)
	if err != nil {
		return nil, err
	}

	notifier := reset.NewRetryNotifier(reset.NewLogNotifier(logger))
	resets, err := reset.NewService(reset.NewKVTokenRepository(store), dir, notifier, cfg.Reset.TokenTTL, logger)
	if err != nil {
		return nil, err
	}

	id, err := identity.NewService(dir, sessions, resets, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		store:    store,
		accounts: accounts,
		identity: id,
		logger:   logger,
	}, nil
}

// Close releases the store.
func (a *app) Close() error {
	return a.store.Close()
}

// openStore picks the backend from config. An empty path means an
// ephemeral in-memory store.
func openStore(cfg *config.Config) (kvstore.Store, error) {
	if cfg.Store.Path == "" {
		return kvstore.NewMemoryStore(), nil
	}

	if err := xdg.EnsureDir(filepath.Dir(cfg.Store.Path)); err != nil {
		return nil, oops.Code("STORE_OPEN_FAILED").
			With("path", cfg.Store.Path).
			Wrap(err)
	}
	if err := kvstore.AutoMigrate(cfg.Store.Path); err != nil {
		return nil, err
	}
	return kvstore.OpenSQLite(cfg.Store.Path)
}
