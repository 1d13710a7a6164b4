// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earnchallenge/identity/internal/config"
	"github.com/earnchallenge/identity/pkg/errutil"
)

func newFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	fs := newFlags(t)

	cfg, err := config.Load("", fs)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Auth.MinUsernameLength)
	assert.Equal(t, 20, cfg.Auth.MaxUsernameLength)
	assert.Equal(t, 6, cfg.Auth.MinPasswordLength)
	assert.Equal(t, 32, cfg.Auth.MaxPasswordLength)
	assert.Equal(t, "earnchallenge_user", cfg.Auth.StoragePrefix)
	assert.Equal(t, 24*time.Hour, cfg.Reset.TokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.NotEmpty(t, cfg.Store.Path)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	fs := newFlags(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), fs)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Auth.MinUsernameLength)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "earnid.yaml")
	content := `
auth:
  min_username_length: 4
  storage_prefix: custom_prefix
reset:
  token_ttl: 1h
log:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path, newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Auth.MinUsernameLength)
	assert.Equal(t, "custom_prefix", cfg.Auth.StoragePrefix)
	assert.Equal(t, time.Hour, cfg.Reset.TokenTTL)
	assert.Equal(t, "json", cfg.Log.Format)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, 20, cfg.Auth.MaxUsernameLength)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
}

func TestLoad_ChangedFlagOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "earnid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth:\n  min_username_length: 4\n"), 0o600))

	fs := newFlags(t)
	require.NoError(t, fs.Set("auth.min_username_length", "5"))

	cfg, err := config.Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Auth.MinUsernameLength)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "earnid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth: [not: a: map"), 0o600))

	_, err := config.Load(path, newFlags(t))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			Auth: config.AuthConfig{
				MinUsernameLength: 3,
				MaxUsernameLength: 20,
				MinPasswordLength: 6,
				MaxPasswordLength: 32,
				StoragePrefix:     "earnchallenge_user",
			},
			Reset:   config.ResetConfig{TokenTTL: 24 * time.Hour},
			Session: config.SessionConfig{TTL: 24 * time.Hour},
			Log:     config.LogConfig{Format: "text"},
		}
	}

	validCfg := valid()
	require.NoError(t, validCfg.Validate())

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "zero min username", mutate: func(c *config.Config) { c.Auth.MinUsernameLength = 0 }},
		{name: "inverted username bounds", mutate: func(c *config.Config) { c.Auth.MaxUsernameLength = 2 }},
		{name: "zero min password", mutate: func(c *config.Config) { c.Auth.MinPasswordLength = 0 }},
		{name: "inverted password bounds", mutate: func(c *config.Config) { c.Auth.MaxPasswordLength = 5 }},
		{name: "empty prefix", mutate: func(c *config.Config) { c.Auth.StoragePrefix = "" }},
		{name: "trailing separator in prefix", mutate: func(c *config.Config) { c.Auth.StoragePrefix = "user_" }},
		{name: "zero reset ttl", mutate: func(c *config.Config) { c.Reset.TokenTTL = 0 }},
		{name: "negative session ttl", mutate: func(c *config.Config) { c.Session.TTL = -time.Hour }},
		{name: "unknown log format", mutate: func(c *config.Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
		})
	}
}
