// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

// Package config loads earnid configuration. Precedence, lowest first:
// flag defaults, YAML config file, flags changed on the command line.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/earnchallenge/identity/internal/xdg"
)

// Config is the full earnid configuration tree.
type Config struct {
	Auth    AuthConfig    `koanf:"auth"`
	Reset   ResetConfig   `koanf:"reset"`
	Session SessionConfig `koanf:"session"`
	Store   StoreConfig   `koanf:"store"`
	Log     LogConfig     `koanf:"log"`
}

// AuthConfig bounds account fields and names the storage namespace.
type AuthConfig struct {
	MinUsernameLength int    `koanf:"min_username_length"`
	MaxUsernameLength int    `koanf:"max_username_length"`
	MinPasswordLength int    `koanf:"min_password_length"`
	MaxPasswordLength int    `koanf:"max_password_length"`
	StoragePrefix     string `koanf:"storage_prefix"`
}

// ResetConfig controls recovery token issuance.
type ResetConfig struct {
	TokenTTL time.Duration `koanf:"token_ttl"`
}

// SessionConfig controls session lifetime.
type SessionConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// StoreConfig locates the key-value store. An empty Path selects the
// in-memory store.
type StoreConfig struct {
	Path string `koanf:"path"`
}

// LogConfig controls log output.
type LogConfig struct {
	Format string `koanf:"format"`
}

// DefaultConfigPath is where Load looks when no --config is given.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigDir(), "earnid.yaml")
}

// DefaultStorePath is the store location used when none is configured.
func DefaultStorePath() string {
	return filepath.Join(xdg.DataDir(), "earnid.db")
}

// RegisterFlags declares every config key as a flag, with its default.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Int("auth.min_username_length", 3, "minimum username length")
	fs.Int("auth.max_username_length", 20, "maximum username length")
	fs.Int("auth.min_password_length", 6, "minimum password length")
	fs.Int("auth.max_password_length", 32, "maximum password length")
	fs.String("auth.storage_prefix", "earnchallenge_user", "key prefix for account records")
	fs.Duration("reset.token_ttl", 24*time.Hour, "reset token time to live")
	fs.Duration("session.ttl", 24*time.Hour, "session time to live")
	fs.String("store.path", DefaultStorePath(), "database file path (empty for in-memory)")
	fs.String("log.format", "text", "log output format: text or json")
}

// Load builds the configuration from the file at path layered with the
// flag set. A missing file is skipped so the defaults still apply.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, oops.Code("CONFIG_LOAD_FAILED").
					With("path", path).
					Wrap(err)
			}
		} else if !os.IsNotExist(err) {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	// Changed flags win over the file; defaults fill remaining keys.
	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").
			With("operation", "merge flags").
			Wrap(err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").
			With("operation", "unmarshal").
			Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations no service could run with.
func (c *Config) Validate() error {
	if c.Auth.MinUsernameLength < 1 {
		return oops.Code("CONFIG_INVALID").
			Errorf("auth.min_username_length must be at least 1, got %d", c.Auth.MinUsernameLength)
	}
	if c.Auth.MaxUsernameLength < c.Auth.MinUsernameLength {
		return oops.Code("CONFIG_INVALID").
			Errorf("auth.max_username_length %d is below auth.min_username_length %d",
				c.Auth.MaxUsernameLength, c.Auth.MinUsernameLength)
	}
	if c.Auth.MinPasswordLength < 1 {
		return oops.Code("CONFIG_INVALID").
			Errorf("auth.min_password_length must be at least 1, got %d", c.Auth.MinPasswordLength)
	}
	if c.Auth.MaxPasswordLength < c.Auth.MinPasswordLength {
		return oops.Code("CONFIG_INVALID").
			Errorf("auth.max_password_length %d is below auth.min_password_length %d",
				c.Auth.MaxPasswordLength, c.Auth.MinPasswordLength)
	}
	if c.Auth.StoragePrefix == "" {
		return oops.Code("CONFIG_INVALID").Errorf("auth.storage_prefix cannot be empty")
	}
	if strings.HasSuffix(c.Auth.StoragePrefix, "_") {
		// The prefix and key are joined with '_'; a trailing one would
		// produce double separators.
		return oops.Code("CONFIG_INVALID").
			Errorf("auth.storage_prefix cannot end with '_', got %q", c.Auth.StoragePrefix)
	}
	if c.Reset.TokenTTL <= 0 {
		return oops.Code("CONFIG_INVALID").
			Errorf("reset.token_ttl must be positive, got %s", c.Reset.TokenTTL)
	}
	if c.Session.TTL <= 0 {
		return oops.Code("CONFIG_INVALID").
			Errorf("session.ttl must be positive, got %s", c.Session.TTL)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return oops.Code("CONFIG_INVALID").
			Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
