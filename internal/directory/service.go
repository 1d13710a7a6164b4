// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

// Package directory owns account records: registration with uniqueness
// and format enforcement, verified login lookup, and profile updates.
package directory

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

// dummyPasswordHash is used when an identifier doesn't resolve to an
// account. Verification still runs against it so response time does not
// reveal whether the identifier exists. This is NOT a real credential.
//
//nolint:gosec // G101: intentionally fake hash for timing parity, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service provides credential directory operations.
type Service struct {
	accounts AccountRepository
	hasher   PasswordHasher
	limits   Limits
	logger   *slog.Logger

	now func() time.Time
}

// NewService creates a directory Service.
func NewService(accounts AccountRepository, hasher PasswordHasher, limits Limits, logger *slog.Logger) (*Service, error) {
	if accounts == nil {
		return nil, oops.Errorf("accounts repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		accounts: accounts,
		hasher:   hasher,
		limits:   limits,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// IsEmailUnique reports whether no stored account uses the address.
// Fails closed: a malformed address is reported as not unique together
// with an AUTH_INVALID_EMAIL error.
func (s *Service) IsEmailUnique(ctx context.Context, email string) (bool, error) {
	if err := ValidateEmail(email); err != nil {
		return false, err
	}

	_, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, oops.With("operation", "check email uniqueness").Wrap(err)
	}
	return false, oops.Code("AUTH_DUPLICATE_EMAIL").
		Errorf("an account with this email is already registered")
}

// Register validates all inputs, then creates and persists a new
// account. No write happens unless every validation passes.
func (s *Service) Register(ctx context.Context, username, password, email string) (*Account, error) {
	if err := s.limits.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := s.limits.ValidatePassword(password); err != nil {
		return nil, err
	}
	if _, err := s.IsEmailUnique(ctx, email); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account := NewAccount(s.accounts.NewStorageKey(), username, NormalizeEmail(email), passwordHash, s.now())
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "persist account").
			Wrap(err)
	}

	s.logger.Info("account registered",
		slog.String("storage_key", account.StorageKey),
		slog.String("username", account.Username),
	)

	return account, nil
}

// Login resolves an identifier (username or email, normalized) and
// verifies the password against the stored hash. Unknown identifiers
// and wrong passwords produce the same error, and verification runs
// against a dummy hash when no account matches so timing stays flat.
func (s *Service) Login(ctx context.Context, identifier, password string) (*Account, error) {
	account, lookupErr := s.accounts.FindByIdentifier(ctx, identifier)

	targetHash := dummyPasswordHash
	accountExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "find account by identifier").
				Wrap(lookupErr)
		}
	} else {
		targetHash = account.PasswordHash
		accountExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !accountExists {
			return nil, errInvalidCredentials()
		}
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !accountExists || !valid {
		return nil, errInvalidCredentials()
	}

	s.logger.Info("login succeeded", slog.String("storage_key", account.StorageKey))
	return account, nil
}

func errInvalidCredentials() error {
	return oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid username or password")
}

// Get retrieves an account by storage key.
func (s *Service) Get(ctx context.Context, storageKey string) (*Account, error) {
	return s.accounts.Get(ctx, storageKey)
}

// FindByEmail returns the storage key of the first account whose
// normalized email matches. The address is format-checked first.
func (s *Service) FindByEmail(ctx context.Context, email string) (string, error) {
	if err := ValidateEmail(email); err != nil {
		return "", err
	}
	account, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return "", oops.Code("AUTH_ACCOUNT_NOT_FOUND").
			Wrapf(ErrNotFound, "no account found with this email address")
	}
	if err != nil {
		return "", oops.With("operation", "find account by email").Wrap(err)
	}
	return account.StorageKey, nil
}

// UpdateProfile merges updates onto the account and persists the
// result.
func (s *Service) UpdateProfile(ctx context.Context, storageKey string, updates ProfileUpdate) (*Account, error) {
	account, err := s.accounts.Get(ctx, storageKey)
	if err != nil {
		return nil, err
	}

	updates.Apply(account)
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, oops.With("operation", "persist profile update").Wrap(err)
	}
	return account, nil
}

// ChangePassword replaces the account's password hash after checking
// the configured bounds. Used by the reset flow.
func (s *Service) ChangePassword(ctx context.Context, storageKey, newPassword string) error {
	if err := s.limits.ValidatePassword(newPassword); err != nil {
		return err
	}

	account, err := s.accounts.Get(ctx, storageKey)
	if err != nil {
		return err
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("AUTH_PASSWORD_CHANGE_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account.PasswordHash = passwordHash
	if err := s.accounts.Update(ctx, account); err != nil {
		return oops.Code("AUTH_PASSWORD_CHANGE_FAILED").
			With("operation", "persist account").
			Wrap(err)
	}

	s.logger.Info("password changed", slog.String("storage_key", storageKey))
	return nil
}

// RemoveAccounts deletes every account record. Destructive and
// irreversible; confirmation belongs to the caller, not this layer.
func (s *Service) RemoveAccounts(ctx context.Context) error {
	if err := s.accounts.DeleteAll(ctx); err != nil {
		return oops.With("operation", "remove accounts").Wrap(err)
	}
	s.logger.Warn("all account records removed")
	return nil
}
