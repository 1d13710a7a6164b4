// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

// Package identity composes the directory, session, and reset services
// into the single surface UI-layer callers use.
package identity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/earnchallenge/identity/internal/directory"
	"github.com/earnchallenge/identity/internal/kvstore"
	"github.com/earnchallenge/identity/internal/reset"
	"github.com/earnchallenge/identity/internal/session"
)

// ErrNotLoggedIn is returned by operations that need a live session
// when none exists.
var ErrNotLoggedIn = errors.New("not logged in")

// Service is the composed identity surface.
type Service struct {
	directory *directory.Service
	sessions  *session.Service
	resets    *reset.Service
	logger    *slog.Logger
}

// NewService creates an identity Service.
func NewService(dir *directory.Service, sessions *session.Service, resets *reset.Service, logger *slog.Logger) (*Service, error) {
	if dir == nil {
		return nil, oops.Errorf("directory service is required")
	}
	if sessions == nil {
		return nil, oops.Errorf("session service is required")
	}
	if resets == nil {
		return nil, oops.Errorf("reset service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		directory: dir,
		sessions:  sessions,
		resets:    resets,
		logger:    logger,
	}, nil
}

// Register creates a new account. Registration does not log in; callers
// follow with Login.
func (s *Service) Register(ctx context.Context, username, password, email string) (*directory.Account, error) {
	return s.directory.Register(ctx, username, password, email)
}

// Login verifies credentials and starts a session, returning the
// account and the plaintext session token.
func (s *Service) Login(ctx context.Context, identifier, password string) (*directory.Account, string, error) {
	account, err := s.directory.Login(ctx, identifier, password)
	if err != nil {
		return nil, "", err
	}

	_, token, err := s.sessions.Start(ctx, account.StorageKey)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// Logout ends the current session. Account records are untouched.
func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.End(ctx)
}

// IsLoggedIn reports whether a live session exists.
func (s *Service) IsLoggedIn(ctx context.Context) (bool, error) {
	return s.sessions.IsLoggedIn(ctx)
}

// CurrentUser returns the account behind the live session.
func (s *Service) CurrentUser(ctx context.Context) (*directory.Account, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, oops.Code("SESSION_MISSING").Wrapf(ErrNotLoggedIn, "no active session")
		}
		return nil, err
	}

	account, err := s.directory.Get(ctx, sess.AccountKey)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			// The session points at a deleted account; treat it as
			// logged out rather than surfacing a dangling reference.
			return nil, oops.Code("SESSION_MISSING").Wrapf(ErrNotLoggedIn, "session account no longer exists")
		}
		return nil, err
	}
	return account, nil
}

// UpdateProfile applies updates to the current session's account.
func (s *Service) UpdateProfile(ctx context.Context, updates directory.ProfileUpdate) (*directory.Account, error) {
	account, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.directory.UpdateProfile(ctx, account.StorageKey, updates)
}

// IsEmailUnique reports whether the address is free to register.
func (s *Service) IsEmailUnique(ctx context.Context, email string) (bool, error) {
	return s.directory.IsEmailUnique(ctx, email)
}

// InitiateReset issues a password reset token for the email.
func (s *Service) InitiateReset(ctx context.Context, email string) (string, error) {
	return s.resets.Initiate(ctx, email)
}

// ValidateResetToken reports whether the token is currently valid.
func (s *Service) ValidateResetToken(ctx context.Context, email, token string) (bool, error) {
	return s.resets.Validate(ctx, email, token)
}

// ConsumeAndReset redeems a reset token and sets the new password.
func (s *Service) ConsumeAndReset(ctx context.Context, email, newPassword, token string) (bool, error) {
	return s.resets.ConsumeAndReset(ctx, email, newPassword, token)
}

// RemoveAccounts deletes every account record and ends any session
// pointing at them.
func (s *Service) RemoveAccounts(ctx context.Context) error {
	if err := s.directory.RemoveAccounts(ctx); err != nil {
		return err
	}
	return s.sessions.End(ctx)
}
