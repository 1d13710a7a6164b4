// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package reset

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/earnchallenge/identity/internal/directory"
	"github.com/earnchallenge/identity/internal/kvstore"
)

// Directory is the slice of the account directory the reset flow needs.
type Directory interface {
	// FindByEmail returns the storage key of the account registered
	// under the address.
	FindByEmail(ctx context.Context, email string) (string, error)

	// ChangePassword replaces the account's password hash, enforcing
	// the configured password bounds.
	ChangePassword(ctx context.Context, storageKey, newPassword string) error
}

// Service runs the recovery workflow: issue a token, validate it
// against its TTL, and consume it exactly once to set a new password.
type Service struct {
	tokens    TokenRepository
	directory Directory
	notifier  Notifier
	ttl       time.Duration
	logger    *slog.Logger

	now func() time.Time
}

// NewService creates a reset Service. ttl bounds token validity and
// must be positive.
func NewService(tokens TokenRepository, dir Directory, notifier Notifier, ttl time.Duration, logger *slog.Logger) (*Service, error) {
	if tokens == nil {
		return nil, oops.Errorf("token repository is required")
	}
	if dir == nil {
		return nil, oops.Errorf("directory is required")
	}
	if notifier == nil {
		return nil, oops.Errorf("notifier is required")
	}
	if ttl <= 0 {
		return nil, oops.Errorf("token ttl must be positive, got %s", ttl)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		tokens:    tokens,
		directory: dir,
		notifier:  notifier,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Initiate issues a reset token for the email and returns the
// plaintext. Re-issuing for the same email overwrites the previous
// record, invalidating any outstanding token. Notifier failure is
// logged but never rolls back issuance.
func (s *Service) Initiate(ctx context.Context, email string) (string, error) {
	if _, err := s.directory.FindByEmail(ctx, email); err != nil {
		return "", err
	}

	token, hash, err := GenerateToken()
	if err != nil {
		return "", oops.Code("RESET_INITIATE_FAILED").
			With("operation", "generate token").
			Wrap(err)
	}

	normalized := directory.NormalizeEmail(email)
	issuedAt := s.now()
	record := &Token{
		Email:     normalized,
		TokenHash: hash,
		CreatedAt: issuedAt,
		ExpiresAt: issuedAt.Add(s.ttl),
	}
	if err := s.tokens.Put(ctx, record); err != nil {
		return "", oops.Code("RESET_INITIATE_FAILED").
			With("operation", "store token").
			Wrap(err)
	}

	if err := s.notifier.SendResetToken(ctx, normalized, token); err != nil {
		s.logger.Error("reset token notification failed",
			slog.String("email", normalized),
			slog.Any("error", err),
		)
	}

	s.logger.Info("reset token issued",
		slog.String("email", normalized),
		slog.Time("expires_at", record.ExpiresAt),
	)
	return token, nil
}

// Validate reports whether the token is currently valid for the email.
// It is a pure predicate: absent record, hash mismatch, and lapsed TTL
// all yield false, and nothing is mutated.
func (s *Service) Validate(ctx context.Context, email, token string) (bool, error) {
	record, err := s.tokens.Get(ctx, email)
	if errors.Is(err, kvstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, oops.Code("RESET_VALIDATE_FAILED").
			With("operation", "read token").
			Wrap(err)
	}

	if !VerifyToken(token, record.TokenHash) {
		return false, nil
	}
	if record.IsExpiredAt(s.now()) {
		return false, nil
	}
	return true, nil
}

// ConsumeAndReset validates the token and, when valid, replaces the
// account's password and deletes the token record. One-time use is
// enforced here: the record is removed only after the password change
// succeeds, so a failed account lookup leaves the token intact.
func (s *Service) ConsumeAndReset(ctx context.Context, email, newPassword, token string) (bool, error) {
	valid, err := s.Validate(ctx, email, token)
	if err != nil || !valid {
		return false, err
	}

	storageKey, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return false, nil
		}
		return false, oops.Code("RESET_CONSUME_FAILED").
			With("operation", "find account").
			Wrap(err)
	}

	if err := s.directory.ChangePassword(ctx, storageKey, newPassword); err != nil {
		return false, err
	}

	if err := s.tokens.Delete(ctx, email); err != nil {
		return false, oops.Code("RESET_CONSUME_FAILED").
			With("operation", "delete token").
			Wrap(err)
	}

	s.logger.Info("reset token consumed",
		slog.String("email", directory.NormalizeEmail(email)),
	)
	return true, nil
}
