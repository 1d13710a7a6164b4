// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/earnchallenge/identity/internal/kvstore"
)

// currentKey is where the live session lives in the store.
const currentKey = "session_current"

// Service manages the current session record.
type Service struct {
	store  kvstore.Store
	ttl    time.Duration
	logger *slog.Logger

	now func() time.Time
}

// NewService creates a session Service. ttl bounds session validity and
// must be positive.
func NewService(store kvstore.Store, ttl time.Duration, logger *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, oops.Errorf("store is required")
	}
	if ttl <= 0 {
		return nil, oops.Errorf("session ttl must be positive, got %s", ttl)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Start opens a session for the account, replacing any existing one,
// and returns the record together with the plaintext token.
func (s *Service) Start(ctx context.Context, accountKey string) (*Session, string, error) {
	if accountKey == "" {
		return nil, "", oops.Code("SESSION_START_FAILED").Errorf("account key cannot be empty")
	}

	token, hash, err := GenerateToken()
	if err != nil {
		return nil, "", oops.Code("SESSION_START_FAILED").
			With("operation", "generate token").
			Wrap(err)
	}

	startedAt := s.now()
	sess := &Session{
		AccountKey: accountKey,
		TokenHash:  hash,
		CreatedAt:  startedAt,
		ExpiresAt:  startedAt.Add(s.ttl),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, "", oops.Code("SESSION_START_FAILED").
			With("operation", "encode session").
			Wrap(err)
	}
	if err := s.store.Set(ctx, currentKey, data); err != nil {
		return nil, "", oops.Code("SESSION_START_FAILED").
			With("operation", "store session").
			Wrap(err)
	}

	s.logger.Info("session started",
		slog.String("account_key", accountKey),
		slog.Time("expires_at", sess.ExpiresAt),
	)
	return sess, token, nil
}

// Current returns the live session. A missing record surfaces as
// kvstore.ErrNotFound; a lapsed one as SESSION_EXPIRED. Expiry is
// checked lazily here, nothing sweeps the record in the background.
func (s *Service) Current(ctx context.Context) (*Session, error) {
	data, err := s.store.Get(ctx, currentKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, err
		}
		return nil, oops.Code("SESSION_READ_FAILED").
			With("operation", "read session").
			Wrap(err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, oops.Code("STORE_CORRUPT").
			With("key", currentKey).
			Wrapf(err, "stored session is not valid JSON")
	}

	if sess.IsExpiredAt(s.now()) {
		return nil, oops.Code("SESSION_EXPIRED").Errorf("session has expired")
	}
	return &sess, nil
}

// IsLoggedIn reports whether a live, unexpired session exists. An
// expired or missing session is a plain false, not an error.
func (s *Service) IsLoggedIn(ctx context.Context) (bool, error) {
	_, err := s.Current(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, kvstore.ErrNotFound) {
		return false, nil
	}
	if oopsErr, ok := oops.AsOops(err); ok && oopsErr.Code() == "SESSION_EXPIRED" {
		return false, nil
	}
	return false, err
}

// End removes the session record. Accounts are untouched; ending a
// session is not account deletion. Ending when no session exists is a
// no-op.
func (s *Service) End(ctx context.Context) error {
	if err := s.store.Delete(ctx, currentKey); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return oops.Code("SESSION_END_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}
	s.logger.Info("session ended")
	return nil
}
