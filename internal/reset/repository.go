// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package reset

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/samber/oops"

	"github.com/earnchallenge/identity/internal/directory"
	"github.com/earnchallenge/identity/internal/kvstore"
)

// keyPrefix namespaces reset records in the shared store.
const keyPrefix = "reset_token_"

// TokenRepository persists reset tokens, at most one per email.
type TokenRepository interface {
	// Put stores the token record, silently overwriting any existing
	// record for the same email.
	Put(ctx context.Context, token *Token) error

	// Get retrieves the record for an email. Returns
	// kvstore.ErrNotFound when none exists.
	Get(ctx context.Context, email string) (*Token, error)

	// Delete removes the record for an email. Deleting an absent
	// record is not an error.
	Delete(ctx context.Context, email string) error
}

// KVTokenRepository stores reset tokens in a kvstore.Store under
// reset_token_<normalized email>.
type KVTokenRepository struct {
	store kvstore.Store
}

// NewKVTokenRepository creates a KVTokenRepository.
func NewKVTokenRepository(store kvstore.Store) *KVTokenRepository {
	return &KVTokenRepository{store: store}
}

func tokenKey(email string) string {
	return keyPrefix + directory.NormalizeEmail(email)
}

// Put implements TokenRepository.
func (r *KVTokenRepository) Put(ctx context.Context, token *Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return oops.Code("STORE_WRITE_FAILED").
			With("operation", "encode reset token").
			Wrap(err)
	}
	if err := r.store.Set(ctx, tokenKey(token.Email), data); err != nil {
		return oops.Code("STORE_WRITE_FAILED").
			With("operation", "store reset token").
			Wrap(err)
	}
	return nil
}

// Get implements TokenRepository.
func (r *KVTokenRepository) Get(ctx context.Context, email string) (*Token, error) {
	data, err := r.store.Get(ctx, tokenKey(email))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, err
		}
		return nil, oops.Code("STORE_READ_FAILED").
			With("operation", "read reset token").
			Wrap(err)
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, oops.Code("STORE_CORRUPT").
			With("key", tokenKey(email)).
			Wrapf(err, "stored reset token is not valid JSON")
	}
	return &token, nil
}

// Delete implements TokenRepository.
func (r *KVTokenRepository) Delete(ctx context.Context, email string) error {
	if err := r.store.Delete(ctx, tokenKey(email)); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return oops.Code("STORE_WRITE_FAILED").
			With("operation", "delete reset token").
			Wrap(err)
	}
	return nil
}
