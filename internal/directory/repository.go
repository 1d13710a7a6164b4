// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package directory

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/samber/oops"

	"github.com/earnchallenge/identity/internal/kvstore"
)

// ErrNotFound is returned when a requested account does not exist.
var ErrNotFound = errors.New("account not found")

// AccountRepository manages account persistence. This package is the
// only writer of the account key namespace.
type AccountRepository interface {
	// NewStorageKey assigns a fresh collision-resistant key within the
	// repository's namespace.
	NewStorageKey() string

	// Create stores a new account under its storage key.
	Create(ctx context.Context, account *Account) error

	// Get retrieves an account by its storage key.
	Get(ctx context.Context, storageKey string) (*Account, error)

	// List returns all accounts in ascending storage-key order
	// (creation order, since keys embed a ULID).
	List(ctx context.Context) ([]*Account, error)

	// FindByEmail returns the first account whose normalized email
	// matches. Returns ErrNotFound if no account matches.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindByIdentifier returns the first account whose normalized
	// username OR normalized email equals the normalized identifier.
	FindByIdentifier(ctx context.Context, identifier string) (*Account, error)

	// Update replaces the stored record for the account.
	Update(ctx context.Context, account *Account) error

	// Delete removes an account by storage key.
	Delete(ctx context.Context, storageKey string) error

	// DeleteAll removes every account record.
	DeleteAll(ctx context.Context) error
}

// KVAccountRepository implements AccountRepository on the key-value
// store, one JSON document per account under <prefix>_<ulid>.
type KVAccountRepository struct {
	store  kvstore.Store
	prefix string
}

// NewKVAccountRepository creates an account repository using the given
// storage prefix for its key namespace.
func NewKVAccountRepository(store kvstore.Store, prefix string) *KVAccountRepository {
	return &KVAccountRepository{store: store, prefix: prefix}
}

// NewStorageKey assigns a fresh key within this repository's namespace.
func (r *KVAccountRepository) NewStorageKey() string {
	return NewStorageKey(r.prefix)
}

// Create stores a new account under its storage key.
func (r *KVAccountRepository) Create(ctx context.Context, account *Account) error {
	return r.write(ctx, account, "create account")
}

// Update replaces the stored record for the account.
func (r *KVAccountRepository) Update(ctx context.Context, account *Account) error {
	return r.write(ctx, account, "update account")
}

func (r *KVAccountRepository) write(ctx context.Context, account *Account, operation string) error {
	data, err := json.Marshal(account)
	if err != nil {
		return oops.Code("STORE_WRITE_FAILED").With("operation", operation).Wrap(err)
	}
	if err := r.store.Set(ctx, account.StorageKey, data); err != nil {
		return oops.With("operation", operation).With("storage_key", account.StorageKey).Wrap(err)
	}
	return nil
}

// Get retrieves an account by its storage key.
func (r *KVAccountRepository) Get(ctx context.Context, storageKey string) (*Account, error) {
	data, err := r.store.Get(ctx, storageKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, oops.With("operation", "get account").With("storage_key", storageKey).Wrap(err)
	}
	return decodeAccount(storageKey, data)
}

// List returns all accounts in ascending storage-key order.
func (r *KVAccountRepository) List(ctx context.Context) ([]*Account, error) {
	keys, err := r.store.List(ctx, r.prefix+"_")
	if err != nil {
		return nil, oops.With("operation", "list accounts").Wrap(err)
	}

	accounts := make([]*Account, 0, len(keys))
	for _, key := range keys {
		account, err := r.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			// Deleted between List and Get; skip.
			continue
		}
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// FindByEmail returns the first account whose normalized email matches.
func (r *KVAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	normalized := NormalizeEmail(email)
	return r.find(ctx, func(a *Account) bool {
		return NormalizeEmail(a.Email) == normalized
	})
}

// FindByIdentifier returns the first account whose normalized username
// or email equals the normalized identifier.
func (r *KVAccountRepository) FindByIdentifier(ctx context.Context, identifier string) (*Account, error) {
	normalized := NormalizeEmail(identifier)
	return r.find(ctx, func(a *Account) bool {
		return strings.ToLower(strings.TrimSpace(a.Username)) == normalized ||
			NormalizeEmail(a.Email) == normalized
	})
}

// find scans all accounts in key order for the first match. O(n) over
// stored accounts; acceptable at local-store scale.
func (r *KVAccountRepository) find(ctx context.Context, match func(*Account) bool) (*Account, error) {
	accounts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		if match(account) {
			return account, nil
		}
	}
	return nil, ErrNotFound
}

// Delete removes an account by storage key.
func (r *KVAccountRepository) Delete(ctx context.Context, storageKey string) error {
	if err := r.store.Delete(ctx, storageKey); err != nil {
		return oops.With("operation", "delete account").With("storage_key", storageKey).Wrap(err)
	}
	return nil
}

// DeleteAll removes every account record in the namespace.
func (r *KVAccountRepository) DeleteAll(ctx context.Context) error {
	keys, err := r.store.List(ctx, r.prefix+"_")
	if err != nil {
		return oops.With("operation", "delete all accounts").Wrap(err)
	}
	for _, key := range keys {
		if err := r.store.Delete(ctx, key); err != nil {
			return oops.With("operation", "delete all accounts").With("storage_key", key).Wrap(err)
		}
	}
	return nil
}

// decodeAccount unmarshals a stored record. Malformed persisted JSON is
// a data-layer trust violation and surfaces as STORE_CORRUPT.
func decodeAccount(storageKey string, data []byte) (*Account, error) {
	var account Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, oops.Code("STORE_CORRUPT").
			With("storage_key", storageKey).
			Wrap(err)
	}
	// Older records may predate the embedded key.
	if account.StorageKey == "" {
		account.StorageKey = storageKey
	}
	return &account, nil
}
