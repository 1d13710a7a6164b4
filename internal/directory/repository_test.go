// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package directory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earnchallenge/identity/internal/directory"
	"github.com/earnchallenge/identity/internal/kvstore"
	"github.com/earnchallenge/identity/pkg/errutil"
)

const testPrefix = "earnchallenge_user"

func newRepo(t *testing.T) (*directory.KVAccountRepository, kvstore.Store) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	return directory.NewKVAccountRepository(store, testPrefix), store
}

func seedAccount(t *testing.T, repo *directory.KVAccountRepository, username, email string) *directory.Account {
	t.Helper()
	account := &directory.Account{
		StorageKey: repo.NewStorageKey(),
		Username:   username,
		Email:      directory.NormalizeEmail(email),
	}
	require.NoError(t, repo.Create(context.Background(), account))
	return account
}

func TestKVAccountRepository_CreateGet(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	created := seedAccount(t, repo, "alice", "alice@example.com")

	got, err := repo.Get(ctx, created.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = repo.Get(ctx, testPrefix+"_missing")
	require.ErrorIs(t, err, directory.ErrNotFound)
}

func TestKVAccountRepository_ListInCreationOrder(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	first := seedAccount(t, repo, "alice", "alice@example.com")
	second := seedAccount(t, repo, "bob", "bob@example.com")
	third := seedAccount(t, repo, "carol", "carol@example.com")

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, first.StorageKey, accounts[0].StorageKey)
	assert.Equal(t, second.StorageKey, accounts[1].StorageKey)
	assert.Equal(t, third.StorageKey, accounts[2].StorageKey)
}

func TestKVAccountRepository_FindByEmail(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	seedAccount(t, repo, "alice", "alice@example.com")

	t.Run("case and whitespace insensitive", func(t *testing.T) {
		got, err := repo.FindByEmail(ctx, "  ALICE@Example.COM ")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, directory.ErrNotFound)
	})
}

func TestKVAccountRepository_FindByIdentifier(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	seedAccount(t, repo, "Alice", "alice@example.com")

	t.Run("matches username case-insensitively", func(t *testing.T) {
		got, err := repo.FindByIdentifier(ctx, " alice ")
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Username)
	})

	t.Run("matches email", func(t *testing.T) {
		got, err := repo.FindByIdentifier(ctx, "ALICE@EXAMPLE.COM")
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Username)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := repo.FindByIdentifier(ctx, "mallory")
		require.ErrorIs(t, err, directory.ErrNotFound)
	})
}

func TestKVAccountRepository_UpdateReplacesRecord(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	account := seedAccount(t, repo, "alice", "alice@example.com")
	account.Bio = "updated"
	require.NoError(t, repo.Update(ctx, account))

	got, err := repo.Get(ctx, account.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Bio)
}

func TestKVAccountRepository_DeleteAll(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)

	seedAccount(t, repo, "alice", "alice@example.com")
	seedAccount(t, repo, "bob", "bob@example.com")
	// A record outside the account namespace must survive.
	require.NoError(t, store.Set(ctx, "reset_token_x@y.com", []byte(`{}`)))

	require.NoError(t, repo.DeleteAll(ctx))

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	_, err = store.Get(ctx, "reset_token_x@y.com")
	require.NoError(t, err)
}

func TestKVAccountRepository_CorruptRecord(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)

	key := testPrefix + "_01CORRUPT"
	require.NoError(t, store.Set(ctx, key, []byte("{not json")))

	_, err := repo.Get(ctx, key)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "STORE_CORRUPT")

	// The corruption also surfaces through scans instead of being skipped.
	_, err = repo.List(ctx)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "STORE_CORRUPT")
}
