// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package session_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/earnchallenge/identity/internal/kvstore"
	"github.com/earnchallenge/identity/internal/session"
	"github.com/earnchallenge/identity/pkg/errutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sessionTTL = 24 * time.Hour

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newService(t *testing.T) (*session.Service, kvstore.Store, *fakeClock) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := kvstore.NewMemoryStore()

	svc, err := session.NewService(store, sessionTTL, logger)
	require.NoError(t, err)

	clock := &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	svc.SetNow(clock.Now)
	return svc, store, clock
}

func TestNewService_Validation(t *testing.T) {
	_, err := session.NewService(nil, sessionTTL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store is required")

	_, err = session.NewService(kvstore.NewMemoryStore(), 0, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ttl must be positive")
}

func TestService_StartAndCurrent(t *testing.T) {
	ctx := context.Background()
	svc, store, clock := newService(t)

	sess, token, err := svc.Start(ctx, "earnchallenge_user_01ABC")
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.Equal(t, "earnchallenge_user_01ABC", sess.AccountKey)
	assert.True(t, sess.ExpiresAt.Equal(clock.Now().Add(sessionTTL)))

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess.AccountKey, current.AccountKey)
	assert.True(t, session.VerifyToken(token, current.TokenHash))

	// Only the hash hits the store.
	raw, err := store.Get(ctx, "session_current")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), token)
}

func TestService_StartReplacesExistingSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, firstToken, err := svc.Start(ctx, "earnchallenge_user_01AAA")
	require.NoError(t, err)
	_, _, err = svc.Start(ctx, "earnchallenge_user_01BBB")
	require.NoError(t, err)

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "earnchallenge_user_01BBB", current.AccountKey)
	assert.False(t, session.VerifyToken(firstToken, current.TokenHash))
}

func TestService_Start_EmptyAccountKey(t *testing.T) {
	svc, _, _ := newService(t)

	_, _, err := svc.Start(context.Background(), "")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "SESSION_START_FAILED")
}

func TestService_Current_NoSession(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Current(context.Background())
	require.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestService_Current_Expired(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newService(t)

	_, _, err := svc.Start(ctx, "earnchallenge_user_01ABC")
	require.NoError(t, err)

	clock.Advance(sessionTTL + time.Second)

	_, err = svc.Current(ctx)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "SESSION_EXPIRED")
}

func TestService_Current_CorruptRecord(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)

	require.NoError(t, store.Set(ctx, "session_current", []byte("{not json")))

	_, err := svc.Current(ctx)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "STORE_CORRUPT")
}

func TestService_IsLoggedIn(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newService(t)

	loggedIn, err := svc.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, loggedIn, "no session yet")

	_, _, err = svc.Start(ctx, "earnchallenge_user_01ABC")
	require.NoError(t, err)

	loggedIn, err = svc.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.True(t, loggedIn)

	clock.Advance(sessionTTL + time.Second)

	loggedIn, err = svc.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, loggedIn, "expired session counts as logged out")
}

func TestService_End(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)

	// Ending with no session is fine.
	require.NoError(t, svc.End(ctx))

	// An account record must survive logout.
	require.NoError(t, store.Set(ctx, "earnchallenge_user_01ABC", []byte(`{"username":"alice"}`)))

	_, _, err := svc.Start(ctx, "earnchallenge_user_01ABC")
	require.NoError(t, err)
	require.NoError(t, svc.End(ctx))

	_, err = svc.Current(ctx)
	require.ErrorIs(t, err, kvstore.ErrNotFound)

	_, err = store.Get(ctx, "earnchallenge_user_01ABC")
	require.NoError(t, err, "logout must not delete accounts")
}
