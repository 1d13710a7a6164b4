// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package reset_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earnchallenge/identity/internal/reset"
)

func TestGenerateToken(t *testing.T) {
	token, hash, err := reset.GenerateToken()
	require.NoError(t, err)

	assert.Len(t, token, 64, "32 random bytes hex encoded")
	assert.Len(t, hash, 64, "sha256 hex encoded")
	assert.Equal(t, reset.HashToken(token), hash)
	assert.NotEqual(t, token, hash)
}

func TestGenerateToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 20 {
		token, _, err := reset.GenerateToken()
		require.NoError(t, err)
		assert.False(t, seen[token], "duplicate token generated")
		seen[token] = true
	}
}

func TestVerifyToken(t *testing.T) {
	token, hash, err := reset.GenerateToken()
	require.NoError(t, err)

	assert.True(t, reset.VerifyToken(token, hash))
	assert.False(t, reset.VerifyToken("wrong", hash))
	assert.False(t, reset.VerifyToken("", hash))
	assert.False(t, reset.VerifyToken(token, ""))
}

func TestToken_IsExpiredAt(t *testing.T) {
	expires := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	token := &reset.Token{ExpiresAt: expires}

	assert.False(t, token.IsExpiredAt(expires.Add(-time.Second)))
	assert.False(t, token.IsExpiredAt(expires), "valid through the deadline itself")
	assert.True(t, token.IsExpiredAt(expires.Add(time.Nanosecond)))
}
