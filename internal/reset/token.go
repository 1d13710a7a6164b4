// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

// Package reset manages password recovery tokens: issuance, validation
// against a TTL, and one-time consumption.
package reset

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/samber/oops"
)

// TokenBytes is the entropy of a reset token. 32 bytes = 64 hex chars.
const TokenBytes = 32

// Token is a stored reset request. Only the SHA-256 hash of the random
// token is kept; the plaintext exists just long enough to hand to the
// notifier.
type Token struct {
	Email     string    `json:"email"`
	TokenHash string    `json:"tokenHash"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsExpiredAt reports whether the token is past its TTL at the given
// instant. Expiry is lazy: nothing sweeps stale records, they lose
// validity here and stay on disk until overwritten or consumed.
func (t *Token) IsExpiredAt(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// GenerateToken creates a secure random token and its hash.
// The plaintext goes to the user; only the hash is stored.
func GenerateToken() (token, hash string, err error) {
	buf := make([]byte, TokenBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", oops.Code("RESET_TOKEN_GENERATE_FAILED").Wrap(err)
	}

	token = hex.EncodeToString(buf)
	return token, HashToken(token), nil
}

// HashToken computes the hex-encoded SHA-256 hash of a token.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// VerifyToken checks the plaintext token against a stored hash using a
// constant-time comparison.
func VerifyToken(token, hash string) bool {
	if token == "" || hash == "" {
		return false
	}
	computed := HashToken(token)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}
