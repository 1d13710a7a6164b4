// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

// Package session tracks the current login as an explicit record with
// its own token and TTL, replacing any inference from stored accounts.
package session

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/samber/oops"
)

// TokenBytes is the entropy of a session token. 32 bytes = 64 hex chars.
const TokenBytes = 32

// Session is the stored record of a login. One record exists at a time
// (single-device model); starting a new session replaces it.
type Session struct {
	AccountKey string    `json:"accountKey"`
	TokenHash  string    `json:"tokenHash"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// IsExpiredAt reports whether the session is past its TTL at the given
// instant.
func (s *Session) IsExpiredAt(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// GenerateToken creates a secure random session token and its hash.
// The plaintext goes to the caller; only the hash is stored.
func GenerateToken() (token, hash string, err error) {
	buf := make([]byte, TokenBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", oops.Code("SESSION_TOKEN_GENERATE_FAILED").Wrap(err)
	}

	token = hex.EncodeToString(buf)
	return token, HashToken(token), nil
}

// HashToken computes the hex-encoded SHA-256 hash of a session token.
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
