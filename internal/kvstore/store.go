// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

// Package kvstore provides the persistent key-value storage layer.
//
// Keys are plain strings namespaced by caller-chosen prefixes; values are
// opaque byte slices (JSON documents everywhere in this application). The
// directory, reset, and session packages own the semantics of their key
// namespaces and are the only writers of them.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("key not found")

// Store persists and retrieves opaque values under string keys.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the value stored under key.
	// Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns all keys beginning with prefix in ascending
	// lexicographic order.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
