// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package directory_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earnchallenge/identity/internal/directory"
	"github.com/earnchallenge/identity/pkg/errutil"
)

func TestArgon2idHasher_HashAndVerify(t *testing.T) {
	hasher := directory.NewArgon2idHasher()

	hash, err := hasher.Hash("secret123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	valid, err := hasher.Verify("secret123", hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = hasher.Verify("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestArgon2idHasher_HashesAreSalted(t *testing.T) {
	hasher := directory.NewArgon2idHasher()

	first, err := hasher.Hash("secret123")
	require.NoError(t, err)
	second, err := hasher.Hash("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "same password must produce different hashes")
}

func TestArgon2idHasher_EmptyPassword(t *testing.T) {
	hasher := directory.NewArgon2idHasher()

	_, err := hasher.Hash("")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "AUTH_EMPTY_PASSWORD")
}

func TestArgon2idHasher_InvalidHashFormats(t *testing.T) {
	hasher := directory.NewArgon2idHasher()

	tests := []struct {
		name string
		hash string
	}{
		{name: "empty", hash: ""},
		{name: "not a PHC string", hash: "plaintext"},
		{name: "wrong algorithm", hash: "$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{name: "bad parameters", hash: "$argon2id$v=19$garbage$c2FsdA$aGFzaA"},
		{name: "bad salt encoding", hash: "$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA"},
		{name: "bad hash encoding", hash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, err := hasher.Verify("whatever", tt.hash)
			require.Error(t, err)
			assert.False(t, valid)
			errutil.AssertErrorCode(t, err, "AUTH_INVALID_HASH")
		})
	}
}
