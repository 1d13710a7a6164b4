// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package identity_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earnchallenge/identity/internal/identity"
	"github.com/earnchallenge/identity/pkg/errutil"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func loginAlice(t *testing.T, svc *identity.Service) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice", "secret123", "alice@example.com")
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
}

func TestService_UploadAvatar(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIdentity(t)
	loginAlice(t, svc)

	path := filepath.Join(t.TempDir(), "avatar.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

	account, err := svc.UploadAvatar(ctx, path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(account.ProfilePic, "data:image/png;base64,"))
}

func TestService_UploadAvatar_NotAnImage(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIdentity(t)
	loginAlice(t, svc)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o600))

	_, err := svc.UploadAvatar(ctx, path)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "AVATAR_NOT_IMAGE")
}

func TestService_UploadAvatar_MissingFile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIdentity(t)
	loginAlice(t, svc)

	_, err := svc.UploadAvatar(ctx, filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "AVATAR_READ_FAILED")
}

func TestService_UploadAvatar_TooLarge(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIdentity(t)
	loginAlice(t, svc)

	big := make([]byte, identity.MaxAvatarBytes+1)
	copy(big, pngHeader)
	path := filepath.Join(t.TempDir(), "big.png")
	require.NoError(t, os.WriteFile(path, big, 0o600))

	_, err := svc.UploadAvatar(ctx, path)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "AVATAR_TOO_LARGE")
}
