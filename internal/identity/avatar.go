// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package identity

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/samber/oops"

	"github.com/earnchallenge/identity/internal/directory"
)

// MaxAvatarBytes bounds avatar uploads. The image is embedded in the
// account record as a data URL, so it has to stay small enough for a
// local store.
const MaxAvatarBytes = 2 << 20

// UploadAvatar reads a local image file and stores it as a data URL in
// the current user's profile picture.
func (s *Service) UploadAvatar(ctx context.Context, path string) (*directory.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Code("AVATAR_READ_FAILED").
			With("path", path).
			Wrap(err)
	}
	if len(data) > MaxAvatarBytes {
		return nil, oops.Code("AVATAR_TOO_LARGE").
			With("size", len(data)).
			With("limit", MaxAvatarBytes).
			Errorf("avatar file exceeds %d bytes", MaxAvatarBytes)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, oops.Code("AVATAR_NOT_IMAGE").
			With("content_type", contentType).
			Errorf("file is not an image")
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
	return s.UpdateProfile(ctx, directory.ProfileUpdate{ProfilePic: &dataURL})
}
