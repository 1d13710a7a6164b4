// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package errutil_test

import (
	"testing"

	"github.com/samber/oops"

	"github.com/earnchallenge/identity/pkg/errutil"
)

func TestAssertErrorCode(t *testing.T) {
	err := oops.Code("RESET_TOKEN_EXPIRED").Errorf("token has expired")
	errutil.AssertErrorCode(t, err, "RESET_TOKEN_EXPIRED")
}

func TestAssertErrorContext(t *testing.T) {
	err := oops.Code("STORE_READ_FAILED").With("key", "user_x").Errorf("read failed")
	errutil.AssertErrorContext(t, err, "key", "user_x")
}
