// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package errutil_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earnchallenge/identity/pkg/errutil"
)

func logToJSON(t *testing.T, fn func(logger *slog.Logger)) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	fn(logger)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestLogError_OopsError(t *testing.T) {
	err := oops.Code("AUTH_DUPLICATE_EMAIL").
		With("email", "a@b.com").
		Errorf("email already registered")

	record := logToJSON(t, func(logger *slog.Logger) {
		errutil.LogError(logger, "registration failed", err)
	})

	assert.Equal(t, "registration failed", record["msg"])
	assert.Equal(t, "AUTH_DUPLICATE_EMAIL", record["code"])
	context, ok := record["context"].(map[string]any)
	require.True(t, ok, "context attribute missing")
	assert.Equal(t, "a@b.com", context["email"])
}

func TestLogError_PlainError(t *testing.T) {
	record := logToJSON(t, func(logger *slog.Logger) {
		errutil.LogError(logger, "something broke", errors.New("boom"))
	})

	assert.Equal(t, "something broke", record["msg"])
	assert.Equal(t, "boom", record["error"])
	assert.NotContains(t, record, "code")
}
