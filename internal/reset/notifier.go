// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package reset

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// Notifier delivers a freshly issued reset token out of band.
type Notifier interface {
	SendResetToken(ctx context.Context, email, token string) error
}

// LogNotifier is a delivery stand-in that writes the token to the log.
// Real email transport is out of scope.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// SendResetToken implements Notifier.
func (n *LogNotifier) SendResetToken(_ context.Context, email, token string) error {
	n.logger.Info("password reset token issued",
		slog.String("email", email),
		slog.String("token", token),
	)
	return nil
}

// RetryNotifier wraps a Notifier with fibonacci backoff. Delivery is
// flaky by nature; a handful of retries smooths over transient failures
// before the caller falls back to log-and-continue.
type RetryNotifier struct {
	next       Notifier
	maxRetries uint64
	base       time.Duration
}

// NewRetryNotifier creates a RetryNotifier around next.
func NewRetryNotifier(next Notifier) *RetryNotifier {
	return &RetryNotifier{
		next:       next,
		maxRetries: 3,
		base:       100 * time.Millisecond,
	}
}

// SendResetToken implements Notifier. Every failure from the wrapped
// notifier is treated as retryable.
func (n *RetryNotifier) SendResetToken(ctx context.Context, email, token string) error {
	backoff := retry.WithMaxRetries(n.maxRetries, retry.NewFibonacci(n.base))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := n.next.SendResetToken(ctx, email, token); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
