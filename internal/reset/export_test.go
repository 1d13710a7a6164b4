// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package reset

import "time"

// SetNow overrides the service clock so tests can move time.
func (s *Service) SetNow(now func() time.Time) {
	s.now = now
}

// SetBackoff shrinks the retry schedule so tests run fast.
func (n *RetryNotifier) SetBackoff(maxRetries uint64, base time.Duration) {
	n.maxRetries = maxRetries
	n.base = base
}
