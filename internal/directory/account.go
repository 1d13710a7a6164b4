// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package directory

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// emailRegex matches the basic local@domain.tld shape: no whitespace or
// extra @ in either part, and at least one dot in the domain.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// defaultBio seeds the bio field of freshly registered accounts.
const defaultBio = "New to Earn Challenge"

// Account is a registered identity plus its profile and gamification
// fields. It is the at-rest JSON document stored under its StorageKey;
// the profile fields below PasswordHash are opaque to this package and
// pass through updates unmodified.
type Account struct {
	StorageKey   string `json:"storageKey"`
	Username     string `json:"username"`
	Email        string `json:"email"` // always normalized
	PasswordHash string `json:"passwordHash"`

	ProfilePic             string   `json:"profilePic"`
	FullName               string   `json:"fullName"`
	Bio                    string   `json:"bio"`
	JoinDate               string   `json:"joinDate"`
	ChallengesCreated      int      `json:"challengesCreated"`
	ChallengesParticipated int      `json:"challengesParticipated"`
	ChallengesWon          int      `json:"challengesWon"`
	ParticipatedChallenges []string `json:"participatedChallenges"`
	WonChallenges          []string `json:"wonChallenges"`
}

// ProfileUpdate is a partial account update. Nil fields are left
// untouched; non-nil fields replace the stored value wholesale.
type ProfileUpdate struct {
	ProfilePic             *string
	FullName               *string
	Bio                    *string
	ChallengesCreated      *int
	ChallengesParticipated *int
	ChallengesWon          *int
	ParticipatedChallenges *[]string
	WonChallenges          *[]string
}

// Apply merges the update onto the account.
func (u ProfileUpdate) Apply(a *Account) {
	if u.ProfilePic != nil {
		a.ProfilePic = *u.ProfilePic
	}
	if u.FullName != nil {
		a.FullName = *u.FullName
	}
	if u.Bio != nil {
		a.Bio = *u.Bio
	}
	if u.ChallengesCreated != nil {
		a.ChallengesCreated = *u.ChallengesCreated
	}
	if u.ChallengesParticipated != nil {
		a.ChallengesParticipated = *u.ChallengesParticipated
	}
	if u.ChallengesWon != nil {
		a.ChallengesWon = *u.ChallengesWon
	}
	if u.ParticipatedChallenges != nil {
		a.ParticipatedChallenges = *u.ParticipatedChallenges
	}
	if u.WonChallenges != nil {
		a.WonChallenges = *u.WonChallenges
	}
}

// Limits holds the configured validation bounds for registration and
// password changes. Supplied by configuration, never hard-coded.
type Limits struct {
	MinUsername int
	MaxUsername int
	MinPassword int
	MaxPassword int
}

// ValidateUsername checks username length against the configured bounds.
func (l Limits) ValidateUsername(username string) error {
	if len(username) < l.MinUsername {
		return oops.Code("AUTH_USERNAME_TOO_SHORT").
			With("min", l.MinUsername).
			Errorf("username must be at least %d characters", l.MinUsername)
	}
	if len(username) > l.MaxUsername {
		return oops.Code("AUTH_USERNAME_TOO_LONG").
			With("max", l.MaxUsername).
			Errorf("username must be at most %d characters", l.MaxUsername)
	}
	return nil
}

// ValidatePassword checks password length against the configured bounds.
func (l Limits) ValidatePassword(password string) error {
	if len(password) < l.MinPassword {
		return oops.Code("AUTH_PASSWORD_TOO_SHORT").
			With("min", l.MinPassword).
			Errorf("password must be at least %d characters", l.MinPassword)
	}
	if len(password) > l.MaxPassword {
		return oops.Code("AUTH_PASSWORD_TOO_LONG").
			With("max", l.MaxPassword).
			Errorf("password must be at most %d characters", l.MaxPassword)
	}
	return nil
}

// NormalizeEmail returns the canonical form of an email address:
// lower-cased with leading and trailing whitespace trimmed. Every
// storage write and every comparison uses this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that the (already normalized or raw) address has
// the basic local@domain.tld shape.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(NormalizeEmail(email)) {
		return oops.Code("AUTH_INVALID_EMAIL").
			Errorf("invalid email address")
	}
	return nil
}

// NewStorageKey assigns a collision-resistant storage key under the
// configured prefix. ULIDs are time-ordered, so ascending key order is
// creation order within the namespace.
func NewStorageKey(prefix string) string {
	return prefix + "_" + ulid.Make().String()
}

// NewAccount builds a registration-time account with seeded profile
// defaults. Username, email, and password hash must already be
// validated; email must be normalized.
func NewAccount(storageKey, username, email, passwordHash string, now time.Time) *Account {
	return &Account{
		StorageKey:   storageKey,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		ProfilePic:   defaultAvatarURL(username),
		FullName:     username,
		Bio:          defaultBio,
		JoinDate:     now.UTC().Format(time.RFC3339),
	}
}

// defaultAvatarURL builds the placeholder avatar for a new account.
func defaultAvatarURL(username string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(username) + "&background=0095f6&color=fff"
}
