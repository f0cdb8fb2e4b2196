// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MaxPasswordBytes is the longest input bcrypt accepts. Longer passwords
	// are cut to this length, so a password and its 72-byte prefix are
	// equivalent.
	MaxPasswordBytes = 72

	// FallbackPasswordBytes is the input length used for the single retry
	// after an unexpected hashing failure.
	FallbackPasswordBytes = 50
)

// ErrPasswordHashing is returned by [PasswordHasher.Hash] when both the
// regular and the fallback attempt failed.
var ErrPasswordHashing = errors.New("unable to hash password")

// bcrypt entry points, replaced in tests to inject failures.
var (
	generateFromPassword   = bcrypt.GenerateFromPassword
	compareHashAndPassword = bcrypt.CompareHashAndPassword
)

// PasswordHasher produces and checks salted bcrypt digests.
// It holds no mutable state and is safe for concurrent use.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using the given bcrypt cost. Costs
// outside bcrypt's accepted range fall back to [bcrypt.DefaultCost].
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt digest of plaintext truncated to [MaxPasswordBytes].
//
// If bcrypt fails for any reason the input is shortened to
// [FallbackPasswordBytes] and hashed once more; when that also fails the
// result wraps [ErrPasswordHashing].
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := generateFromPassword(TruncatePassword(plaintext, MaxPasswordBytes), h.cost)
	if err == nil {
		return string(digest), nil
	}

	digest, retryErr := generateFromPassword(TruncatePassword(plaintext, FallbackPasswordBytes), h.cost)
	if retryErr != nil {
		return "", fmt.Errorf("%w: %w", ErrPasswordHashing, errors.Join(err, retryErr))
	}

	return string(digest), nil
}

// Verify reports whether plaintext matches digest. The same truncation as
// [PasswordHasher.Hash] is applied first. A mismatch returns false at once;
// any other failure triggers one retry with the shorter fallback input.
// Verify never returns an error: every failure is a non-match.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	err := compareHashAndPassword([]byte(digest), TruncatePassword(plaintext, MaxPasswordBytes))
	if err == nil {
		return true
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false
	}

	return compareHashAndPassword([]byte(digest), TruncatePassword(plaintext, FallbackPasswordBytes)) == nil
}

// TruncatePassword returns at most limit bytes of plaintext without splitting
// a multi-byte UTF-8 sequence.
func TruncatePassword(plaintext string, limit int) []byte {
	b := []byte(plaintext)
	if len(b) <= limit {
		return b
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return b[:cut]
}
