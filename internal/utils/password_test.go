// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher() *PasswordHasher {
	return NewPasswordHasher(bcrypt.MinCost)
}

// stubBcrypt swaps the bcrypt entry points for the duration of the test.
func stubBcrypt(t *testing.T,
	gen func([]byte, int) ([]byte, error),
	cmp func([]byte, []byte) error,
) {
	t.Helper()
	origGen, origCmp := generateFromPassword, compareHashAndPassword
	if gen != nil {
		generateFromPassword = gen
	}
	if cmp != nil {
		compareHashAndPassword = cmp
	}
	t.Cleanup(func() {
		generateFromPassword, compareHashAndPassword = origGen, origCmp
	})
}

func TestNewPasswordHasher_CostBounds(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewPasswordHasher(12).cost)
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := newTestHasher()

	digest, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse battery staple", digest)
	assert.True(t, strings.HasPrefix(digest, "$2"))
	assert.True(t, h.Verify("correct horse battery staple", digest))
	assert.False(t, h.Verify("correct horse battery stapler", digest))
}

func TestPasswordHasher_SaltedDigests(t *testing.T) {
	h := newTestHasher()

	first, err := h.Hash("same-password")
	require.NoError(t, err)
	second, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPasswordHasher_LongPasswordRoundTrip(t *testing.T) {
	h := newTestHasher()

	tests := []struct {
		name     string
		password string
	}{
		{name: "73 ascii bytes", password: strings.Repeat("a", 73)},
		{name: "200 ascii bytes", password: strings.Repeat("x1", 100)},
		{name: "multi-byte runes across the limit", password: strings.Repeat("пароль", 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := h.Hash(tt.password)
			require.NoError(t, err)
			assert.True(t, h.Verify(tt.password, digest))
		})
	}
}

func TestPasswordHasher_PrefixEquivalence(t *testing.T) {
	h := newTestHasher()
	prefix := strings.Repeat("p", MaxPasswordBytes)

	digest, err := h.Hash(prefix + "-anything-after-the-limit")
	require.NoError(t, err)

	assert.True(t, h.Verify(prefix, digest))
	assert.True(t, h.Verify(prefix+"-something-else", digest))
	assert.False(t, h.Verify(prefix[:MaxPasswordBytes-1], digest))
}

func TestPasswordHasher_HashRetriesWithShorterInput(t *testing.T) {
	var lengths []int
	stubBcrypt(t, func(p []byte, cost int) ([]byte, error) {
		lengths = append(lengths, len(p))
		if len(lengths) == 1 {
			return nil, errors.New("backend failure")
		}
		return bcrypt.GenerateFromPassword(p, cost)
	}, nil)

	h := newTestHasher()
	digest, err := h.Hash(strings.Repeat("z", 100))

	require.NoError(t, err)
	assert.NotEmpty(t, digest)
	assert.Equal(t, []int{MaxPasswordBytes, FallbackPasswordBytes}, lengths)
}

func TestPasswordHasher_HashFailsAfterRetry(t *testing.T) {
	calls := 0
	stubBcrypt(t, func([]byte, int) ([]byte, error) {
		calls++
		return nil, errors.New("backend failure")
	}, nil)

	h := newTestHasher()
	digest, err := h.Hash("whatever")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPasswordHashing)
	assert.Empty(t, digest)
	assert.Equal(t, 2, calls)
}

func TestPasswordHasher_VerifyNeverErrors(t *testing.T) {
	h := newTestHasher()

	assert.False(t, h.Verify("password", "not-a-bcrypt-digest"))
	assert.False(t, h.Verify("password", ""))
}

func TestPasswordHasher_VerifyRetriesOnlyOnFailure(t *testing.T) {
	t.Run("mismatch is final", func(t *testing.T) {
		calls := 0
		stubBcrypt(t, nil, func([]byte, []byte) error {
			calls++
			return bcrypt.ErrMismatchedHashAndPassword
		})

		assert.False(t, newTestHasher().Verify("pw", "digest"))
		assert.Equal(t, 1, calls)
	})

	t.Run("failure triggers shorter retry", func(t *testing.T) {
		var lengths []int
		stubBcrypt(t, nil, func(_ []byte, p []byte) error {
			lengths = append(lengths, len(p))
			if len(lengths) == 1 {
				return errors.New("backend failure")
			}
			return nil
		})

		assert.True(t, newTestHasher().Verify(strings.Repeat("q", 80), "digest"))
		assert.Equal(t, []int{MaxPasswordBytes, FallbackPasswordBytes}, lengths)
	})
}

func TestTruncatePassword(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{name: "short input unchanged", input: "abc", limit: 72, want: "abc"},
		{name: "exact limit", input: strings.Repeat("a", 72), limit: 72, want: strings.Repeat("a", 72)},
		{name: "ascii cut", input: strings.Repeat("a", 80), limit: 72, want: strings.Repeat("a", 72)},
		// "é" is two bytes; cutting at 3 would split the second rune.
		{name: "rune boundary", input: "éé", limit: 3, want: "é"},
		{name: "empty", input: "", limit: 72, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(TruncatePassword(tt.input, tt.limit)))
		})
	}
}
