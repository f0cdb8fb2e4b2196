// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTypeBearer is the token_type reported to clients on login.
const TokenTypeBearer = "bearer"

// Token wraps a JWT with the claims this service issues.
//
// It embeds [jwt.Token] for signing and parsing and [jwt.RegisteredClaims]
// so that the struct itself can be handed to [jwt.ParseWithClaims].
// The subject claim carries the username; ID carries a random jti used
// by the logout denylist.
type Token struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS form sent to the client.
	SignedString string `json:"-"`

	// Username is the parsed subject.
	Username string `json:"-"`
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}

// ExpiresIn returns how long the token stays valid relative to now.
// A token without an expiry claim reports zero.
func (t *Token) ExpiresIn(now time.Time) time.Duration {
	if t.ExpiresAt == nil {
		return 0
	}
	d := t.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// TokenResponse is returned by the login endpoints.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}
