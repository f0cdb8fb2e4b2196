// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-diary-keeper/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Errors returned by the token helpers. Callers outside this package should
// collapse all of them into one generic authentication failure.
var (
	ErrInvalidTokenParams = errors.New("invalid params for generating JWT token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrEmptyTokenSubject  = errors.New("token subject is empty")
)

// signingMethod is the only algorithm tokens are signed and accepted with.
var signingMethod = jwt.SigningMethodHS256

// timeNow is the clock used for issuing and validating tokens.
var timeNow = time.Now

// GenerateJWTToken creates an HS256 token for username.
//
// The token carries iss, sub (the username), iat, exp and a random jti.
// All parameters are required.
func GenerateJWTToken(issuer, username string, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || username == "" || tokenDuration <= 0 || signKey == "" {
		return models.Token{}, ErrInvalidTokenParams
	}

	now := timeNow()
	claims := models.Token{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(signingMethod, &claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	claims.Token = token
	claims.SignedString = tokenString
	claims.Username = username

	return claims, nil
}

// ValidateAndParseJWTToken checks tokenString and returns its claims.
//
// The signing algorithm is pinned to HS256: the alg header of the token is
// never trusted. Validation fails when the signature does not match, the
// token is expired or has no exp claim, the issuer differs, or the subject
// is missing.
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string) (models.Token, error) {
	claims := &models.Token{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(timeNow),
	)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return models.Token{}, ErrEmptyTokenSubject
	}

	claims.Token = token
	claims.SignedString = tokenString
	claims.Username = claims.Subject

	return *claims, nil
}

// ParseBearerToken extracts the credential from a "Bearer <token>" value.
// The scheme is matched case-insensitively.
func ParseBearerToken(value string) (string, error) {
	parts := strings.Fields(value)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("invalid authorization value")
	}
	return parts[1], nil
}
