// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-diary-keeper/internal/config"
	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/internal/store"
	"github.com/MKhiriev/go-diary-keeper/internal/utils"
	"github.com/MKhiriev/go-diary-keeper/internal/validators"
	"github.com/MKhiriev/go-diary-keeper/models"
)

// timeNow is the clock used for revocation TTLs.
var timeNow = time.Now

// passwordHasher hashes and verifies plaintext passwords.
type passwordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// authService is the concrete implementation of AuthService.
// It handles signup, credential verification and the token lifecycle using
// a UserRepository for persistence and bcrypt for password digests.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// denylist holds revoked token ids. Nil disables logout revocation.
	denylist store.TokenDenylist

	hasher    passwordHasher
	validator validators.Validator

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	// dummyDigest is verified against when the username is unknown so that
	// both failure paths cost one bcrypt comparison.
	dummyOnce   sync.Once
	dummyDigest string

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given repositories
// and populated with security parameters from cfg. denylist may be nil.
//
// The returned service is safe for concurrent use.
func NewAuthService(userRepository store.UserRepository, denylist store.TokenDenylist, validator validators.Validator, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		denylist:       denylist,
		hasher:         utils.NewPasswordHasher(cfg.PasswordCost),
		validator:      validator,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		logger:         logger,
	}
}

// Register creates a new account from req.
//
// Returns the persisted user or:
//   - a wrapped validators.ErrValidation for malformed input.
//   - a wrapped utils.ErrPasswordHashing when bcrypt fails twice.
//   - a wrapped store.ErrUsernameAlreadyExists or store.ErrEmailAlreadyExists.
func (a *authService) Register(ctx context.Context, req models.SignupRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		log.Debug().Err(err).Str("username", req.Username).Msg("invalid signup data")
		return models.User{}, err
	}

	digest, err := a.hasher.Hash(req.Password)
	if err != nil {
		log.Err(err).Str("username", req.Username).Msg("password hashing failed")
		return models.User{}, err
	}

	user := req.User()
	user.PasswordHash = digest

	registeredUser, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("username", req.Username).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	log.Info().Str("username", registeredUser.Username).Msg("user registered")
	return registeredUser, nil
}

// Authenticate looks the account up and verifies the password.
// Disabled accounts are refused with ErrInactiveUser after the password
// matched.
func (a *authService) Authenticate(ctx context.Context, creds models.Credentials) (models.User, error) {
	log := logger.FromContext(ctx)

	if creds.Username == "" || creds.Password == "" {
		return models.User{}, ErrAuthenticationFailed
	}

	foundUser, err := a.userRepository.FindUserByUsername(ctx, creds.Username)
	if errors.Is(err, store.ErrNoUserWasFound) {
		a.hasher.Verify(creds.Password, a.dummyHash())
		log.Debug().Str("username", creds.Username).Msg("login for unknown user")
		return models.User{}, ErrAuthenticationFailed
	}
	if err != nil {
		log.Err(err).Str("username", creds.Username).Msg("user search by username failed")
		return models.User{}, fmt.Errorf("user search by username failed: %w", err)
	}

	if !a.hasher.Verify(creds.Password, foundUser.PasswordHash) {
		log.Debug().Str("username", creds.Username).Msg("wrong password")
		return models.User{}, ErrAuthenticationFailed
	}

	if foundUser.Disabled {
		return models.User{}, ErrInactiveUser
	}

	return foundUser, nil
}

// IssueToken signs a token whose subject is user.Username.
func (a *authService) IssueToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.Username, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("username", user.Username).Msg("token creation failed")
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ResolveIdentity runs the auth gate checks in order: signature and claims,
// revocation, account existence, account status. Infrastructure failures of
// the denylist or the user store are returned as they are, so the caller
// answers them with a server error rather than a 401.
func (a *authService) ResolveIdentity(ctx context.Context, tokenString string) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		log.Debug().Err(err).Msg("token rejected")
		return models.User{}, models.Token{}, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}

	if a.denylist != nil && token.ID != "" {
		revoked, err := a.denylist.IsRevoked(ctx, token.ID)
		if err != nil {
			log.Err(err).Msg("revocation check failed")
			return models.User{}, models.Token{}, err
		}
		if revoked {
			log.Debug().Str("username", token.Username).Msg("revoked token presented")
			return models.User{}, models.Token{}, ErrAuthenticationFailed
		}
	}

	user, err := a.userRepository.FindUserByUsername(ctx, token.Username)
	if errors.Is(err, store.ErrNoUserWasFound) {
		log.Debug().Str("username", token.Username).Msg("token subject does not exist")
		return models.User{}, models.Token{}, ErrAuthenticationFailed
	}
	if err != nil {
		log.Err(err).Str("username", token.Username).Msg("user search by username failed")
		return models.User{}, models.Token{}, fmt.Errorf("user search by username failed: %w", err)
	}

	if user.Disabled {
		return models.User{}, models.Token{}, ErrInactiveUser
	}

	return user, token, nil
}

// Logout denylists the token id for the rest of its lifetime. Without a
// denylist it is a no-op; the client drops the token.
func (a *authService) Logout(ctx context.Context, token models.Token) error {
	if a.denylist == nil || token.ID == "" {
		return nil
	}

	if err := a.denylist.Revoke(ctx, token.ID, token.ExpiresIn(timeNow())); err != nil {
		logger.FromContext(ctx).Err(err).Str("username", token.Username).Msg("token revocation failed")
		return err
	}

	return nil
}

func (a *authService) dummyHash() string {
	a.dummyOnce.Do(func() {
		// an unusable digest still costs a full comparison
		a.dummyDigest, _ = a.hasher.Hash("not-a-real-password")
	})
	return a.dummyDigest
}
