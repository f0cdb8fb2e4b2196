// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-diary-keeper/internal/config"
	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/internal/store"
	"github.com/MKhiriev/go-diary-keeper/internal/utils"
	"github.com/MKhiriev/go-diary-keeper/internal/validators"
	"github.com/MKhiriev/go-diary-keeper/models"
)

type userService struct {
	userRepository store.UserRepository
	hasher         passwordHasher
	validator      validators.Validator
	logger         *logger.Logger
}

// NewUserService returns a UserService over userRepository.
func NewUserService(userRepository store.UserRepository, validator validators.Validator, cfg config.App, logger *logger.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		hasher:         utils.NewPasswordHasher(cfg.PasswordCost),
		validator:      validator,
		logger:         logger,
	}
}

// UpdateProfile applies update to the stored record and returns the result.
func (u *userService) UpdateProfile(ctx context.Context, username string, update models.ProfileUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := u.validator.Validate(ctx, update); err != nil {
		return models.User{}, err
	}

	user, err := u.userRepository.FindUserByUsername(ctx, username)
	if err != nil {
		log.Err(err).Str("username", username).Msg("user search by username failed")
		return models.User{}, fmt.Errorf("user search by username failed: %w", err)
	}

	update.Apply(&user)
	if err = u.userRepository.UpdateProfile(ctx, user); err != nil {
		log.Err(err).Str("username", username).Msg("profile update failed")
		return models.User{}, fmt.Errorf("profile update failed: %w", err)
	}

	return user, nil
}

// ChangePassword replaces the digest after re-checking the current password.
// A wrong current password yields ErrAuthenticationFailed.
func (u *userService) ChangePassword(ctx context.Context, username string, req models.PasswordChangeRequest) error {
	log := logger.FromContext(ctx)

	if err := u.validator.Validate(ctx, req); err != nil {
		return err
	}

	user, err := u.userRepository.FindUserByUsername(ctx, username)
	if err != nil {
		log.Err(err).Str("username", username).Msg("user search by username failed")
		return fmt.Errorf("user search by username failed: %w", err)
	}

	if !u.hasher.Verify(req.CurrentPassword, user.PasswordHash) {
		log.Debug().Str("username", username).Msg("current password mismatch")
		return ErrAuthenticationFailed
	}

	digest, err := u.hasher.Hash(req.NewPassword)
	if err != nil {
		log.Err(err).Str("username", username).Msg("password hashing failed")
		return err
	}

	if err = u.userRepository.UpdatePasswordHash(ctx, username, digest); err != nil {
		log.Err(err).Str("username", username).Msg("password update failed")
		return fmt.Errorf("password update failed: %w", err)
	}

	log.Info().Str("username", username).Msg("password changed")
	return nil
}

func (u *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := u.userRepository.ListUsers(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("listing users failed")
		return nil, fmt.Errorf("listing users failed: %w", err)
	}
	return users, nil
}

func (u *userService) SetDisabled(ctx context.Context, username string, disabled bool) error {
	log := logger.FromContext(ctx)

	if err := u.userRepository.SetDisabled(ctx, username, disabled); err != nil {
		log.Err(err).Str("username", username).Msg("status change failed")
		return fmt.Errorf("status change failed: %w", err)
	}

	log.Info().Str("username", username).Bool("disabled", disabled).Msg("account status changed")
	return nil
}
