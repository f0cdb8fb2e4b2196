// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-diary-keeper/internal/config"
	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/internal/store"
	"github.com/MKhiriev/go-diary-keeper/internal/validators"
)

type Services struct {
	AuthService    AuthService
	UserService    UserService
	NoteService    NoteService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	validator := validators.NewStructValidator()

	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	noteService := NewNoteService(storages.NoteRepository, storages.AttachmentStorage, cfg.Storage.DB, logger)

	return &Services{
		AuthService:    NewAuthService(storages.UserRepository, storages.TokenDenylist, validator, cfg.App, logger),
		UserService:    NewUserService(storages.UserRepository, validator, cfg.App, logger),
		NoteService:    NewNoteValidationService(validator).Wrap(noteService),
		AppInfoService: appInfoService,
	}, nil
}
