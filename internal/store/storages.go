// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-diary-keeper/internal/config"
	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/internal/metrics"
)

// Storages groups every persistence backend of the server so it can be
// handed to the service layer as one value.
type Storages struct {
	// DB is the SQL connection shared by the repositories.
	DB *DB

	UserRepository    UserRepository
	NoteRepository    NoteRepository
	AttachmentStorage AttachmentStorage

	// TokenDenylist is nil when no redis url is configured.
	TokenDenylist TokenDenylist

	denylist *RedisTokenDenylist
}

// NewStorages initialises the storage layer:
//  1. Opens the SQL database selected by cfg.DB.Driver and runs migrations.
//  2. Builds the S3 attachment store.
//  3. Connects the redis token denylist when cfg.Cache.RedisURL is set.
//
// Resources opened before a failing step are released.
func NewStorages(ctx context.Context, cfg config.Storage, m *metrics.Metrics, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectDB(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	attachments, err := NewS3AttachmentStorage(ctx, cfg.Objects, m, log)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("attachment storage error: %w", err)
	}

	storages := &Storages{
		DB:                db,
		UserRepository:    NewUserRepository(db, log),
		NoteRepository:    NewNoteRepository(db, cfg.DB.MaxIDAttempts, log),
		AttachmentStorage: attachments,
	}

	if cfg.Cache.RedisURL != "" {
		denylist, err := NewRedisTokenDenylist(ctx, cfg.Cache.RedisURL, log)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("token denylist error: %w", err)
		}
		storages.denylist = denylist
		storages.TokenDenylist = denylist
	}

	log.Info().Msg("storages created")
	return storages, nil
}

// Close releases the database and redis connections.
func (s *Storages) Close() error {
	var errs []error
	if s.DB != nil {
		errs = append(errs, s.DB.Close())
	}
	if s.denylist != nil {
		errs = append(errs, s.denylist.Close())
	}
	return errors.Join(errs...)
}
