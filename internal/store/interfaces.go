// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"io"
	"time"

	"github.com/MKhiriev/go-diary-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// UserRepository persists credential records keyed by username.
type UserRepository interface {
	// CreateUser inserts user. Duplicate usernames yield
	// ErrUsernameAlreadyExists, duplicate emails ErrEmailAlreadyExists.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByUsername returns ErrNoUserWasFound when absent.
	FindUserByUsername(ctx context.Context, username string) (models.User, error)

	ListUsers(ctx context.Context) ([]models.User, error)

	// UpdateProfile stores the profile fields of user.
	UpdateProfile(ctx context.Context, user models.User) error

	UpdatePasswordHash(ctx context.Context, username, passwordHash string) error

	SetDisabled(ctx context.Context, username string, disabled bool) error
}

// NoteRepository persists notes. Every query that addresses an existing
// note is filtered by owner.
type NoteRepository interface {
	// NextNoteID returns the highest id in the collection plus one, or 1.
	NextNoteID(ctx context.Context) (int64, error)

	// InsertNote stores note under note.ID. A taken id yields ErrNoteIDConflict.
	InsertNote(ctx context.Context, note models.Note) (models.Note, error)

	// InsertNoteWithNextID allocates the id and inserts the note in one
	// serializable transaction, retrying on conflicts.
	InsertNoteWithNextID(ctx context.Context, note models.Note) (models.Note, error)

	GetNote(ctx context.Context, owner string, id int64) (models.Note, error)

	ListNotes(ctx context.Context, owner string) ([]models.Note, error)

	// SearchNotes matches query case-insensitively against title and
	// description, and against id when query is an integer.
	SearchNotes(ctx context.Context, owner, query string) ([]models.Note, error)

	// FindNoteByAttachment returns the owner's note referencing url.
	FindNoteByAttachment(ctx context.Context, owner, url string) (models.Note, error)

	// UpdateNote overwrites the text fields and attachment URLs of note.
	UpdateNote(ctx context.Context, note models.Note) error

	DeleteNote(ctx context.Context, owner string, id int64) error
}

// AttachmentStorage keeps attachment blobs in an object store. It has no
// notion of ownership.
type AttachmentStorage interface {
	// Put uploads body under a generated key in category and returns its URL.
	Put(ctx context.Context, category, filename, contentType string, body io.Reader, size int64) (string, error)

	// Get fetches the object referenced by url. Missing objects yield
	// ErrObjectNotFound.
	Get(ctx context.Context, url string) (models.Attachment, error)

	// Delete removes the object referenced by url. Missing objects are
	// reported as ErrObjectNotFound.
	Delete(ctx context.Context, url string) error
}

// TokenDenylist records revoked token ids until their expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
