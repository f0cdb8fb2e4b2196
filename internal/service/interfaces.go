// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-diary-keeper/models"
)

// AuthService owns credentials and bearer tokens.
type AuthService interface {
	// Register validates req, hashes the password and stores a new account.
	Register(ctx context.Context, req models.SignupRequest) (models.User, error)

	// Authenticate checks a username and password pair. Any mismatch yields
	// ErrAuthenticationFailed without saying which part was wrong.
	Authenticate(ctx context.Context, creds models.Credentials) (models.User, error)

	IssueToken(ctx context.Context, user models.User) (models.Token, error)

	// ResolveIdentity verifies tokenString and loads its account. Invalid,
	// expired and revoked tokens, as well as unknown subjects, yield
	// ErrAuthenticationFailed; disabled accounts yield ErrInactiveUser.
	ResolveIdentity(ctx context.Context, tokenString string) (models.User, models.Token, error)

	// Logout revokes token until its expiry when a denylist is configured.
	Logout(ctx context.Context, token models.Token) error
}

// UserService manages accounts after signup.
type UserService interface {
	UpdateProfile(ctx context.Context, username string, update models.ProfileUpdate) (models.User, error)
	ChangePassword(ctx context.Context, username string, req models.PasswordChangeRequest) error
	ListUsers(ctx context.Context) ([]models.User, error)
	SetDisabled(ctx context.Context, username string, disabled bool) error
}

// NoteService manages notes and the attachment objects they reference.
// Every call is scoped to one owner.
type NoteService interface {
	CreateNote(ctx context.Context, draft models.NoteDraft) (models.Note, error)
	GetNote(ctx context.Context, owner string, id int64) (models.Note, error)
	ListNotes(ctx context.Context, owner string) ([]models.Note, error)
	SearchNotes(ctx context.Context, owner, query string) ([]models.Note, error)
	UpdateNote(ctx context.Context, update models.NoteUpdate) (models.Note, error)
	DeleteNote(ctx context.Context, owner string, id int64) error

	// GetAttachment streams an attachment referenced by one of owner's notes.
	GetAttachment(ctx context.Context, owner, url string) (models.Attachment, error)
}

// AppInfoService reports build information.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// NoteServiceWrapper defines middleware composition for NoteService.
// Implementations wrap an existing NoteService to add behavior such as
// logging or validating.
type NoteServiceWrapper interface {
	Wrap(NoteService) NoteService // returns a decorated NoteService applying additional behavior
}
