// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client side of the diary REST API.
//
// [ServerAdapter] hides the transport from the command-line client. The
// package ships an HTTP implementation ([NewHTTPServerAdapter]) built on
// resty.
//
// Non-2xx responses are mapped to the sentinel errors in errors.go so that
// callers can use [errors.Is] (e.g. [ErrUnauthorized] for 401, [ErrNotFound]
// for 404). The server's {"detail": ...} message is kept in the error text.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-diary-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines communication with the diary server.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to authenticated requests.
	SetToken(token string)

	// Token returns the stored bearer token or an empty string.
	Token() string

	// Signup registers a new account.
	Signup(ctx context.Context, req models.SignupRequest) error

	// Login exchanges credentials for an access token and stores it via
	// SetToken.
	Login(ctx context.Context, creds models.Credentials) (models.TokenResponse, error)

	// Logout revokes the current token on the server and forgets it locally.
	Logout(ctx context.Context) error

	// Me returns the profile of the authenticated user.
	Me(ctx context.Context) (models.User, error)

	// CreateNote uploads a note with its attachments as a multipart form.
	CreateNote(ctx context.Context, draft models.NoteDraft) (models.NoteCreatedResponse, error)

	// ListNotes returns every note of the authenticated user.
	ListNotes(ctx context.Context) ([]models.Note, error)

	// GetNote returns one note of the authenticated user.
	GetNote(ctx context.Context, id int64) (models.Note, error)

	// SearchNotes returns the notes whose title or description contains query.
	SearchNotes(ctx context.Context, query string) ([]models.Note, error)

	// DeleteNote removes a note and its attachments.
	DeleteNote(ctx context.Context, id int64) error

	// Version returns the server version string.
	Version(ctx context.Context) (string, error)
}
