// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-diary-keeper/models"
)

func validSignup() models.SignupRequest {
	return models.SignupRequest{
		Username: "alice_01",
		Password: "correct horse",
		Email:    "alice@example.com",
	}
}

func TestValidate_Signup(t *testing.T) {
	v := NewStructValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(r *models.SignupRequest)
		wantErr string
	}{
		{name: "valid", mutate: func(*models.SignupRequest) {}},
		{name: "valid with phone and role", mutate: func(r *models.SignupRequest) {
			r.PhoneNumber = "+1 (555) 123-4567"
			r.Role = models.RoleProfessor
		}},
		{name: "short username", mutate: func(r *models.SignupRequest) { r.Username = "al" }, wantErr: "username must be 3-64"},
		{name: "username with space", mutate: func(r *models.SignupRequest) { r.Username = "al ice" }, wantErr: "username"},
		{name: "short password", mutate: func(r *models.SignupRequest) { r.Password = "short" }, wantErr: "password must be at least 8 characters"},
		{name: "missing email", mutate: func(r *models.SignupRequest) { r.Email = "" }, wantErr: "email is required"},
		{name: "bad email", mutate: func(r *models.SignupRequest) { r.Email = "alice" }, wantErr: "email must be a valid email address"},
		{name: "bad phone", mutate: func(r *models.SignupRequest) { r.PhoneNumber = "call me" }, wantErr: "phone_number must be a phone number"},
		{name: "unknown role", mutate: func(r *models.SignupRequest) { r.Role = "admin" }, wantErr: "role must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)

			err := v.Validate(ctx, req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_MultipleViolationsJoined(t *testing.T) {
	err := NewStructValidator().Validate(context.Background(), models.SignupRequest{})

	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "username is required")
	assert.Contains(t, err.Error(), "password is required")
	assert.Equal(t, 2, strings.Count(err.Error(), ";"))
}

func TestValidate_NoteUpdate(t *testing.T) {
	v := NewStructValidator()

	err := v.Validate(context.Background(), models.NoteUpdate{ID: 1, Owner: "alice", Remove: []models.AttachmentKind{"image"}})
	assert.NoError(t, err)

	err = v.Validate(context.Background(), models.NoteUpdate{ID: 1, Owner: "alice", Remove: []models.AttachmentKind{"pdf"}})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "must be image, audio or video")

	long := strings.Repeat("x", 201)
	err = v.Validate(context.Background(), models.NoteUpdate{ID: 1, Owner: "alice", Title: &long})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "Title must be at most 200 characters")

	err = v.Validate(context.Background(), models.NoteUpdate{Owner: "alice"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestValidate_NoteDraftUploads(t *testing.T) {
	v := NewStructValidator()
	draft := models.NoteDraft{
		Owner: "alice", Title: "trip", Description: "beach", Date: "2024-01-01",
		Uploads: []models.Upload{{Kind: models.AttachmentImage, Filename: ""}},
	}

	err := v.Validate(context.Background(), draft)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "Filename is required")

	draft.Uploads[0].Filename = "cat.png"
	assert.NoError(t, v.Validate(context.Background(), draft))
}

func TestValidate_Partial(t *testing.T) {
	req := validSignup()
	req.Email = "broken"

	err := NewStructValidator().Validate(context.Background(), req, "Username", "Password")
	assert.NoError(t, err)
}

func TestValidate_UnsupportedType(t *testing.T) {
	err := NewStructValidator().Validate(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
