// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-diary-keeper/internal/adapter"
	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/internal/mock"
	"github.com/MKhiriev/go-diary-keeper/models"
)

func newTestApp(t *testing.T) (*App, *mock.MockServerAdapter, *bytes.Buffer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := mock.NewMockServerAdapter(ctrl)
	out := &bytes.Buffer{}
	return NewApp(m, out, logger.Nop()), m, out
}

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	app, _, out := newTestApp(t)

	require.NoError(t, app.Run(context.Background(), nil))
	assert.Contains(t, out.String(), "commands:")
	assert.Contains(t, out.String(), "search <query>")
}

func TestRun_UnknownCommand(t *testing.T) {
	app, _, _ := newTestApp(t)

	err := app.Run(context.Background(), []string{"frobnicate"})
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestSignup(t *testing.T) {
	app, m, out := newTestApp(t)

	m.EXPECT().Signup(gomock.Any(), models.SignupRequest{
		Username: "alice",
		Password: "secret-pass",
		Email:    "alice@example.com",
		Role:     models.RoleStudent,
	}).Return(nil)

	err := app.Run(context.Background(), []string{"signup", "-u", "alice", "-p", "secret-pass", "-e", "alice@example.com", "-role", "student"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "user alice created")
}

func TestSignup_MissingFields(t *testing.T) {
	app, _, out := newTestApp(t)

	err := app.Run(context.Background(), []string{"signup", "-u", "alice"})

	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, out.String(), "usage: signup")
}

func TestLogin_PrintsToken(t *testing.T) {
	app, m, out := newTestApp(t)

	m.EXPECT().Login(gomock.Any(), models.Credentials{Username: "alice", Password: "pw"}).
		Return(models.TokenResponse{AccessToken: "tok-123", TokenType: models.TokenTypeBearer, Username: "alice"}, nil)

	err := app.Run(context.Background(), []string{"login", "-u", "alice", "-p", "pw"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "logged in as alice")
	assert.Contains(t, out.String(), "tok-123")
}

func TestLogin_Failure(t *testing.T) {
	app, m, out := newTestApp(t)

	m.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(models.TokenResponse{}, adapter.ErrUnauthorized)

	err := app.Run(context.Background(), []string{"login", "-u", "alice", "-p", "bad"})

	assert.ErrorIs(t, err, adapter.ErrUnauthorized)
	assert.Contains(t, out.String(), "client unauthorized")
}

func TestNotes_List(t *testing.T) {
	app, m, out := newTestApp(t)

	m.EXPECT().ListNotes(gomock.Any()).Return([]models.Note{
		{ID: 1, Title: "first", Date: "2026-10-01"},
		{ID: 12, Title: "twelfth", Date: "2026-10-12"},
	}, nil)

	require.NoError(t, app.Run(context.Background(), []string{"notes"}))
	assert.Contains(t, out.String(), "#1 first 2026-10-01")
	assert.Contains(t, out.String(), "#12 twelfth 2026-10-12")
}

func TestNotes_Empty(t *testing.T) {
	app, m, out := newTestApp(t)

	m.EXPECT().ListNotes(gomock.Any()).Return([]models.Note{}, nil)

	require.NoError(t, app.Run(context.Background(), []string{"notes"}))
	assert.Contains(t, out.String(), "no notes")
}

func TestNote_ShowsAttachments(t *testing.T) {
	app, m, out := newTestApp(t)
	url := "https://cdn.example.com/audio/song.mp3"

	m.EXPECT().GetNote(gomock.Any(), int64(5)).
		Return(models.Note{ID: 5, Title: "concert", Description: "loud", Date: "2026-10-05", AudioURL: &url}, nil)

	require.NoError(t, app.Run(context.Background(), []string{"note", "5"}))
	assert.Contains(t, out.String(), "loud")
	assert.Contains(t, out.String(), "audio: "+url)
	assert.NotContains(t, out.String(), "image:")
}

func TestNote_InvalidID(t *testing.T) {
	app, _, _ := newTestApp(t)

	for _, args := range [][]string{{"note"}, {"note", "abc"}, {"note", "0"}, {"delete", "-3"}} {
		err := app.Run(context.Background(), args)
		assert.ErrorIs(t, err, ErrUsage, "args %v", args)
	}
}

func TestSearch_JoinsArgs(t *testing.T) {
	app, m, _ := newTestApp(t)

	m.EXPECT().SearchNotes(gomock.Any(), "rainy day").Return(nil, nil)

	require.NoError(t, app.Run(context.Background(), []string{"search", "rainy", "day"}))
}

func TestSearch_EmptyQuery(t *testing.T) {
	app, _, _ := newTestApp(t)

	err := app.Run(context.Background(), []string{"search", "  "})
	assert.ErrorIs(t, err, ErrUsage)
}

func TestCreate_WithAttachment(t *testing.T) {
	app, m, out := newTestApp(t)

	path := filepath.Join(t.TempDir(), "cat.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))

	m.EXPECT().CreateNote(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, draft models.NoteDraft) (models.NoteCreatedResponse, error) {
			assert.Equal(t, "day one", draft.Title)
			require.Len(t, draft.Uploads, 1)
			upload := draft.Uploads[0]
			assert.Equal(t, models.AttachmentImage, upload.Kind)
			assert.Equal(t, "cat.png", upload.Filename)
			assert.Equal(t, "image/png", upload.ContentType)
			assert.Equal(t, int64(9), upload.Size)
			data, err := io.ReadAll(upload.Body)
			require.NoError(t, err)
			assert.Equal(t, "png-bytes", string(data))
			return models.NoteCreatedResponse{ID: 3}, nil
		})

	err := app.Run(context.Background(), []string{"create", "-title", "day one", "-description", "sunny", "-date", "2026-10-18", "-image", path})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "note #3 created")
}

func TestCreate_MissingFile(t *testing.T) {
	app, _, _ := newTestApp(t)

	err := app.Run(context.Background(), []string{"create", "-title", "t", "-description", "d", "-date", "x", "-video", "/does/not/exist.mp4"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDelete(t *testing.T) {
	app, m, out := newTestApp(t)

	m.EXPECT().DeleteNote(gomock.Any(), int64(9)).Return(nil)

	require.NoError(t, app.Run(context.Background(), []string{"delete", "9"}))
	assert.Contains(t, out.String(), "note #9 deleted")
}

func TestLogoutMeVersion(t *testing.T) {
	app, m, out := newTestApp(t)

	m.EXPECT().Logout(gomock.Any()).Return(nil)
	m.EXPECT().Me(gomock.Any()).Return(models.User{Username: "alice", Role: models.RoleProfessor, Email: "a@example.com"}, nil)
	m.EXPECT().Version(gomock.Any()).Return("1.0.0", nil)

	require.NoError(t, app.Run(context.Background(), []string{"me"}))
	require.NoError(t, app.Run(context.Background(), []string{"version"}))
	require.NoError(t, app.Run(context.Background(), []string{"logout"}))

	assert.Contains(t, out.String(), "alice professor")
	assert.Contains(t, out.String(), "email: a@example.com")
	assert.Contains(t, out.String(), "server version 1.0.0")
	assert.Contains(t, out.String(), "logged out")
}
