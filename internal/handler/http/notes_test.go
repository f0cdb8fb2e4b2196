// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-diary-keeper/internal/config"
	"github.com/MKhiriev/go-diary-keeper/internal/service"
	"github.com/MKhiriev/go-diary-keeper/internal/store"
	"github.com/MKhiriev/go-diary-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formFile struct {
	field, name, content string
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return authorized(req)
}

func notesHandler(t *testing.T, notes *fakeNoteService) *Handler {
	return newTestHandler(t, &service.Services{AuthService: authAs(alice), NoteService: notes}, config.Server{})
}

func TestCreateNote_Multipart(t *testing.T) {
	imageURL := "https://cdn.example.com/images/20240101_000000_sea.png"
	notes := &fakeNoteService{
		createFn: func(_ context.Context, draft models.NoteDraft) (models.Note, error) {
			assert.Equal(t, "alice", draft.Owner)
			assert.Equal(t, "trip", draft.Title)
			require.Len(t, draft.Uploads, 1)
			assert.Equal(t, models.AttachmentImage, draft.Uploads[0].Kind)
			assert.Equal(t, "sea.png", draft.Uploads[0].Filename)
			data, err := io.ReadAll(draft.Uploads[0].Body)
			require.NoError(t, err)
			assert.Equal(t, "png-bytes", string(data))
			return models.Note{ID: 1, Owner: draft.Owner, Title: draft.Title, ImageURL: &imageURL}, nil
		},
	}
	h := notesHandler(t, notes)

	req := multipartRequest(t, http.MethodPost, "/api/notes",
		map[string]string{"title": "trip", "description": "beach", "date": "2024-01-01", "user_id": "mallory"},
		formFile{"image", "sea.png", "png-bytes"},
	)
	rec := serve(h, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.NoteCreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
	require.NotNil(t, resp.ImageURL)
	assert.Equal(t, imageURL, *resp.ImageURL)
	assert.Nil(t, resp.AudioURL)
	assert.Nil(t, resp.VideoURL)
}

func TestCreateNote_UploadFailure(t *testing.T) {
	notes := &fakeNoteService{
		createFn: func(_ context.Context, _ models.NoteDraft) (models.Note, error) {
			return models.Note{}, store.ErrUploadPermission
		},
	}
	h := notesHandler(t, notes)

	rec := serve(h, multipartRequest(t, http.MethodPost, "/api/notes", map[string]string{"title": "t"}, formFile{"audio", "a.mp3", "x"}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to upload attachment", decodeDetail(t, rec))
}

func TestCreateNote_TooLarge(t *testing.T) {
	h := newTestHandler(t, &service.Services{AuthService: authAs(alice), NoteService: &fakeNoteService{}}, config.Server{MaxUploadSize: 16})

	rec := serve(h, multipartRequest(t, http.MethodPost, "/api/notes", map[string]string{"title": "t"}, formFile{"video", "v.mp4", strings.Repeat("v", 1024)}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetNote(t *testing.T) {
	notes := &fakeNoteService{
		getFn: func(_ context.Context, owner string, id int64) (models.Note, error) {
			if owner == "alice" && id == 1 {
				return models.Note{ID: 1, Owner: "alice", Title: "trip"}, nil
			}
			return models.Note{}, store.ErrNoteNotFound
		},
	}
	h := notesHandler(t, notes)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/notes/1", http.StatusOK},
		{"/api/notes/2", http.StatusNotFound},
		{"/api/notes/abc", http.StatusBadRequest},
		{"/api/notes/0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(h, authorized(httptest.NewRequest(http.MethodGet, tt.path, nil)))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestListNotes_ScopedToCaller(t *testing.T) {
	notes := &fakeNoteService{
		listFn: func(_ context.Context, owner string) ([]models.Note, error) {
			assert.Equal(t, "alice", owner)
			return []models.Note{}, nil
		},
	}
	h := notesHandler(t, notes)

	rec := serve(h, authorized(httptest.NewRequest(http.MethodGet, "/api/notes", nil)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSearchNotes_UnescapesQuery(t *testing.T) {
	var gotQuery string
	notes := &fakeNoteService{
		searchFn: func(_ context.Context, _ string, query string) ([]models.Note, error) {
			gotQuery = query
			return []models.Note{{ID: 1}, {ID: 12}}, nil
		},
	}
	h := notesHandler(t, notes)

	rec := serve(h, authorized(httptest.NewRequest(http.MethodGet, "/api/notes/search/beach%20trip", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "beach trip", gotQuery)
}

func TestUpdateNote_OptionalFieldsAndRemoval(t *testing.T) {
	notes := &fakeNoteService{
		updateFn: func(_ context.Context, update models.NoteUpdate) (models.Note, error) {
			assert.Equal(t, int64(3), update.ID)
			assert.Equal(t, "alice", update.Owner)
			require.NotNil(t, update.Title)
			assert.Equal(t, "new title", *update.Title)
			assert.Nil(t, update.Description)
			assert.Nil(t, update.Date)
			assert.Equal(t, []models.AttachmentKind{models.AttachmentAudio}, update.Remove)
			require.Len(t, update.Uploads, 1)
			assert.Equal(t, models.AttachmentImage, update.Uploads[0].Kind)
			return models.Note{ID: 3, Owner: "alice", Title: *update.Title}, nil
		},
	}
	h := notesHandler(t, notes)

	req := multipartRequest(t, http.MethodPut, "/api/notes/3",
		map[string]string{"title": "new title", "remove_audio": "true", "remove_video": "false"},
		formFile{"image", "new.png", "new"},
	)
	rec := serve(h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateNote_BadRemoveFlag(t *testing.T) {
	h := notesHandler(t, &fakeNoteService{})

	rec := serve(h, multipartRequest(t, http.MethodPut, "/api/notes/3", map[string]string{"remove_image": "maybe"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteNote(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"deleted", nil, http.StatusOK},
		{"missing", store.ErrNoteNotFound, http.StatusNotFound},
		{"cleanup failed", service.ErrAttachmentCleanupFailed, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes := &fakeNoteService{
				deleteFn: func(_ context.Context, _ string, _ int64) error { return tt.err },
			}
			rec := serve(notesHandler(t, notes), authorized(httptest.NewRequest(http.MethodDelete, "/api/notes/7", nil)))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestGetAttachment(t *testing.T) {
	notes := &fakeNoteService{
		getAttachmentFn: func(_ context.Context, owner, url string) (models.Attachment, error) {
			if owner == "alice" && url == "https://cdn.example.com/images/a.png" {
				return models.Attachment{Body: io.NopCloser(strings.NewReader("png")), ContentType: "image/png", Size: 3}, nil
			}
			return models.Attachment{}, service.ErrAttachmentNotFound
		},
	}
	h := notesHandler(t, notes)

	t.Run("owned", func(t *testing.T) {
		rec := serve(h, authorized(httptest.NewRequest(http.MethodGet, "/api/attachments?url=https%3A%2F%2Fcdn.example.com%2Fimages%2Fa.png", nil)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, "png", rec.Body.String())
	})

	t.Run("not owned", func(t *testing.T) {
		rec := serve(h, authorized(httptest.NewRequest(http.MethodGet, "/api/attachments?url=https%3A%2F%2Fcdn.example.com%2Fother", nil)))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing url", func(t *testing.T) {
		rec := serve(h, authorized(httptest.NewRequest(http.MethodGet, "/api/attachments", nil)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
