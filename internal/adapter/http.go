// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-diary-keeper/internal/config"
	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/internal/utils"
	"github.com/MKhiriev/go-diary-keeper/models"
)

// readRetries is how often idempotent reads are retried on transport errors.
const readRetries = 2

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs the REST implementation of [ServerAdapter].
// It normalises cfg.HTTPAddress into a base URL and applies the request
// timeout. Returns an error if the address is empty or not a valid URL.
func NewHTTPServerAdapter(cfg config.Adapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewAPIClient(baseURL, cfg.RequestTimeout, readRetries)
	// only reads are safe to repeat
	client.AddRetryCondition(func(resp *resty.Response, err error) bool {
		if resp == nil || resp.Request == nil {
			return false
		}
		return err != nil && resp.Request.Method == resty.MethodGet
	})

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Signup POSTs the registration body to /api/user/signup.
func (h *httpServerAdapter) Signup(ctx context.Context, req models.SignupRequest) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/user/signup")
	if err != nil {
		return fmt.Errorf("signup request: %w", err)
	}

	return mapHTTPError(resp)
}

// Login POSTs the credentials as JSON to /api/user/signin and stores the
// returned access token.
func (h *httpServerAdapter) Login(ctx context.Context, creds models.Credentials) (models.TokenResponse, error) {
	var token models.TokenResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(creds).
		SetResult(&token).
		Post("/api/user/signin")
	if err != nil {
		return models.TokenResponse{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TokenResponse{}, err
	}
	if token.AccessToken == "" {
		return models.TokenResponse{}, fmt.Errorf("login: empty access token in response")
	}

	h.SetToken(token.AccessToken)
	return token, nil
}

// Logout revokes the token server-side. The local token is dropped even when
// the server call fails.
func (h *httpServerAdapter) Logout(ctx context.Context) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}
	defer h.SetToken("")

	resp, err := req.Post("/api/user/logout")
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) Me(ctx context.Context) (models.User, error) {
	var user models.User
	if err := h.getJSON(ctx, "/api/users/me", &user); err != nil {
		return models.User{}, fmt.Errorf("get profile: %w", err)
	}
	return user, nil
}

// CreateNote sends the draft as multipart/form-data. Each upload becomes a
// file part named after its slot.
func (h *httpServerAdapter) CreateNote(ctx context.Context, draft models.NoteDraft) (models.NoteCreatedResponse, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.NoteCreatedResponse{}, err
	}

	var created models.NoteCreatedResponse
	req.
		SetMultipartFormData(map[string]string{
			"title":       draft.Title,
			"description": draft.Description,
			"date":        draft.Date,
		}).
		SetResult(&created)

	for _, upload := range draft.Uploads {
		contentType := upload.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		req.SetMultipartField(string(upload.Kind), upload.Filename, contentType, upload.Body)
	}

	resp, err := req.Post("/api/notes")
	if err != nil {
		return models.NoteCreatedResponse{}, fmt.Errorf("create note request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.NoteCreatedResponse{}, err
	}

	return created, nil
}

func (h *httpServerAdapter) ListNotes(ctx context.Context) ([]models.Note, error) {
	notes := []models.Note{}
	if err := h.getJSON(ctx, "/api/notes", &notes); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (h *httpServerAdapter) GetNote(ctx context.Context, id int64) (models.Note, error) {
	var note models.Note
	if err := h.getJSON(ctx, "/api/notes/"+strconv.FormatInt(id, 10), &note); err != nil {
		return models.Note{}, fmt.Errorf("get note %d: %w", id, err)
	}
	return note, nil
}

// SearchNotes escapes query as a single path segment.
func (h *httpServerAdapter) SearchNotes(ctx context.Context, query string) ([]models.Note, error) {
	notes := []models.Note{}
	if err := h.getJSON(ctx, "/api/notes/search/"+url.PathEscape(query), &notes); err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	return notes, nil
}

func (h *httpServerAdapter) DeleteNote(ctx context.Context, id int64) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}

	resp, err := req.Delete("/api/notes/" + strconv.FormatInt(id, 10))
	if err != nil {
		return fmt.Errorf("delete note request: %w", err)
	}

	return mapHTTPError(resp)
}

// Version does not require a token.
func (h *httpServerAdapter) Version(ctx context.Context) (string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain").
		Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.String()), nil
}

func (h *httpServerAdapter) getJSON(ctx context.Context, path string, result any) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}

	resp, err := req.SetResult(result).Get(path)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) (*resty.Request, error) {
	token := h.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	return h.client.R().
		SetContext(ctx).
		SetAuthScheme("Bearer").
		SetAuthToken(token), nil
}
