// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-diary-keeper/internal/config"
	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/internal/metrics"
	"github.com/MKhiriev/go-diary-keeper/internal/service"
	"github.com/MKhiriev/go-diary-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Service fakes
// ─────────────────────────────────────────────

// fakeAuthService implements service.AuthService. Every method field can be
// overridden per test; unset fields fail the call.
type fakeAuthService struct {
	registerFn     func(ctx context.Context, req models.SignupRequest) (models.User, error)
	authenticateFn func(ctx context.Context, creds models.Credentials) (models.User, error)
	issueTokenFn   func(ctx context.Context, user models.User) (models.Token, error)
	resolveFn      func(ctx context.Context, tokenString string) (models.User, models.Token, error)
	logoutFn       func(ctx context.Context, token models.Token) error
}

func (f *fakeAuthService) Register(ctx context.Context, req models.SignupRequest) (models.User, error) {
	return f.registerFn(ctx, req)
}

func (f *fakeAuthService) Authenticate(ctx context.Context, creds models.Credentials) (models.User, error) {
	return f.authenticateFn(ctx, creds)
}

func (f *fakeAuthService) IssueToken(ctx context.Context, user models.User) (models.Token, error) {
	return f.issueTokenFn(ctx, user)
}

func (f *fakeAuthService) ResolveIdentity(ctx context.Context, tokenString string) (models.User, models.Token, error) {
	return f.resolveFn(ctx, tokenString)
}

func (f *fakeAuthService) Logout(ctx context.Context, token models.Token) error {
	if f.logoutFn == nil {
		return nil
	}
	return f.logoutFn(ctx, token)
}

type fakeUserService struct {
	updateProfileFn  func(ctx context.Context, username string, update models.ProfileUpdate) (models.User, error)
	changePasswordFn func(ctx context.Context, username string, req models.PasswordChangeRequest) error
	listUsersFn      func(ctx context.Context) ([]models.User, error)
	setDisabledFn    func(ctx context.Context, username string, disabled bool) error
}

func (f *fakeUserService) UpdateProfile(ctx context.Context, username string, update models.ProfileUpdate) (models.User, error) {
	return f.updateProfileFn(ctx, username, update)
}

func (f *fakeUserService) ChangePassword(ctx context.Context, username string, req models.PasswordChangeRequest) error {
	return f.changePasswordFn(ctx, username, req)
}

func (f *fakeUserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return f.listUsersFn(ctx)
}

func (f *fakeUserService) SetDisabled(ctx context.Context, username string, disabled bool) error {
	return f.setDisabledFn(ctx, username, disabled)
}

type fakeNoteService struct {
	createFn        func(ctx context.Context, draft models.NoteDraft) (models.Note, error)
	getFn           func(ctx context.Context, owner string, id int64) (models.Note, error)
	listFn          func(ctx context.Context, owner string) ([]models.Note, error)
	searchFn        func(ctx context.Context, owner, query string) ([]models.Note, error)
	updateFn        func(ctx context.Context, update models.NoteUpdate) (models.Note, error)
	deleteFn        func(ctx context.Context, owner string, id int64) error
	getAttachmentFn func(ctx context.Context, owner, url string) (models.Attachment, error)
}

func (f *fakeNoteService) CreateNote(ctx context.Context, draft models.NoteDraft) (models.Note, error) {
	return f.createFn(ctx, draft)
}

func (f *fakeNoteService) GetNote(ctx context.Context, owner string, id int64) (models.Note, error) {
	return f.getFn(ctx, owner, id)
}

func (f *fakeNoteService) ListNotes(ctx context.Context, owner string) ([]models.Note, error) {
	return f.listFn(ctx, owner)
}

func (f *fakeNoteService) SearchNotes(ctx context.Context, owner, query string) ([]models.Note, error) {
	return f.searchFn(ctx, owner, query)
}

func (f *fakeNoteService) UpdateNote(ctx context.Context, update models.NoteUpdate) (models.Note, error) {
	return f.updateFn(ctx, update)
}

func (f *fakeNoteService) DeleteNote(ctx context.Context, owner string, id int64) error {
	return f.deleteFn(ctx, owner, id)
}

func (f *fakeNoteService) GetAttachment(ctx context.Context, owner, url string) (models.Attachment, error) {
	return f.getAttachmentFn(ctx, owner, url)
}

type mockAppInfoService struct {
	version string
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) string {
	return m.version
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

const validToken = "valid.jwt.token"

var (
	alice     = models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleStudent, PasswordHash: "$2a$secret"}
	professor = models.User{Username: "prof", Email: "prof@example.com", Role: models.RoleProfessor}
)

// authAs returns an auth fake that accepts validToken as user.
func authAs(user models.User) *fakeAuthService {
	return &fakeAuthService{
		resolveFn: func(_ context.Context, tokenString string) (models.User, models.Token, error) {
			if tokenString != validToken {
				return models.User{}, models.Token{}, service.ErrAuthenticationFailed
			}
			return user, models.Token{SignedString: tokenString, Username: user.Username}, nil
		},
	}
}

func newTestHandler(t *testing.T, svcs *service.Services, cfg config.Server) *Handler {
	t.Helper()
	if svcs.AppInfoService == nil {
		svcs.AppInfoService = &mockAppInfoService{version: "test-version"}
	}
	return NewHandler(svcs, cfg, nil, logger.Nop())
}

func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)
	return rec
}

func authorized(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+validToken)
	return req
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return strings.NewReader(string(b))
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Detail
}

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_Defaults(t *testing.T) {
	h := NewHandler(&service.Services{}, config.Server{}, nil, logger.Nop())

	require.NotNil(t, h)
	assert.Equal(t, config.AuthModeHeader, h.authMode)
	assert.Equal(t, int64(defaultMaxUploadSize), h.maxUploadSize)
}

func TestNewHandler_UsesConfig(t *testing.T) {
	m := metrics.NewMetrics()
	h := NewHandler(&service.Services{}, config.Server{AuthMode: config.AuthModeCookie, CookieSecure: true, MaxUploadSize: 1024}, m, logger.Nop())

	assert.Equal(t, config.AuthModeCookie, h.authMode)
	assert.True(t, h.cookieSecure)
	assert.Equal(t, int64(1024), h.maxUploadSize)
	assert.Same(t, m, h.metrics)
}

// ─────────────────────────────────────────────
// Version
// ─────────────────────────────────────────────

func TestGetServerVersion_PlainText(t *testing.T) {
	h := newTestHandler(t, &service.Services{AppInfoService: &mockAppInfoService{version: "1.2.3"}}, config.Server{})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.2.3", rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
}
