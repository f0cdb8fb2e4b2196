// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-diary-keeper/internal/config"
	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/internal/service"
	"github.com/MKhiriev/go-diary-keeper/internal/utils"
	"github.com/MKhiriev/go-diary-keeper/models"
)

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	user, err := h.services.AuthService.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Info().Str("username", user.Username).Msg("user signed up")
	utils.WriteJSON(w, models.MessageResponse{Message: "User created successfully"}, http.StatusOK)
}

// loginForm accepts an urlencoded username and password.
func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidForm, err))
		return
	}

	h.login(w, r, models.Credentials{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	})
}

// loginJSON accepts {"userName": ..., "password": ...}.
func (h *Handler) loginJSON(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	h.login(w, r, creds)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, creds models.Credentials) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, err := h.services.AuthService.Authenticate(ctx, creds)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			err = fmt.Errorf("%w: %w", ErrIncorrectCredentials, err)
		}
		h.writeError(w, r, err)
		return
	}

	token, err := h.services.AuthService.IssueToken(ctx, user)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if h.authMode == config.AuthModeCookie {
		cookie := &http.Cookie{
			Name:     accessTokenCookie,
			Value:    "Bearer " + token.SignedString,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.cookieSecure,
			SameSite: http.SameSiteLaxMode,
		}
		if token.ExpiresAt != nil {
			cookie.Expires = token.ExpiresAt.Time
		}
		http.SetCookie(w, cookie)
	}

	log.Info().Str("username", user.Username).Msg("user logged in")
	utils.WriteJSON(w, models.TokenResponse{
		AccessToken: token.SignedString,
		TokenType:   models.TokenTypeBearer,
		Username:    user.Username,
	}, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	token, _ := utils.GetTokenFromContext(r.Context())

	if err := h.services.AuthService.Logout(r.Context(), token); err != nil {
		h.writeError(w, r, err)
		return
	}

	if h.authMode == config.AuthModeCookie {
		http.SetCookie(w, &http.Cookie{
			Name:     accessTokenCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	utils.WriteJSON(w, models.MessageResponse{Message: "Successfully logged out"}, http.StatusOK)
}
