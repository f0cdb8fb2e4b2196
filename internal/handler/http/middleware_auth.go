// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-diary-keeper/internal/config"
	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/internal/service"
	"github.com/MKhiriev/go-diary-keeper/internal/utils"
	"github.com/MKhiriev/go-diary-keeper/models"
)

// accessTokenCookie holds "Bearer <token>" in cookie mode.
const accessTokenCookie = "access_token"

// auth is the auth gate. It reads the bearer token from the transport the
// deployment is configured for, resolves the account behind it and stores
// the account and the token in the request context.
//
// Every token problem is answered with the same 401; disabled accounts get
// 400 "Inactive user". Requests without a token never reach the services.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := h.tokenFromRequest(r)
		if err != nil {
			log.Debug().Err(err).Msg("no usable token in request")
			h.writeError(w, r, fmt.Errorf("%w: %w", service.ErrAuthenticationFailed, err))
			return
		}

		user, token, err := h.services.AuthService.ResolveIdentity(r.Context(), tokenString)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		ctx := utils.WithUser(r.Context(), user)
		ctx = utils.WithToken(ctx, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tokenFromRequest extracts the raw token. Header and cookie modes are
// exclusive: a header is ignored in cookie mode and vice versa.
func (h *Handler) tokenFromRequest(r *http.Request) (string, error) {
	var value string
	if h.authMode == config.AuthModeCookie {
		cookie, err := r.Cookie(accessTokenCookie)
		if err != nil {
			return "", ErrMissingAuthCookie
		}
		value = cookie.Value
	} else {
		value = r.Header.Get("Authorization")
		if value == "" {
			return "", ErrEmptyAuthorizationHeader
		}
	}

	tokenString, err := utils.ParseBearerToken(value)
	if err != nil {
		return "", ErrInvalidAuthorizationHeader
	}
	return tokenString, nil
}

// requireRole lets only accounts with role through. It must run after auth.
func (h *Handler) requireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := utils.GetUserFromContext(r.Context())
			if !ok || user.Role != role {
				h.writeError(w, r, ErrNotEnoughPermissions)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
