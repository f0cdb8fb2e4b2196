// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors raised by the transport layer itself. Callers can match
// against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth gate when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is not of the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrMissingAuthCookie is returned in cookie mode when the access token
	// cookie is absent.
	ErrMissingAuthCookie = errors.New("missing access token cookie")

	// ErrIncorrectCredentials is reported for failed logins.
	ErrIncorrectCredentials = errors.New("incorrect username or password")

	// ErrNotEnoughPermissions is returned by the role guard.
	ErrNotEnoughPermissions = errors.New("not enough permissions")

	ErrInvalidJSON = errors.New("invalid JSON was passed")

	ErrInvalidForm = errors.New("invalid form data")

	ErrInvalidNoteID = errors.New("invalid note id")

	ErrMissingAttachmentURL = errors.New("attachment url is required")
)
