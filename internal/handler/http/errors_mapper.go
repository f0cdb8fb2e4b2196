// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/internal/service"
	"github.com/MKhiriev/go-diary-keeper/internal/store"
	"github.com/MKhiriev/go-diary-keeper/internal/utils"
	"github.com/MKhiriev/go-diary-keeper/internal/validators"
)

type errorResponse struct {
	target  error
	status  int
	message string
}

// errorResponses is checked in order; the first match wins. Wrapping errors
// come before the errors they may wrap.
var errorResponses = []errorResponse{
	{ErrIncorrectCredentials, http.StatusUnauthorized, "Incorrect username or password"},
	{service.ErrAuthenticationFailed, http.StatusUnauthorized, "Could not validate credentials"},
	{service.ErrInactiveUser, http.StatusBadRequest, "Inactive user"},
	{ErrNotEnoughPermissions, http.StatusForbidden, "Not enough permissions"},

	{store.ErrUsernameAlreadyExists, http.StatusBadRequest, "Username already registered"},
	{store.ErrEmailAlreadyExists, http.StatusBadRequest, "Email already registered"},
	{service.ErrEmptySearchQuery, http.StatusBadRequest, "Search query is empty"},
	{ErrInvalidJSON, http.StatusBadRequest, "Invalid JSON was passed"},
	{ErrInvalidForm, http.StatusBadRequest, "Invalid form data"},
	{ErrInvalidNoteID, http.StatusBadRequest, "Invalid note id"},
	{ErrMissingAttachmentURL, http.StatusBadRequest, "Attachment url is required"},

	{service.ErrAttachmentCleanupFailed, http.StatusInternalServerError, "Note deleted but some attachments could not be removed"},
	{store.ErrNoteNotFound, http.StatusNotFound, "Note not found"},
	{service.ErrAttachmentNotFound, http.StatusNotFound, "Attachment not found"},
	{store.ErrObjectNotFound, http.StatusNotFound, "Attachment not found"},
	{store.ErrNoUserWasFound, http.StatusNotFound, "User not found"},

	{store.ErrUploadCredentials, http.StatusInternalServerError, "Failed to upload attachment"},
	{store.ErrUploadPermission, http.StatusInternalServerError, "Failed to upload attachment"},
	{store.ErrUploadTransient, http.StatusInternalServerError, "Failed to upload attachment"},
}

// errorStatus maps err to a status code and a message safe to show to the
// client. Unknown errors map to 500.
func errorStatus(err error) (int, string) {
	if errors.Is(err, validators.ErrValidation) {
		return http.StatusBadRequest, validationMessage(err)
	}
	for _, resp := range errorResponses {
		if errors.Is(err, resp.target) {
			return resp.status, resp.message
		}
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

// validationMessage keeps the rule violations and drops the wrapping
// context added on the way up.
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, validators.ErrValidation.Error()); i >= 0 {
		return msg[i:]
	}
	return validators.ErrValidation.Error()
}

// writeError logs err with the request logger and answers with the mapped
// status and {"detail": message}. 401 responses carry a Bearer challenge.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := errorStatus(err)

	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	utils.WriteError(w, message, status)
}
