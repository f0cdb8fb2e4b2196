// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	// ErrAuthenticationFailed covers every credential or token problem. The
	// cause is only ever logged.
	ErrAuthenticationFailed = errors.New("could not validate credentials")

	// ErrInactiveUser is returned for disabled accounts presenting valid
	// credentials.
	ErrInactiveUser = errors.New("inactive user")

	ErrTokenCreationFailed = errors.New("token creation failed")

	ErrEmptySearchQuery = errors.New("search query is empty")

	// ErrAttachmentNotFound is returned when none of the caller's notes
	// references the requested attachment, or the object is gone.
	ErrAttachmentNotFound = errors.New("attachment not found")

	// ErrAttachmentCleanupFailed is returned when a note record was deleted
	// but some of its attachment objects could not be removed.
	ErrAttachmentCleanupFailed = errors.New("note deleted but attachment cleanup failed")
)
