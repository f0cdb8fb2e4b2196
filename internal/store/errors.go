// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUsernameAlreadyExists is returned when a credential record with the
	// same username exists.
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// ErrEmailAlreadyExists is returned when another account uses the email.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNoUserWasFound is returned when no credential record matches.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrNoteNotFound is returned when no note with the id exists for the
	// owner. Notes of other owners are indistinguishable from absent ones.
	ErrNoteNotFound = errors.New("note was not found")

	// ErrNoteIDConflict is returned when the allocated note id was taken by
	// a concurrent insert.
	ErrNoteIDConflict = errors.New("note id already taken")

	// ErrUnsupportedDriver is returned for an unknown database driver.
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating over a result set fails.
	ErrScanningRows = errors.New("failed to scan rows")
)

// Attachment storage errors.
var (
	// ErrObjectNotFound is returned when no key variant of a URL resolves
	// to an object.
	ErrObjectNotFound = errors.New("attachment object not found")

	// ErrUnrecognizedURL is returned when a URL belongs to neither the
	// bucket nor the configured CDN.
	ErrUnrecognizedURL = errors.New("attachment url not recognized")

	// ErrUploadCredentials marks an upload rejected because the object store
	// credentials are invalid or expired. Retrying does not help.
	ErrUploadCredentials = errors.New("object store credentials rejected")

	// ErrUploadPermission marks an upload rejected by bucket policy.
	// Retrying does not help.
	ErrUploadPermission = errors.New("object store permission denied")

	// ErrUploadTransient marks an upload that kept failing with a transient
	// error until the attempt budget was spent.
	ErrUploadTransient = errors.New("object store upload failed")

	// ErrObjectStore wraps any other object store failure.
	ErrObjectStore = errors.New("object store failure")
)
