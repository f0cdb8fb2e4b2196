// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MKhiriev/go-diary-keeper/internal/config"
	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/models"
)

var userRowColumns = []string{
	"username", "email", "password_hash", "full_name", "address",
	"bio", "phone_number", "role", "disabled", "created_at",
}

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return newDB(conn, config.DriverPostgres, NewPostgresErrorClassifier(), logger.NewLogger("test")), mock
}

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock) {
	db, mock := newTestDB(t)
	return &userRepository{db: db, logger: db.logger}, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func pgUniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraint}
}

func testUser() models.User {
	return models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
		FullName:     "Alice Liddell",
		Role:         models.RoleStudent,
	}
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	user := testUser()
	now := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	orig := userCreatedAt
	userCreatedAt = func() time.Time { return now }
	t.Cleanup(func() { userCreatedAt = orig })

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.Username, user.Email, user.PasswordHash, user.FullName, "", "", "", "student", false, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.CreateUser(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created.CreatedAt.Equal(now) {
		t.Errorf("expected created_at %v, got %v", now, created.CreatedAt)
	}
	if created.Username != "alice" {
		t.Errorf("expected username alice, got %s", created.Username)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectExec("INSERT INTO users").WillReturnError(pgUniqueViolation("users_pkey"))

	_, err := repo.CreateUser(context.Background(), testUser())
	if !errors.Is(err, ErrUsernameAlreadyExists) {
		t.Fatalf("expected ErrUsernameAlreadyExists, got %v", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectExec("INSERT INTO users").WillReturnError(pgUniqueViolation("users_email_key"))

	_, err := repo.CreateUser(context.Background(), testUser())
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("db network error"))

	_, err := repo.CreateUser(context.Background(), testUser())
	if !errors.Is(err, ErrExecutingStatement) {
		t.Fatalf("expected ErrExecutingStatement, got %v", err)
	}
}

func TestFindUserByUsername_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	now := time.Now()
	rows := sqlmock.NewRows(userRowColumns).
		AddRow("alice", "alice@example.com", "hash", "Alice", "", "", "", "professor", true, now)

	mock.ExpectQuery("SELECT username, email").
		WithArgs("alice").
		WillReturnRows(rows)

	found, err := repo.FindUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Role != models.RoleProfessor {
		t.Errorf("expected role professor, got %s", found.Role)
	}
	if !found.Disabled {
		t.Error("expected disabled user")
	}
	if found.PasswordHash != "hash" {
		t.Errorf("expected hash to be scanned, got %q", found.PasswordHash)
	}
}

func TestFindUserByUsername_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT username, email").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.FindUserByUsername(context.Background(), "ghost")
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestFindUserByUsername_DBError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT username, email").
		WithArgs("alice").
		WillReturnError(pgError(pgerrcode.ConnectionFailure))

	_, err := repo.FindUserByUsername(context.Background(), "alice")
	if err == nil || errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected a database error, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	now := time.Now()
	rows := sqlmock.NewRows(userRowColumns).
		AddRow("alice", "a@example.com", "h1", "", "", "", "", "student", false, now).
		AddRow("bob", "b@example.com", "h2", "", "", "", "", "professor", false, now)

	mock.ExpectQuery("SELECT .+ FROM users ORDER BY username").WillReturnRows(rows)

	users, err := repo.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 || users[0].Username != "alice" || users[1].Username != "bob" {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestListUsers_Empty(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT .+ FROM users").WillReturnRows(sqlmock.NewRows(userRowColumns))

	users, err := repo.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", users)
	}
}

func TestUpdateProfile(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	user := testUser()
	mock.ExpectExec("UPDATE users SET email").
		WithArgs(user.Email, user.FullName, "", "", "", "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateProfile(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectExec("UPDATE users").WillReturnError(pgUniqueViolation("users_email_key"))

	err := repo.UpdateProfile(context.Background(), testUser())
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestUpdatePasswordHash(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("newhash", "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePasswordHash(context.Background(), "alice", "newhash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetDisabled_UnknownUser(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectExec("UPDATE users SET disabled").
		WithArgs(true, "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetDisabled(context.Background(), "ghost", true)
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestSetDisabled_ExecError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectExec("UPDATE users SET disabled").WillReturnError(sql.ErrConnDone)

	err := repo.SetDisabled(context.Background(), "alice", true)
	if !errors.Is(err, ErrExecutingStatement) {
		t.Fatalf("expected ErrExecutingStatement, got %v", err)
	}
}
