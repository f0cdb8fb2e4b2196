// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-diary-keeper/models"
)

const (
	usersTable = "users"
	notesTable = "notes"

	nextNoteID = `SELECT COALESCE(MAX(id), 0) + 1 FROM notes`
)

var (
	userColumns = []string{
		"username", "email", "password_hash", "full_name", "address",
		"bio", "phone_number", "role", "disabled", "created_at",
	}

	noteColumns = []string{
		"id", "owner", "title", "description", "date",
		"image_url", "audio_url", "video_url",
	}

	// '!' is a valid LIKE escape in every supported dialect; a backslash
	// would need quoting in MySQL.
	likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)
)

func buildInsertUserQuery(b sq.StatementBuilderType, user models.User) (string, []any, error) {
	return b.Insert(usersTable).
		Columns(userColumns...).
		Values(user.Username, user.Email, user.PasswordHash, user.FullName, user.Address,
			user.Bio, user.PhoneNumber, string(user.Role), user.Disabled, user.CreatedAt).
		ToSql()
}

func buildFindUserQuery(b sq.StatementBuilderType, username string) (string, []any, error) {
	return b.Select(userColumns...).
		From(usersTable).
		Where(sq.Eq{"username": username}).
		ToSql()
}

func buildListUsersQuery(b sq.StatementBuilderType) (string, []any, error) {
	return b.Select(userColumns...).
		From(usersTable).
		OrderBy("username").
		ToSql()
}

func buildUpdateProfileQuery(b sq.StatementBuilderType, user models.User) (string, []any, error) {
	return b.Update(usersTable).
		Set("email", user.Email).
		Set("full_name", user.FullName).
		Set("address", user.Address).
		Set("bio", user.Bio).
		Set("phone_number", user.PhoneNumber).
		Where(sq.Eq{"username": user.Username}).
		ToSql()
}

func buildUpdateUserColumnQuery(b sq.StatementBuilderType, username, column string, value any) (string, []any, error) {
	return b.Update(usersTable).
		Set(column, value).
		Where(sq.Eq{"username": username}).
		ToSql()
}

func buildInsertNoteQuery(b sq.StatementBuilderType, note models.Note) (string, []any, error) {
	return b.Insert(notesTable).
		Columns(noteColumns...).
		Values(note.ID, note.Owner, note.Title, note.Description, note.Date, note.ImageURL, note.AudioURL, note.VideoURL).
		ToSql()
}

func buildGetNoteQuery(b sq.StatementBuilderType, owner string, id int64) (string, []any, error) {
	return b.Select(noteColumns...).
		From(notesTable).
		Where(sq.Eq{"id": id, "owner": owner}).
		ToSql()
}

func buildListNotesQuery(b sq.StatementBuilderType, owner string) (string, []any, error) {
	return b.Select(noteColumns...).
		From(notesTable).
		Where(sq.Eq{"owner": owner}).
		OrderBy("id").
		ToSql()
}

// buildSearchNotesQuery matches the lower-cased query as a literal substring
// of title or description. LIKE wildcards in the query are escaped. When the
// query parses as an integer the note id is matched too.
func buildSearchNotesQuery(b sq.StatementBuilderType, owner, query string) (string, []any, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"

	conditions := sq.Or{
		sq.Expr(`LOWER(title) LIKE ? ESCAPE '!'`, pattern),
		sq.Expr(`LOWER(description) LIKE ? ESCAPE '!'`, pattern),
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(query), 10, 64); err == nil {
		conditions = append(conditions, sq.Eq{"id": id})
	}

	return b.Select(noteColumns...).
		From(notesTable).
		Where(sq.And{sq.Eq{"owner": owner}, conditions}).
		OrderBy("id").
		ToSql()
}

func buildFindNoteByAttachmentQuery(b sq.StatementBuilderType, owner, url string) (string, []any, error) {
	return b.Select(noteColumns...).
		From(notesTable).
		Where(sq.And{
			sq.Eq{"owner": owner},
			sq.Or{sq.Eq{"image_url": url}, sq.Eq{"audio_url": url}, sq.Eq{"video_url": url}},
		}).
		OrderBy("id").
		Limit(1).
		ToSql()
}

func buildUpdateNoteQuery(b sq.StatementBuilderType, note models.Note) (string, []any, error) {
	return b.Update(notesTable).
		Set("title", note.Title).
		Set("description", note.Description).
		Set("date", note.Date).
		Set("image_url", note.ImageURL).
		Set("audio_url", note.AudioURL).
		Set("video_url", note.VideoURL).
		Where(sq.Eq{"id": note.ID, "owner": note.Owner}).
		ToSql()
}

func buildDeleteNoteQuery(b sq.StatementBuilderType, owner string, id int64) (string, []any, error) {
	return b.Delete(notesTable).
		Where(sq.Eq{"id": id, "owner": owner}).
		ToSql()
}
