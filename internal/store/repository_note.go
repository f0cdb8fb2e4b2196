// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/models"
)

// idRetryBaseDelay is the first backoff step between id allocation attempts.
const idRetryBaseDelay = 5 * time.Millisecond

// noteRepository is the SQL implementation of [NoteRepository] backed by the
// "notes" table. Ids are global across owners.
type noteRepository struct {
	logger      *logger.Logger
	db          *DB
	maxAttempts int
}

// NewNoteRepository constructs a [NoteRepository]. maxAttempts bounds
// [NoteRepository.InsertNoteWithNextID]; values below one mean a single attempt.
func NewNoteRepository(db *DB, maxAttempts int, logger *logger.Logger) NoteRepository {
	logger.Debug().Msg("creating note repository")
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &noteRepository{
		db:          db,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// NextNoteID returns max(id)+1 over all notes, or 1 for an empty table.
func (r *noteRepository) NextNoteID(ctx context.Context) (int64, error) {
	return r.nextNoteID(ctx, r.db)
}

func (r *noteRepository) nextNoteID(ctx context.Context, q DBTX) (int64, error) {
	log := logger.FromContext(ctx)

	var id int64
	if err := q.QueryRowContext(ctx, nextNoteID).Scan(&id); err != nil {
		log.Err(err).Str("func", "*noteRepository.NextNoteID").Msg("error reading next note id")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return id, nil
}

// InsertNote stores note under note.ID. A taken id yields [ErrNoteIDConflict].
func (r *noteRepository) InsertNote(ctx context.Context, note models.Note) (models.Note, error) {
	if err := r.insertNote(ctx, r.db, note); err != nil {
		return models.Note{}, err
	}
	return note, nil
}

func (r *noteRepository) insertNote(ctx context.Context, q DBTX, note models.Note) error {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertNoteQuery(r.db.builder, note)
	if err != nil {
		log.Err(err).Str("func", "*noteRepository.InsertNote").Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		if _, ok := uniqueViolation(err); ok {
			log.Debug().Str("func", "*noteRepository.InsertNote").Int64("id", note.ID).Msg("note id taken")
			return ErrNoteIDConflict
		}
		log.Err(err).Str("func", "*noteRepository.InsertNote").Msg("error inserting note")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// InsertNoteWithNextID reads the next id and inserts the note in one
// serializable transaction. Id conflicts and transient database errors are
// retried with exponential backoff up to the configured attempt count.
func (r *noteRepository) InsertNoteWithNextID(ctx context.Context, note models.Note) (models.Note, error) {
	log := logger.FromContext(ctx)

	backoff := retry.WithMaxRetries(uint64(r.maxAttempts-1), retry.NewExponential(idRetryBaseDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := r.db.WithinTransaction(ctx, func(ctx context.Context, tx DBTX) error {
			id, err := r.nextNoteID(ctx, tx)
			if err != nil {
				return err
			}
			note.ID = id
			return r.insertNote(ctx, tx, note)
		})
		if errors.Is(err, ErrNoteIDConflict) || (err != nil && r.db.Classify(err) == Retryable) {
			log.Debug().Str("func", "*noteRepository.InsertNoteWithNextID").Err(err).Msg("retrying note id allocation")
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return models.Note{}, err
	}

	return note, nil
}

// GetNote returns the note with id when it belongs to owner.
func (r *noteRepository) GetNote(ctx context.Context, owner string, id int64) (models.Note, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetNoteQuery(r.db.builder, owner, id)
	if err != nil {
		log.Err(err).Str("func", "*noteRepository.GetNote").Msg("error building query")
		return models.Note{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	note, err := scanNote(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, ErrNoteNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*noteRepository.GetNote").Msg("error scanning note")
		return models.Note{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return note, nil
}

// ListNotes returns the owner's notes ordered by id.
func (r *noteRepository) ListNotes(ctx context.Context, owner string) ([]models.Note, error) {
	query, args, err := buildListNotesQuery(r.db.builder, owner)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*noteRepository.ListNotes").Msg("error building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return r.queryNotes(ctx, "*noteRepository.ListNotes", query, args)
}

// SearchNotes returns the owner's notes whose title or description contains
// query case-insensitively, or whose id equals query. Results are ordered by id.
func (r *noteRepository) SearchNotes(ctx context.Context, owner, query string) ([]models.Note, error) {
	sqlQuery, args, err := buildSearchNotesQuery(r.db.builder, owner, query)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*noteRepository.SearchNotes").Msg("error building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return r.queryNotes(ctx, "*noteRepository.SearchNotes", sqlQuery, args)
}

// FindNoteByAttachment returns the lowest-id note of owner that references
// url in any slot.
func (r *noteRepository) FindNoteByAttachment(ctx context.Context, owner, url string) (models.Note, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindNoteByAttachmentQuery(r.db.builder, owner, url)
	if err != nil {
		log.Err(err).Str("func", "*noteRepository.FindNoteByAttachment").Msg("error building query")
		return models.Note{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	note, err := scanNote(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, ErrNoteNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*noteRepository.FindNoteByAttachment").Msg("error scanning note")
		return models.Note{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return note, nil
}

// UpdateNote overwrites the mutable columns of the note identified by
// note.ID and note.Owner.
func (r *noteRepository) UpdateNote(ctx context.Context, note models.Note) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateNoteQuery(r.db.builder, note)
	if err != nil {
		log.Err(err).Str("func", "*noteRepository.UpdateNote").Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*noteRepository.UpdateNote").Msg("error updating note")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return requireAffected(res, ErrNoteNotFound)
}

// DeleteNote removes the note with id when it belongs to owner.
func (r *noteRepository) DeleteNote(ctx context.Context, owner string, id int64) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteNoteQuery(r.db.builder, owner, id)
	if err != nil {
		log.Err(err).Str("func", "*noteRepository.DeleteNote").Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*noteRepository.DeleteNote").Msg("error deleting note")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return requireAffected(res, ErrNoteNotFound)
}

func (r *noteRepository) queryNotes(ctx context.Context, fn, query string, args []any) ([]models.Note, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	notes := make([]models.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			log.Err(err).Str("func", fn).Msg("error scanning note")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		notes = append(notes, note)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", fn).Msg("error iterating rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return notes, nil
}

func scanNote(row rowScanner) (models.Note, error) {
	var (
		note                models.Note
		image, audio, video sql.NullString
	)
	err := row.Scan(&note.ID, &note.Owner, &note.Title, &note.Description, &note.Date, &image, &audio, &video)
	if err != nil {
		return models.Note{}, err
	}
	note.ImageURL = nullableString(image)
	note.AudioURL = nullableString(audio)
	note.VideoURL = nullableString(video)

	return note, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
