// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-diary-keeper/internal/config"
	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/internal/store"
	"github.com/MKhiriev/go-diary-keeper/models"
)

// noteService keeps note records and their attachment objects in step.
// A URL stored in a note always points at an object that was uploaded
// before the record was written, and an object is deleted before the
// record stops referencing it.
type noteService struct {
	noteRepository store.NoteRepository
	attachments    store.AttachmentStorage

	// idAllocation is config.IDAllocationSequential or
	// config.IDAllocationTransactional.
	idAllocation  string
	maxIDAttempts int

	logger *logger.Logger
}

// NewNoteService returns a NoteService writing records to noteRepository
// and blobs to attachments.
func NewNoteService(noteRepository store.NoteRepository, attachments store.AttachmentStorage, cfg config.DB, logger *logger.Logger) NoteService {
	attempts := cfg.MaxIDAttempts
	if attempts < 1 {
		attempts = 1
	}

	return &noteService{
		noteRepository: noteRepository,
		attachments:    attachments,
		idAllocation:   cfg.NoteIDAllocation,
		maxIDAttempts:  attempts,
		logger:         logger,
	}
}

// CreateNote uploads the draft's attachments, then allocates an id and
// stores the record. When the record cannot be stored, the uploaded objects
// are deleted again.
func (n *noteService) CreateNote(ctx context.Context, draft models.NoteDraft) (models.Note, error) {
	log := logger.FromContext(ctx)

	note := models.Note{
		Owner:       draft.Owner,
		Title:       draft.Title,
		Description: draft.Description,
		Date:        draft.Date,
	}

	var uploaded []string
	for _, upload := range draft.Uploads {
		url, err := n.put(ctx, upload)
		if err != nil {
			log.Err(err).Str("owner", draft.Owner).Str("kind", string(upload.Kind)).Msg("attachment upload failed")
			n.discard(ctx, uploaded)
			return models.Note{}, fmt.Errorf("attachment upload failed: %w", err)
		}
		uploaded = append(uploaded, url)
		note.SetAttachmentURL(upload.Kind, &url)
	}

	created, err := n.insert(ctx, note)
	if err != nil {
		log.Err(err).Str("owner", draft.Owner).Msg("note creation failed")
		n.discard(ctx, uploaded)
		return models.Note{}, fmt.Errorf("note creation failed: %w", err)
	}

	log.Info().Str("owner", created.Owner).Int64("note_id", created.ID).Msg("note created")
	return created, nil
}

func (n *noteService) GetNote(ctx context.Context, owner string, id int64) (models.Note, error) {
	return n.noteRepository.GetNote(ctx, owner, id)
}

func (n *noteService) ListNotes(ctx context.Context, owner string) ([]models.Note, error) {
	return n.noteRepository.ListNotes(ctx, owner)
}

func (n *noteService) SearchNotes(ctx context.Context, owner, query string) ([]models.Note, error) {
	return n.noteRepository.SearchNotes(ctx, owner, query)
}

// UpdateNote replaces attachments slot by slot, old object first, and then
// stores the record with the new text fields.
//
// If a slot fails half way, the slots handled so far are written to the
// record before the error is returned, so the note never references a
// deleted object. Text fields are not applied in that case. If the final
// write fails, the objects uploaded by this call are deleted and the
// record is written again with their slots cleared.
func (n *noteService) UpdateNote(ctx context.Context, update models.NoteUpdate) (models.Note, error) {
	log := logger.FromContext(ctx).With().Str("owner", update.Owner).Int64("note_id", update.ID).Logger()

	note, err := n.noteRepository.GetNote(ctx, update.Owner, update.ID)
	if err != nil {
		return models.Note{}, err
	}

	uploads := make(map[models.AttachmentKind]models.Upload, len(update.Uploads))
	for _, upload := range update.Uploads {
		uploads[upload.Kind] = upload
	}
	removals := make(map[models.AttachmentKind]bool, len(update.Remove))
	for _, kind := range update.Remove {
		removals[kind] = true
	}

	touched := false
	uploaded := make(map[models.AttachmentKind]string, len(uploads))
	for _, kind := range models.AttachmentKinds {
		upload, replace := uploads[kind]
		if !replace && !removals[kind] {
			continue
		}

		if old := note.AttachmentURL(kind); old != nil {
			if err = n.removeOld(ctx, *old); err != nil {
				log.Err(err).Str("kind", string(kind)).Msg("old attachment removal failed")
				n.persistPartial(ctx, note, touched)
				return models.Note{}, fmt.Errorf("old attachment removal failed: %w", err)
			}
			note.SetAttachmentURL(kind, nil)
			touched = true
		}

		if !replace {
			continue
		}

		url, err := n.put(ctx, upload)
		if err != nil {
			log.Err(err).Str("kind", string(kind)).Msg("attachment upload failed")
			n.persistPartial(ctx, note, touched)
			return models.Note{}, fmt.Errorf("attachment upload failed: %w", err)
		}
		note.SetAttachmentURL(kind, &url)
		uploaded[kind] = url
		touched = true
	}

	updated := note
	if update.Title != nil {
		updated.Title = *update.Title
	}
	if update.Description != nil {
		updated.Description = *update.Description
	}
	if update.Date != nil {
		updated.Date = *update.Date
	}

	if err = n.noteRepository.UpdateNote(ctx, updated); err != nil {
		log.Err(err).Msg("note update failed after attachment changes")
		urls := make([]string, 0, len(uploaded))
		for kind, url := range uploaded {
			urls = append(urls, url)
			note.SetAttachmentURL(kind, nil)
		}
		n.discard(ctx, urls)
		n.persistPartial(ctx, note, touched)
		return models.Note{}, fmt.Errorf("note update failed: %w", err)
	}

	log.Info().Msg("note updated")
	return updated, nil
}

// removeOld deletes the object a slot is about to stop referencing. An
// object that is already gone, or whose URL no longer matches the store's
// configured prefixes, cannot be removed and does not block the slot.
func (n *noteService) removeOld(ctx context.Context, url string) error {
	err := n.attachments.Delete(ctx, url)
	switch {
	case err == nil, errors.Is(err, store.ErrObjectNotFound):
		return nil
	case errors.Is(err, store.ErrUnrecognizedURL):
		logger.FromContext(ctx).Warn().Err(err).Msg("old attachment url not recognized, slot released")
		return nil
	default:
		return err
	}
}

// DeleteNote removes the note's attachments and then the record. The record
// is deleted even when an attachment could not be removed; that case is
// reported with ErrAttachmentCleanupFailed.
func (n *noteService) DeleteNote(ctx context.Context, owner string, id int64) error {
	log := logger.FromContext(ctx).With().Str("owner", owner).Int64("note_id", id).Logger()

	note, err := n.noteRepository.GetNote(ctx, owner, id)
	if err != nil {
		return err
	}

	var cleanupErrs []error
	for _, url := range note.AttachmentURLs() {
		if err = n.attachments.Delete(ctx, url); err != nil && !errors.Is(err, store.ErrObjectNotFound) {
			log.Err(err).Msg("attachment removal failed")
			cleanupErrs = append(cleanupErrs, err)
		}
	}

	if err = n.noteRepository.DeleteNote(ctx, owner, id); err != nil {
		log.Err(err).Msg("note deletion failed")
		return fmt.Errorf("note deletion failed: %w", errors.Join(append([]error{err}, cleanupErrs...)...))
	}

	if len(cleanupErrs) > 0 {
		return fmt.Errorf("%w: %w", ErrAttachmentCleanupFailed, errors.Join(cleanupErrs...))
	}

	log.Info().Msg("note deleted")
	return nil
}

// GetAttachment fetches url only when one of owner's notes references it.
// The match is checked byte for byte, since MySQL compares strings under a
// case-insensitive collation.
func (n *noteService) GetAttachment(ctx context.Context, owner, url string) (models.Attachment, error) {
	note, err := n.noteRepository.FindNoteByAttachment(ctx, owner, url)
	if err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			return models.Attachment{}, ErrAttachmentNotFound
		}
		return models.Attachment{}, err
	}
	if !note.References(url) {
		return models.Attachment{}, ErrAttachmentNotFound
	}

	attachment, err := n.attachments.Get(ctx, url)
	if err != nil {
		if errors.Is(err, store.ErrObjectNotFound) {
			return models.Attachment{}, fmt.Errorf("%w: %w", ErrAttachmentNotFound, err)
		}
		logger.FromContext(ctx).Err(err).Str("owner", owner).Msg("attachment fetch failed")
		return models.Attachment{}, err
	}

	return attachment, nil
}

func (n *noteService) put(ctx context.Context, upload models.Upload) (string, error) {
	return n.attachments.Put(ctx, upload.Kind.Category(), upload.Filename, upload.ContentType, upload.Body, upload.Size)
}

// insert allocates the note id according to the configured strategy.
// Sequential allocation reads the highest id and inserts outside of any
// transaction; a concurrent insert of the same id is retried.
func (n *noteService) insert(ctx context.Context, note models.Note) (models.Note, error) {
	if n.idAllocation == config.IDAllocationTransactional {
		return n.noteRepository.InsertNoteWithNextID(ctx, note)
	}

	var err error
	for attempt := 0; attempt < n.maxIDAttempts; attempt++ {
		if note.ID, err = n.noteRepository.NextNoteID(ctx); err != nil {
			return models.Note{}, err
		}

		var created models.Note
		created, err = n.noteRepository.InsertNote(ctx, note)
		if !errors.Is(err, store.ErrNoteIDConflict) {
			return created, err
		}
		logger.FromContext(ctx).Warn().Int64("note_id", note.ID).Msg("note id taken, retrying")
	}

	return models.Note{}, err
}

// discard deletes objects uploaded for a note that was never stored.
func (n *noteService) discard(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := n.attachments.Delete(context.WithoutCancel(ctx), url); err != nil {
			logger.FromContext(ctx).Err(err).Msg("orphan attachment removal failed")
		}
	}
}

func (n *noteService) persistPartial(ctx context.Context, note models.Note, touched bool) {
	if !touched {
		return
	}
	if err := n.noteRepository.UpdateNote(context.WithoutCancel(ctx), note); err != nil {
		logger.FromContext(ctx).Err(err).Int64("note_id", note.ID).Msg("partial note update failed")
	}
}
