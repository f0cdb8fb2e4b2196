// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-diary-keeper/internal/validators"
	"github.com/MKhiriev/go-diary-keeper/models"
)

// NoteValidationService checks note input before it reaches the wrapped
// NoteService.
type NoteValidationService struct {
	inner     NoteService
	validator validators.Validator
}

func NewNoteValidationService(validator validators.Validator) NoteServiceWrapper {
	return &NoteValidationService{
		validator: validator,
	}
}

func (v *NoteValidationService) CreateNote(ctx context.Context, draft models.NoteDraft) (models.Note, error) {
	if err := v.validator.Validate(ctx, draft); err != nil {
		return models.Note{}, fmt.Errorf("error during note validation before saving: %w", err)
	}
	if err := uniqueSlots(draft.Uploads, nil); err != nil {
		return models.Note{}, err
	}

	return v.inner.CreateNote(ctx, draft)
}

func (v *NoteValidationService) GetNote(ctx context.Context, owner string, id int64) (models.Note, error) {
	return v.inner.GetNote(ctx, owner, id)
}

func (v *NoteValidationService) ListNotes(ctx context.Context, owner string) ([]models.Note, error) {
	return v.inner.ListNotes(ctx, owner)
}

func (v *NoteValidationService) SearchNotes(ctx context.Context, owner, query string) ([]models.Note, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptySearchQuery
	}

	return v.inner.SearchNotes(ctx, owner, query)
}

func (v *NoteValidationService) UpdateNote(ctx context.Context, update models.NoteUpdate) (models.Note, error) {
	if err := v.validator.Validate(ctx, update); err != nil {
		return models.Note{}, fmt.Errorf("error during note validation before update: %w", err)
	}
	if !update.HasChanges() {
		return models.Note{}, fmt.Errorf("%w: nothing to update", validators.ErrValidation)
	}
	if err := uniqueSlots(update.Uploads, update.Remove); err != nil {
		return models.Note{}, err
	}

	return v.inner.UpdateNote(ctx, update)
}

func (v *NoteValidationService) DeleteNote(ctx context.Context, owner string, id int64) error {
	return v.inner.DeleteNote(ctx, owner, id)
}

func (v *NoteValidationService) GetAttachment(ctx context.Context, owner, url string) (models.Attachment, error) {
	if strings.TrimSpace(url) == "" {
		return models.Attachment{}, ErrAttachmentNotFound
	}

	return v.inner.GetAttachment(ctx, owner, url)
}

func (v *NoteValidationService) Wrap(wrapped NoteService) NoteService {
	v.inner = wrapped
	return v
}

// uniqueSlots rejects two uploads for one slot, and an upload for a slot
// that is also being removed.
func uniqueSlots(uploads []models.Upload, removals []models.AttachmentKind) error {
	seen := make(map[models.AttachmentKind]bool, len(uploads))
	for _, upload := range uploads {
		if seen[upload.Kind] {
			return fmt.Errorf("%w: more than one %s attachment", validators.ErrValidation, upload.Kind)
		}
		seen[upload.Kind] = true
	}
	for _, kind := range removals {
		if seen[kind] {
			return fmt.Errorf("%w: %s is both replaced and removed", validators.ErrValidation, kind)
		}
	}
	return nil
}
