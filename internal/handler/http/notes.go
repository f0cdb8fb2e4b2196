// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/internal/utils"
	"github.com/MKhiriev/go-diary-keeper/models"
)

// multipartMemory is how much of a multipart form is kept in memory; larger
// parts spill to temporary files.
const multipartMemory = 8 << 20

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.GetUserFromContext(r.Context())

	if err := h.parseNoteForm(w, r); err != nil {
		h.writeError(w, r, err)
		return
	}
	defer cleanupForm(r)

	uploads, closeUploads, err := formUploads(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer closeUploads()

	note, err := h.services.NoteService.CreateNote(r.Context(), models.NoteDraft{
		Owner:       user.Username,
		Title:       r.PostForm.Get("title"),
		Description: r.PostForm.Get("description"),
		Date:        r.PostForm.Get("date"),
		Uploads:     uploads,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.NewNoteCreatedResponse(note), http.StatusCreated)
}

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.GetUserFromContext(r.Context())

	notes, err := h.services.NoteService.ListNotes(r.Context(), user.Username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, notes, http.StatusOK)
}

func (h *Handler) getNote(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.GetUserFromContext(r.Context())

	id, err := noteIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	note, err := h.services.NoteService.GetNote(r.Context(), user.Username, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, note, http.StatusOK)
}

func (h *Handler) searchNotes(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.GetUserFromContext(r.Context())

	query, err := url.PathUnescape(chi.URLParam(r, "query"))
	if err != nil {
		query = chi.URLParam(r, "query")
	}

	notes, err := h.services.NoteService.SearchNotes(r.Context(), user.Username, query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, notes, http.StatusOK)
}

// updateNote accepts the same multipart form as createNote. Absent text
// fields are left unchanged; remove_<slot>=true clears a slot.
func (h *Handler) updateNote(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.GetUserFromContext(r.Context())

	id, err := noteIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err = h.parseNoteForm(w, r); err != nil {
		h.writeError(w, r, err)
		return
	}
	defer cleanupForm(r)

	uploads, closeUploads, err := formUploads(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer closeUploads()

	update := models.NoteUpdate{
		ID:          id,
		Owner:       user.Username,
		Title:       optionalFormValue(r, "title"),
		Description: optionalFormValue(r, "description"),
		Date:        optionalFormValue(r, "date"),
		Uploads:     uploads,
	}
	for _, kind := range models.AttachmentKinds {
		raw := r.PostForm.Get("remove_" + string(kind))
		if raw == "" {
			continue
		}
		remove, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("%w: remove_%s: %w", ErrInvalidForm, kind, err))
			return
		}
		if remove {
			update.Remove = append(update.Remove, kind)
		}
	}

	note, err := h.services.NoteService.UpdateNote(r.Context(), update)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, note, http.StatusOK)
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.GetUserFromContext(r.Context())

	id, err := noteIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err = h.services.NoteService.DeleteNote(r.Context(), user.Username, id); err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: "Note deleted successfully"}, http.StatusOK)
}

// getAttachment streams the object behind ?url= when it belongs to one of
// the caller's notes.
func (h *Handler) getAttachment(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.GetUserFromContext(r.Context())

	attachmentURL := r.URL.Query().Get("url")
	if attachmentURL == "" {
		h.writeError(w, r, ErrMissingAttachmentURL)
		return
	}

	attachment, err := h.services.NoteService.GetAttachment(r.Context(), user.Username, attachmentURL)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer attachment.Body.Close()

	contentType := attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if attachment.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(attachment.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err = io.Copy(w, attachment.Body); err != nil {
		logger.FromRequest(r).Err(err).Msg("attachment streaming interrupted")
	}
}

// parseNoteForm parses a multipart or urlencoded note form bounded by the
// configured upload size.
func (h *Handler) parseNoteForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}
	return nil
}

// formUploads opens the image, audio and video file parts. The returned
// func closes every opened file.
func formUploads(r *http.Request) ([]models.Upload, func(), error) {
	var files []multipart.File
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	if r.MultipartForm == nil {
		return nil, closeAll, nil
	}

	var uploads []models.Upload
	for _, kind := range models.AttachmentKinds {
		headers := r.MultipartForm.File[string(kind)]
		if len(headers) == 0 {
			continue
		}
		fh := headers[0]
		if fh.Filename == "" && fh.Size == 0 {
			continue
		}

		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("%w: %s: %w", ErrInvalidForm, kind, err)
		}
		files = append(files, f)

		uploads = append(uploads, models.Upload{
			Kind:        kind,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}

	return uploads, closeAll, nil
}

func cleanupForm(r *http.Request) {
	if r.MultipartForm != nil {
		r.MultipartForm.RemoveAll()
	}
}

func optionalFormValue(r *http.Request, key string) *string {
	values, ok := r.PostForm[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

func noteIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidNoteID
	}
	return id, nil
}
