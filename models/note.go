// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "io"

// AttachmentKind names one of the three attachment slots of a note.
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentAudio AttachmentKind = "audio"
	AttachmentVideo AttachmentKind = "video"
)

// AttachmentKinds lists every slot in the order they are processed.
var AttachmentKinds = []AttachmentKind{AttachmentImage, AttachmentAudio, AttachmentVideo}

// Category returns the object key prefix used for blobs of this kind.
func (k AttachmentKind) Category() string {
	switch k {
	case AttachmentImage:
		return "images"
	case AttachmentAudio:
		return "audio"
	case AttachmentVideo:
		return "video"
	}
	return "misc"
}

// Valid reports whether k is a known slot.
func (k AttachmentKind) Valid() bool {
	switch k {
	case AttachmentImage, AttachmentAudio, AttachmentVideo:
		return true
	}
	return false
}

// Note is a diary entry owned by exactly one user.
//
// Attachment URL fields are nil when the slot is empty. A non-nil URL always
// references an object that exists in the attachment store.
type Note struct {
	ID          int64  `json:"id"`
	Owner       string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`

	ImageURL *string `json:"image_url"`
	AudioURL *string `json:"audio_url"`
	VideoURL *string `json:"video_url"`
}

// AttachmentURL returns the URL stored in the given slot.
func (n *Note) AttachmentURL(kind AttachmentKind) *string {
	switch kind {
	case AttachmentImage:
		return n.ImageURL
	case AttachmentAudio:
		return n.AudioURL
	case AttachmentVideo:
		return n.VideoURL
	}
	return nil
}

// SetAttachmentURL stores url in the given slot. A nil url clears it.
func (n *Note) SetAttachmentURL(kind AttachmentKind, url *string) {
	switch kind {
	case AttachmentImage:
		n.ImageURL = url
	case AttachmentAudio:
		n.AudioURL = url
	case AttachmentVideo:
		n.VideoURL = url
	}
}

// AttachmentURLs returns every non-empty attachment URL of the note.
func (n *Note) AttachmentURLs() []string {
	urls := make([]string, 0, len(AttachmentKinds))
	for _, kind := range AttachmentKinds {
		if u := n.AttachmentURL(kind); u != nil && *u != "" {
			urls = append(urls, *u)
		}
	}
	return urls
}

// References reports whether any slot of the note points at url.
func (n *Note) References(url string) bool {
	for _, u := range n.AttachmentURLs() {
		if u == url {
			return true
		}
	}
	return false
}

// Upload is a binary payload destined for one attachment slot.
type Upload struct {
	Kind        AttachmentKind `validate:"attachment_kind"`
	Filename    string         `validate:"required,max=255"`
	ContentType string
	Size        int64 `validate:"gte=0"`
	Body        io.Reader
}

// Attachment is a blob fetched back from the attachment store.
// The caller must close Body.
type Attachment struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// NoteDraft is the input of note creation.
type NoteDraft struct {
	Owner       string   `validate:"required"`
	Title       string   `validate:"required,max=200"`
	Description string   `validate:"required,max=10000"`
	Date        string   `validate:"required,max=64"`
	Uploads     []Upload `validate:"dive"`
}

// NoteUpdate is the input of note modification. Nil text fields are left
// unchanged. Uploads replace the attachment of their slot; Remove clears
// slots without a replacement.
type NoteUpdate struct {
	ID          int64            `validate:"gt=0"`
	Owner       string           `validate:"required"`
	Title       *string          `validate:"omitempty,min=1,max=200"`
	Description *string          `validate:"omitempty,max=10000"`
	Date        *string          `validate:"omitempty,min=1,max=64"`
	Uploads     []Upload         `validate:"dive"`
	Remove      []AttachmentKind `validate:"dive,attachment_kind"`
}

// HasChanges reports whether the update touches anything at all.
func (u NoteUpdate) HasChanges() bool {
	return u.Title != nil || u.Description != nil || u.Date != nil || len(u.Uploads) > 0 || len(u.Remove) > 0
}
