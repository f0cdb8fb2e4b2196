// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse carries a short human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// NoteCreatedResponse is returned after a note was stored.
type NoteCreatedResponse struct {
	Message  string  `json:"message"`
	ID       int64   `json:"id"`
	ImageURL *string `json:"image_url"`
	AudioURL *string `json:"audio_url"`
	VideoURL *string `json:"video_url"`
}

// NewNoteCreatedResponse builds the creation response for note.
func NewNoteCreatedResponse(note Note) NoteCreatedResponse {
	return NoteCreatedResponse{
		Message:  "Note created successfully",
		ID:       note.ID,
		ImageURL: note.ImageURL,
		AudioURL: note.AudioURL,
		VideoURL: note.VideoURL,
	}
}
