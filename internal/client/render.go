// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-diary-keeper/models"
)

// printer renders command output. Styling is dropped automatically when the
// writer is not a terminal.
type printer struct {
	out io.Writer

	titleStyle  lipgloss.Style
	labelStyle  lipgloss.Style
	detailStyle lipgloss.Style
	errorStyle  lipgloss.Style
}

func newPrinter(out io.Writer) *printer {
	r := lipgloss.NewRenderer(out)
	return &printer{
		out:         out,
		titleStyle:  r.NewStyle().Bold(true),
		labelStyle:  r.NewStyle().Faint(true),
		detailStyle: r.NewStyle().PaddingLeft(2),
		errorStyle:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

func (p *printer) line(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, p.errorStyle.Render(fmt.Sprintf(format, args...)))
}

// noteHeader is the one-line summary used by list views.
func (p *printer) noteHeader(note models.Note) string {
	return fmt.Sprintf("%s %s %s",
		p.labelStyle.Render(fmt.Sprintf("#%d", note.ID)),
		p.titleStyle.Render(note.Title),
		p.labelStyle.Render(note.Date),
	)
}

func (p *printer) notes(notes []models.Note) {
	if len(notes) == 0 {
		p.line("no notes")
		return
	}
	for _, note := range notes {
		p.line("%s", p.noteHeader(note))
	}
}

func (p *printer) note(note models.Note) {
	var b strings.Builder
	b.WriteString(note.Description)
	for _, kind := range models.AttachmentKinds {
		if u := note.AttachmentURL(kind); u != nil {
			fmt.Fprintf(&b, "\n%s %s", p.labelStyle.Render(string(kind)+":"), *u)
		}
	}

	p.line("%s", p.noteHeader(note))
	p.line("%s", p.detailStyle.Render(b.String()))
}

func (p *printer) user(user models.User) {
	p.line("%s %s", p.titleStyle.Render(user.Username), p.labelStyle.Render(string(user.Role)))
	fields := []struct{ label, value string }{
		{"email", user.Email},
		{"name", user.FullName},
		{"phone", user.PhoneNumber},
		{"address", user.Address},
		{"bio", user.Bio},
	}
	for _, f := range fields {
		if f.value != "" {
			p.line("  %s %s", p.labelStyle.Render(f.label+":"), f.value)
		}
	}
}
