// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchNotesQuery_Placeholders(t *testing.T) {
	tests := []struct {
		name     string
		format   sq.PlaceholderFormat
		query    string
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "postgres numeric",
			format:   sq.Dollar,
			query:    " 12 ",
			wantSQL:  `SELECT id, owner, title, description, date, image_url, audio_url, video_url FROM notes WHERE (owner = $1 AND (LOWER(title) LIKE $2 ESCAPE '!' OR LOWER(description) LIKE $3 ESCAPE '!' OR id = $4)) ORDER BY id`,
			wantArgs: []any{"alice", "% 12 %", "% 12 %", int64(12)},
		},
		{
			name:     "escape character itself",
			format:   sq.Question,
			query:    "100%!",
			wantSQL:  `SELECT id, owner, title, description, date, image_url, audio_url, video_url FROM notes WHERE (owner = ? AND (LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!')) ORDER BY id`,
			wantArgs: []any{"alice", `%100!%!!%`, `%100!%!!%`},
		},
		{
			name:     "sqlite text",
			format:   sq.Question,
			query:    "Trip_",
			wantSQL:  `SELECT id, owner, title, description, date, image_url, audio_url, video_url FROM notes WHERE (owner = ? AND (LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!')) ORDER BY id`,
			wantArgs: []any{"alice", `%trip!_%`, `%trip!_%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildSearchNotesQuery(sq.StatementBuilder.PlaceholderFormat(tt.format), "alice", tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildDeleteNoteQuery_OwnerScoped(t *testing.T) {
	query, args, err := buildDeleteNoteQuery(sq.StatementBuilder.PlaceholderFormat(sq.Dollar), "bob", 3)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM notes WHERE id = $1 AND owner = $2", query)
	assert.Equal(t, []any{int64(3), "bob"}, args)
}
