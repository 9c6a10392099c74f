// Package search indexes notes for full-text lookup.
package search

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/technotes/internal/models"
)

// Index keeps a searchable copy of notes. Search returns note ids best match first.
type Index interface {
	IndexNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, offset, limit int) (int64, []uuid.UUID, error)
}

type NoteSearcher interface {
	SearchNotes(ctx context.Context, query string, offset, limit int) (int64, []models.Note, error)
}

// StoreIndex answers searches straight from the note store; writes are no-ops.
type StoreIndex struct {
	Store NoteSearcher
}

func (StoreIndex) IndexNote(context.Context, *models.Note) error { return nil }
func (StoreIndex) DeleteNote(context.Context, uuid.UUID) error    { return nil }

func (s StoreIndex) Search(ctx context.Context, query string, offset, limit int) (int64, []uuid.UUID, error) {
	total, notes, err := s.Store.SearchNotes(ctx, query, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	ids := make([]uuid.UUID, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	return total, ids, nil
}
