package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/technotes/internal/models"
	"github.com/Skotchmaster/technotes/internal/ticket"
)

func (r *GormRepo) ListNotes(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	if err := r.DB.WithContext(ctx).Order("ticket ASC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *GormRepo) FindNoteByID(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	var note models.Note
	if err := r.DB.WithContext(ctx).Where("id = ?", id).Take(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// FindNotesByIDs keeps the order of ids and skips ids that no longer exist.
func (r *GormRepo) FindNotesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Note, error) {
	if len(ids) == 0 {
		return []models.Note{}, nil
	}
	var found []models.Note
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Note, len(found))
	for _, n := range found {
		byID[n.ID] = n
	}
	out := make([]models.Note, 0, len(found))
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *GormRepo) TitleTaken(ctx context.Context, title string, except uuid.UUID) (bool, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(&models.Note{}).Where("title = ?", title)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateNote assigns the next ticket and inserts the note in one transaction.
func (r *GormRepo) CreateNote(ctx context.Context, note *models.Note) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := ticket.Next(tx)
		if err != nil {
			return err
		}
		note.Ticket = seq
		return tx.Create(note).Error
	})
}

func (r *GormRepo) SaveNote(ctx context.Context, note *models.Note) error {
	return r.DB.WithContext(ctx).Save(note).Error
}

func (r *GormRepo) DeleteNote(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Note{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SearchNotes matches query against title and text case-insensitively, ordered by ticket.
func (r *GormRepo) SearchNotes(ctx context.Context, query string, offset, limit int) (int64, []models.Note, error) {
	pattern := "%" + strings.ToLower(escapeLike(query)) + "%"
	matching := func() *gorm.DB {
		return r.DB.WithContext(ctx).Model(&models.Note{}).
			Where("LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(text) LIKE ? ESCAPE '\\'", pattern, pattern)
	}

	var total int64
	if err := matching().Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var notes []models.Note
	if err := matching().Order("ticket ASC").Offset(offset).Limit(limit).Find(&notes).Error; err != nil {
		return 0, nil, err
	}
	return total, notes, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
