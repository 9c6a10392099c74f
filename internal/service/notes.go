package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/technotes/internal/events"
	"github.com/Skotchmaster/technotes/internal/models"
	"github.com/Skotchmaster/technotes/internal/repo"
	"github.com/Skotchmaster/technotes/internal/search"
	"github.com/Skotchmaster/technotes/internal/transport"
	"github.com/Skotchmaster/technotes/internal/util"
	"github.com/Skotchmaster/technotes/pkg/logging"
)

type NoteService struct {
	Repo     *repo.GormRepo
	Index    search.Index
	Validate *validator.Validate
	Events   events.Publisher
}

// withUsernames resolves each note's owner in one lookup.
func (s *NoteService) withUsernames(ctx context.Context, notes []models.Note) ([]transport.NoteResponse, error) {
	seen := make(map[uuid.UUID]bool, len(notes))
	ids := make([]uuid.UUID, 0, len(notes))
	for _, n := range notes {
		if !seen[n.UserID] {
			seen[n.UserID] = true
			ids = append(ids, n.UserID)
		}
	}
	users, err := s.Repo.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find note owners: %w", err)
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	out := make([]transport.NoteResponse, len(notes))
	for i, n := range notes {
		out[i] = transport.NoteResponse{
			ID:        n.ID,
			User:      n.UserID,
			Username:  names[n.UserID],
			Title:     n.Title,
			Text:      n.Text,
			Ticket:    n.Ticket,
			Completed: n.Completed,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
		}
	}
	return out, nil
}

func (s *NoteService) List(ctx context.Context) ([]transport.NoteResponse, error) {
	notes, err := s.Repo.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if len(notes) == 0 {
		return nil, ErrNoNotes
	}
	return s.withUsernames(ctx, notes)
}

func (s *NoteService) Create(ctx context.Context, req transport.CreateNoteRequest) (string, error) {
	l := logging.FromContext(ctx).With("svc", "notes.create", "title", req.Title)

	if err := check(s.Validate, req, ErrNoteFieldsMissing); err != nil {
		return "", err
	}
	userID := uuid.MustParse(req.User)

	taken, err := s.Repo.TitleTaken(ctx, req.Title, uuid.Nil)
	if err != nil {
		return "", fmt.Errorf("check title: %w", err)
	}
	if taken {
		return "", ErrDuplicateTitle
	}

	owner, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoteUserMissing
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	note := &models.Note{UserID: owner.ID, Title: req.Title, Text: req.Text}
	if err := s.Repo.CreateNote(ctx, note); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrDuplicateTitle
		}
		return "", fmt.Errorf("create note: %w", err)
	}

	s.index(ctx, note)
	publish(ctx, s.Events, events.TopicNotes, note.ID.String(), map[string]any{
		"type":   "note_created",
		"noteID": note.ID.String(),
		"userID": owner.ID.String(),
		"title":  note.Title,
		"ticket": note.Ticket,
	})
	l.Info("note_created", "note_id", note.ID, "ticket", note.Ticket)
	return fmt.Sprintf("new note %s created by user %s", note.Title, owner.ID), nil
}

func (s *NoteService) Update(ctx context.Context, req transport.UpdateNoteRequest) (string, error) {
	l := logging.FromContext(ctx).With("svc", "notes.update", "note_id", req.ID)

	if err := check(s.Validate, req, ErrNoteFieldsMissing); err != nil {
		return "", err
	}
	id := uuid.MustParse(req.ID)
	userID := uuid.MustParse(req.User)

	note, err := s.Repo.FindNoteByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoteNotFound
		}
		return "", fmt.Errorf("find note: %w", err)
	}

	if _, err := s.Repo.FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoteUserMissing
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	taken, err := s.Repo.TitleTaken(ctx, req.Title, id)
	if err != nil {
		return "", fmt.Errorf("check title: %w", err)
	}
	if taken {
		return "", ErrDuplicateTitle
	}

	note.UserID = userID
	note.Title = req.Title
	note.Text = req.Text
	note.Completed = *req.Completed
	if err := s.Repo.SaveNote(ctx, note); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrDuplicateTitle
		}
		return "", fmt.Errorf("save note: %w", err)
	}

	s.index(ctx, note)
	publish(ctx, s.Events, events.TopicNotes, note.ID.String(), map[string]any{
		"type":      "note_updated",
		"noteID":    note.ID.String(),
		"userID":    note.UserID.String(),
		"title":     note.Title,
		"ticket":    note.Ticket,
		"completed": note.Completed,
	})
	l.Info("note_updated")
	return fmt.Sprintf("note %s updated", note.Title), nil
}

func (s *NoteService) Delete(ctx context.Context, req transport.DeleteRequest) (string, error) {
	l := logging.FromContext(ctx).With("svc", "notes.delete", "note_id", req.ID)

	if err := check(s.Validate, req, ErrNoteIDRequired); err != nil {
		return "", err
	}
	id := uuid.MustParse(req.ID)

	note, err := s.Repo.FindNoteByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoteNotFound
		}
		return "", fmt.Errorf("find note: %w", err)
	}

	if err := s.Repo.DeleteNote(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoteNotFound
		}
		return "", fmt.Errorf("delete note: %w", err)
	}

	if s.Index != nil {
		if err := s.Index.DeleteNote(ctx, id); err != nil {
			l.Error("unindex_failed", "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicNotes, note.ID.String(), map[string]any{
		"type":   "note_deleted",
		"noteID": note.ID.String(),
		"ticket": note.Ticket,
	})
	l.Info("note_deleted")
	return fmt.Sprintf("note %s with id %s deleted", note.Title, note.ID), nil
}

// Search pages through notes matching query, owners resolved.
func (s *NoteService) Search(ctx context.Context, query string, page, size int) (*transport.NoteSearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrSearchQueryEmpty
	}
	offset, limit := util.Calculate(page, size)

	idx := s.Index
	if idx == nil {
		idx = search.StoreIndex{Store: s.Repo}
	}
	total, ids, err := idx.Search(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	notes, err := s.Repo.FindNotesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	out, err := s.withUsernames(ctx, notes)
	if err != nil {
		return nil, err
	}
	return &transport.NoteSearchResponse{Total: total, Notes: out}, nil
}

func (s *NoteService) index(ctx context.Context, note *models.Note) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexNote(ctx, note); err != nil {
		logging.FromContext(ctx).Error("index_failed", "note_id", note.ID, "error", err)
	}
}
