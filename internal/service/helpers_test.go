package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/Skotchmaster/technotes/internal/models"
	"github.com/Skotchmaster/technotes/internal/repo"
	"github.com/Skotchmaster/technotes/internal/search"
	"github.com/Skotchmaster/technotes/internal/testutil"
	"github.com/Skotchmaster/technotes/pkg/tokens"
)

type publishedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, Key: key, Event: event.(map[string]any)})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i], _ = e.Event["type"].(string)
	}
	return out
}

func (p *recordingPublisher) last() publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

type recordingIndex struct {
	search.StoreIndex
	indexed []uuid.UUID
	deleted []uuid.UUID
}

func (r *recordingIndex) IndexNote(_ context.Context, n *models.Note) error {
	r.indexed = append(r.indexed, n.ID)
	return nil
}

func (r *recordingIndex) DeleteNote(_ context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	return nil
}

type testEnv struct {
	Repo   *repo.GormRepo
	Events *recordingPublisher
	Index  *recordingIndex
	Auth   *AuthService
	Users  *UserService
	Notes  *NoteService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := &repo.GormRepo{DB: testutil.NewDB(t)}
	pub := &recordingPublisher{}
	idx := &recordingIndex{StoreIndex: search.StoreIndex{Store: r}}
	v := NewValidator()

	return &testEnv{
		Repo:   r,
		Events: pub,
		Index:  idx,
		Auth: &AuthService{
			Repo:     r,
			Tokens:   tokens.NewIssuer([]byte("test-access-secret"), []byte("test-refresh-secret")),
			Validate: v,
			Events:   pub,
		},
		Users: &UserService{Repo: r, Validate: v, Events: pub},
		Notes: &NoteService{Repo: r, Index: idx, Validate: v, Events: pub},
	}
}

func boolPtr(b bool) *bool { return &b }
