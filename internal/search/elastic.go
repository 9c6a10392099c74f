package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/Skotchmaster/technotes/internal/models"
)

const noteMapping = `{
  "mappings": {
    "properties": {
      "id":        {"type": "keyword"},
      "user":      {"type": "keyword"},
      "title":     {"type": "text"},
      "text":      {"type": "text"},
      "ticket":    {"type": "long"},
      "completed": {"type": "boolean"}
    }
  }
}`

type noteDoc struct {
	ID        string `json:"id"`
	UserID    string `json:"user"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Ticket    int64  `json:"ticket"`
	Completed bool   `json:"completed"`
}

func NewClient(ctx context.Context, url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch info: %s", res.Status())
	}
	return client, nil
}

type ElasticIndex struct {
	Client *elasticsearch.Client
	Index  string
}

// EnsureIndex creates the notes index with its mapping when it does not exist yet.
func (e *ElasticIndex) EnsureIndex(ctx context.Context) error {
	res, err := e.Client.Indices.Exists([]string{e.Index}, e.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("index exists: %s", res.Status())
	}

	res, err = e.Client.Indices.Create(e.Index,
		e.Client.Indices.Create.WithContext(ctx),
		e.Client.Indices.Create.WithBody(strings.NewReader(noteMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index: %s", errorBody(res.Status(), res.Body))
	}
	return nil
}

func (e *ElasticIndex) IndexNote(ctx context.Context, note *models.Note) error {
	doc := noteDoc{
		ID:        note.ID.String(),
		UserID:    note.UserID.String(),
		Title:     note.Title,
		Text:      note.Text,
		Ticket:    note.Ticket,
		Completed: note.Completed,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("encode note: %w", err)
	}

	res, err := e.Client.Index(e.Index, &buf,
		e.Client.Index.WithContext(ctx),
		e.Client.Index.WithDocumentID(doc.ID),
		e.Client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("index note: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index note: %s", errorBody(res.Status(), res.Body))
	}
	return nil
}

func (e *ElasticIndex) DeleteNote(ctx context.Context, id uuid.UUID) error {
	res, err := e.Client.Delete(e.Index, id.String(),
		e.Client.Delete.WithContext(ctx),
		e.Client.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete note: %s", errorBody(res.Status(), res.Body))
	}
	return nil
}

func (e *ElasticIndex) Search(ctx context.Context, query string, offset, limit int) (int64, []uuid.UUID, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "text"},
				"fuzziness": "AUTO",
			},
		},
		"from": offset,
		"size": limit,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := e.Client.Search(
		e.Client.Search.WithContext(ctx),
		e.Client.Search.WithIndex(e.Index),
		e.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", errorBody(res.Status(), res.Body))
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return r.Hits.Total.Value, ids, nil
}

func errorBody(status string, body io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(body, 512))
	if len(b) == 0 {
		return status
	}
	return status + ": " + string(b)
}
