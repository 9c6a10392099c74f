package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/technotes/internal/models"
	pkgdb "github.com/Skotchmaster/technotes/pkg/db"
	"github.com/Skotchmaster/technotes/pkg/hash"
)

// NewDB returns a migrated in-memory sqlite store closed at test cleanup.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := pkgdb.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = pkgdb.Close(db) })
	return db
}

type UserBuilder struct {
	username string
	password string
	roles    []string
	inactive bool
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		username: "user_" + uuid.NewString()[:8],
		password: "testpassword123",
		roles:    []string{"Employee"},
	}
}

func (b *UserBuilder) WithUsername(name string) *UserBuilder {
	b.username = name
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithRoles(roles ...string) *UserBuilder {
	b.roles = roles
	return b
}

func (b *UserBuilder) Inactive() *UserBuilder {
	b.inactive = true
	return b
}

// Build stores the user and returns it with the raw password.
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*models.User, string) {
	t.Helper()

	pw, err := hash.HashPassword(b.password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &models.User{
		Username:     b.username,
		PasswordHash: pw,
		Roles:        b.roles,
		Active:       !b.inactive,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u, b.password
}

// CreateNote stores a note with an explicit ticket, bypassing the counter.
func CreateNote(t *testing.T, db *gorm.DB, owner *models.User, title string, ticket int64) *models.Note {
	t.Helper()

	n := &models.Note{UserID: owner.ID, Title: title, Text: "text of " + title, Ticket: ticket}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("create note: %v", err)
	}
	return n
}
