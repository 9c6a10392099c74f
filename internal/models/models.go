package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"                 json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"       json:"username"`
	PasswordHash string    `gorm:"not null"                   json:"-"`
	Roles        []string  `gorm:"serializer:json;not null"   json:"roles"`
	Active       bool      `gorm:"not null"                   json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Note struct {
	ID        uuid.UUID `gorm:"primaryKey"                 json:"id"`
	UserID    uuid.UUID `gorm:"index;not null"             json:"user"`
	Title     string    `gorm:"uniqueIndex;not null"       json:"title"`
	Text      string    `gorm:"not null"                   json:"text"`
	Ticket    int64     `gorm:"uniqueIndex;not null"       json:"ticket"`
	Completed bool      `gorm:"not null"                   json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Counter is the single row backing note tickets.
type Counter struct {
	ID    uint  `gorm:"primaryKey;autoIncrement:false"`
	Count int64 `gorm:"not null"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func (User) TableName() string    { return "users" }
func (Note) TableName() string    { return "notes" }
func (Counter) TableName() string { return "counters" }

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Note{}, &Counter{})
}
