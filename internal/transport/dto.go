package transport

import (
	"time"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CreateUserRequest struct {
	Username string   `json:"username" validate:"required"`
	Password string   `json:"password" validate:"required"`
	Roles    []string `json:"roles"    validate:"required,min=1,dive,required"`
}

type UpdateUserRequest struct {
	ID       string   `json:"id"       validate:"required,uuid"`
	Username string   `json:"username" validate:"required"`
	Roles    []string `json:"roles"    validate:"required,min=1,dive,required"`
	Active   *bool    `json:"active"   validate:"required"`
	Password string   `json:"password"`
}

type DeleteRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Roles    []string  `json:"roles"`
	Active   bool      `json:"active"`
}

type CreateNoteRequest struct {
	User  string `json:"user"  validate:"required,uuid"`
	Title string `json:"title" validate:"required"`
	Text  string `json:"text"  validate:"required"`
}

type UpdateNoteRequest struct {
	ID        string `json:"id"        validate:"required,uuid"`
	User      string `json:"user"      validate:"required,uuid"`
	Title     string `json:"title"     validate:"required"`
	Text      string `json:"text"      validate:"required"`
	Completed *bool  `json:"completed" validate:"required"`
}

type NoteResponse struct {
	ID        uuid.UUID `json:"id"`
	User      uuid.UUID `json:"user"`
	Username  string    `json:"username"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Ticket    int64     `json:"ticket"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NoteSearchResponse struct {
	Total int64          `json:"total"`
	Notes []NoteResponse `json:"notes"`
}
