package service

import (
	"errors"
	"net/http"
)

var (
	ErrValidation   = errors.New("validation")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error is a failure a client may see. Its message is returned verbatim and
// it unwraps to one of the classes above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error { return &Error{Kind: kind, Message: msg} }

var (
	ErrMissingCredentials  = newError(ErrValidation, "all fields are required!")
	ErrUserNotFound        = newError(ErrUnauthorized, "user does not exist")
	ErrUserInactive        = newError(ErrUnauthorized, "user is not active")
	ErrIncorrectPassword   = newError(ErrUnauthorized, "incorrect password")
	ErrNoRefreshToken      = newError(ErrUnauthorized, "unauthorized")
	ErrInvalidRefreshToken = newError(ErrForbidden, "forbidden")
	ErrRefreshUserGone     = newError(ErrUnauthorized, "unauthorized")

	ErrNoUsers           = newError(ErrValidation, "No users found")
	ErrUserFieldsMissing = newError(ErrValidation, "All fields are required!")
	ErrDuplicateUsername = newError(ErrConflict, "Username already exists")
	ErrUsernameTaken     = newError(ErrConflict, "username already exists")
	ErrUpdateUserMissing = newError(ErrValidation, "User does not exist")
	ErrUserIDRequired    = newError(ErrValidation, "User ID required")
	ErrUserHasNotes      = newError(ErrValidation, "User has assigned notes")
	ErrDeleteUserMissing = newError(ErrNotFound, "User not found")

	ErrNoNotes           = newError(ErrNotFound, "notes not found")
	ErrNoteFieldsMissing = newError(ErrValidation, "all fields are required!")
	ErrDuplicateTitle    = newError(ErrConflict, "title already exists")
	ErrNoteUserMissing   = newError(ErrValidation, "user not found")
	ErrNoteNotFound      = newError(ErrNotFound, "note not found")
	ErrNoteIDRequired    = newError(ErrValidation, "note id required")
	ErrSearchQueryEmpty  = newError(ErrValidation, "search query required")
)

// Status maps an error to its HTTP status; unclassified errors are 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing text for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
