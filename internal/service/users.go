package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/technotes/internal/events"
	"github.com/Skotchmaster/technotes/internal/models"
	"github.com/Skotchmaster/technotes/internal/repo"
	"github.com/Skotchmaster/technotes/internal/transport"
	"github.com/Skotchmaster/technotes/pkg/hash"
	"github.com/Skotchmaster/technotes/pkg/logging"
)

type UserService struct {
	Repo     *repo.GormRepo
	Validate *validator.Validate
	Events   events.Publisher
}

func toUserResponse(u models.User) transport.UserResponse {
	return transport.UserResponse{ID: u.ID, Username: u.Username, Roles: u.Roles, Active: u.Active}
}

func (s *UserService) List(ctx context.Context) ([]transport.UserResponse, error) {
	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrNoUsers
	}
	out := make([]transport.UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out, nil
}

func (s *UserService) Create(ctx context.Context, req transport.CreateUserRequest) (string, error) {
	l := logging.FromContext(ctx).With("svc", "users.create", "username", req.Username)

	if err := check(s.Validate, req, ErrUserFieldsMissing); err != nil {
		return "", err
	}

	taken, err := s.Repo.UsernameTaken(ctx, req.Username, uuid.Nil)
	if err != nil {
		return "", fmt.Errorf("check username: %w", err)
	}
	if taken {
		return "", ErrDuplicateUsername
	}

	pw, err := hash.HashPassword(req.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: pw,
		Roles:        req.Roles,
		Active:       true,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrDuplicateUsername
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	publish(ctx, s.Events, events.TopicUsers, user.ID.String(), map[string]any{
		"type":     "user_created",
		"userID":   user.ID.String(),
		"username": user.Username,
		"roles":    user.Roles,
	})
	l.Info("user_created", "user_id", user.ID)
	return fmt.Sprintf("New user %s created", user.Username), nil
}

// Update replaces username, roles and active, and the password only when one is given.
func (s *UserService) Update(ctx context.Context, req transport.UpdateUserRequest) (string, error) {
	l := logging.FromContext(ctx).With("svc", "users.update", "user_id", req.ID)

	if err := check(s.Validate, req, ErrUserFieldsMissing); err != nil {
		return "", err
	}
	id := uuid.MustParse(req.ID)

	user, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUpdateUserMissing
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	taken, err := s.Repo.UsernameTaken(ctx, req.Username, id)
	if err != nil {
		return "", fmt.Errorf("check username: %w", err)
	}
	if taken {
		return "", ErrUsernameTaken
	}

	user.Username = req.Username
	user.Roles = req.Roles
	user.Active = *req.Active
	if req.Password != "" {
		pw, err := hash.HashPassword(req.Password)
		if err != nil {
			return "", fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = pw
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrUsernameTaken
		}
		return "", fmt.Errorf("save user: %w", err)
	}

	publish(ctx, s.Events, events.TopicUsers, user.ID.String(), map[string]any{
		"type":            "user_updated",
		"userID":          user.ID.String(),
		"username":        user.Username,
		"roles":           user.Roles,
		"active":          user.Active,
		"passwordChanged": req.Password != "",
	})
	l.Info("user_updated")
	return fmt.Sprintf("user %s updated", user.Username), nil
}

// Delete refuses while the user still owns notes.
func (s *UserService) Delete(ctx context.Context, req transport.DeleteRequest) (string, error) {
	l := logging.FromContext(ctx).With("svc", "users.delete", "user_id", req.ID)

	if err := check(s.Validate, req, ErrUserIDRequired); err != nil {
		return "", err
	}
	id := uuid.MustParse(req.ID)

	hasNotes, err := s.Repo.UserHasNotes(ctx, id)
	if err != nil {
		return "", fmt.Errorf("check notes: %w", err)
	}
	if hasNotes {
		return "", ErrUserHasNotes
	}

	user, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrDeleteUserMissing
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrDeleteUserMissing
		}
		return "", fmt.Errorf("delete user: %w", err)
	}

	publish(ctx, s.Events, events.TopicUsers, user.ID.String(), map[string]any{
		"type":     "user_deleted",
		"userID":   user.ID.String(),
		"username": user.Username,
	})
	l.Info("user_deleted")
	return fmt.Sprintf("Username %s with ID %s deleted", user.Username, user.ID), nil
}
