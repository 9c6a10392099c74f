package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/Skotchmaster/technotes/internal/events"
	"github.com/Skotchmaster/technotes/internal/repo"
	"github.com/Skotchmaster/technotes/internal/transport"
	"github.com/Skotchmaster/technotes/pkg/hash"
	"github.com/Skotchmaster/technotes/pkg/logging"
	"github.com/Skotchmaster/technotes/pkg/tokens"
)

type AuthService struct {
	Repo     *repo.GormRepo
	Tokens   *tokens.Issuer
	Validate *validator.Validate
	Events   events.Publisher
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

// Login checks presence, existence, activity and password in that order.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	req := transport.LoginRequest{Username: username, Password: password}
	if err := check(s.Validate, req, ErrMissingCredentials); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "missing credentials")
		return nil, err
	}

	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "user does not exist")
			return nil, ErrUserNotFound
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.Active {
		l.Warn("login_failed", "status", 401, "reason", "user is not active")
		return nil, ErrUserInactive
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "incorrect password")
		return nil, ErrIncorrectPassword
	}

	accessToken, accessExp, err := s.Tokens.IssueAccessToken(tokens.UserInfo{Username: user.Username, Roles: user.Roles})
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign access token", "error", err)
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, refreshExp, err := s.Tokens.IssueRefreshToken(user.Username)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign refresh token", "error", err)
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	publish(ctx, s.Events, events.TopicAuth, user.ID.String(), map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID.String(),
		"username": user.Username,
	})

	l.Info("login_successful")
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

// Refresh mints a new access token from a refresh token. The refresh token
// itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if refreshToken == "" {
		l.Warn("refresh_failed", "status", 401, "reason", "no refresh cookie")
		return "", ErrNoRefreshToken
	}

	claims, err := s.Tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		reason := "invalid refresh token"
		if errors.Is(err, tokens.ErrTokenExpired) {
			reason = "expired refresh token"
		}
		l.Warn("refresh_failed", "status", 403, "reason", reason, "error", err)
		return "", ErrInvalidRefreshToken
	}

	user, err := s.Repo.FindUserByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "user no longer exists", "username", claims.Username)
			return "", ErrRefreshUserGone
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return "", fmt.Errorf("find user: %w", err)
	}

	accessToken, _, err := s.Tokens.IssueAccessToken(tokens.UserInfo{Username: user.Username, Roles: user.Roles})
	if err != nil {
		l.Error("refresh_failed", "status", 500, "reason", "cannot sign access token", "error", err)
		return "", fmt.Errorf("sign access token: %w", err)
	}

	l.Info("refresh_successful", "username", user.Username)
	return accessToken, nil
}
