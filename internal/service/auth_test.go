package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/technotes/internal/testutil"
	"github.com/Skotchmaster/technotes/pkg/tokens"
)

func TestAuthService_Login_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty username", username: "", password: "secret"},
		{name: "empty password", username: "user", password: ""},
		{name: "both empty"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := env.Auth.Login(ctx, tt.username, tt.password)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrValidation)
			assert.ErrorIs(t, err, ErrMissingCredentials)
		})
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	testutil.NewUserBuilder().WithUsername("dan").WithPassword("right").Build(t, env.Repo.DB)
	testutil.NewUserBuilder().WithUsername("gone").WithPassword("right").Inactive().Build(t, env.Repo.DB)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "unknown user", username: "nobody", password: "right", wantErr: ErrUserNotFound},
		{name: "inactive user is reported before password", username: "gone", password: "wrong", wantErr: ErrUserInactive},
		{name: "wrong password", username: "dan", password: "wrong", wantErr: ErrIncorrectPassword},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			res, err := env.Auth.Login(ctx, tt.username, tt.password)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
	assert.Empty(t, env.Events.types())
}

func TestAuthService_Login_IssuesTokens(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	user, pw := testutil.NewUserBuilder().WithUsername("dan").WithRoles("Employee", "Manager").Build(t, env.Repo.DB)

	res, err := env.Auth.Login(ctx, "dan", pw)
	require.NoError(t, err)

	access, err := env.Auth.Tokens.VerifyAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.UserInfo{Username: "dan", Roles: []string{"Employee", "Manager"}}, access.UserInfo)
	assert.WithinDuration(t, time.Now().Add(tokens.AccessTTL), res.AccessExp, 2*time.Second)

	refresh, err := env.Auth.Tokens.VerifyRefreshToken(res.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "dan", refresh.Username)
	assert.WithinDuration(t, time.Now().Add(tokens.RefreshTTL), res.RefreshExp, 2*time.Second)

	ev := env.Events.last()
	assert.Equal(t, "auth_events", ev.Topic)
	assert.Equal(t, "user_logged_in", ev.Event["type"])
	assert.Equal(t, user.ID.String(), ev.Key)
}

func TestAuthService_Refresh(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	_, pw := testutil.NewUserBuilder().WithUsername("dan").WithRoles("Admin").Build(t, env.Repo.DB)

	login, err := env.Auth.Login(ctx, "dan", pw)
	require.NoError(t, err)

	accessToken, err := env.Auth.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)

	fresh, err := env.Auth.Tokens.VerifyAccessToken(accessToken)
	require.NoError(t, err)
	original, err := env.Auth.Tokens.VerifyAccessToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, original.UserInfo, fresh.UserInfo)

	again, err := env.Auth.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err, "refresh token is reusable until it expires")
	assert.NotEmpty(t, again)
}

func TestAuthService_Refresh_Failures(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	ghost, _ := testutil.NewUserBuilder().WithUsername("ghost").Build(t, env.Repo.DB)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokens.RefreshClaims{
		Username:         "ghost",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
	}).SignedString(env.Auth.Tokens.RefreshSecret)
	require.NoError(t, err)

	accessAsRefresh, _, err := env.Auth.Tokens.IssueAccessToken(tokens.UserInfo{Username: "ghost"})
	require.NoError(t, err)

	ghostRefresh, _, err := env.Auth.Tokens.IssueRefreshToken("ghost")
	require.NoError(t, err)
	require.NoError(t, env.Repo.DeleteUser(ctx, ghost.ID))

	tests := []struct {
		name    string
		token   string
		wantErr error
		class   error
	}{
		{name: "no cookie", token: "", wantErr: ErrNoRefreshToken, class: ErrUnauthorized},
		{name: "garbage", token: "garbage", wantErr: ErrInvalidRefreshToken, class: ErrForbidden},
		{name: "expired", token: expired, wantErr: ErrInvalidRefreshToken, class: ErrForbidden},
		{name: "signed with access secret", token: accessAsRefresh, wantErr: ErrInvalidRefreshToken, class: ErrForbidden},
		{name: "user deleted", token: ghostRefresh, wantErr: ErrRefreshUserGone, class: ErrUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tok, err := env.Auth.Refresh(ctx, tt.token)
			assert.Empty(t, tok)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, tt.class)
		})
	}
}
