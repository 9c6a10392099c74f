package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/technotes/pkg/logging"
	"github.com/Skotchmaster/technotes/pkg/tokens"
)

const (
	ContextKeyToken    = "user"
	ContextKeyUsername = "username"
	ContextKeyRoles    = "roles"
)

// RequireAccessToken guards a route group with "Authorization: Bearer <access token>".
// A missing or malformed header answers 401, a token that does not verify answers 403.
func RequireAccessToken(secret []byte) echo.MiddlewareFunc {
	guard := echojwt.WithConfig(echojwt.Config{
		SigningKey:    secret,
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		ContextKey:    ContextKeyToken,
		TokenLookup:   "header:Authorization:Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(tokens.AccessClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			l := logging.FromContext(c.Request().Context())
			if !hasBearer(c.Request()) {
				l.Warn("auth_failed", "status", 401, "reason", "missing bearer token")
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			l.Warn("auth_failed", "status", 403, "reason", "invalid access token", "error", err)
			return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return guard(func(c echo.Context) error {
			claims, ok := ClaimsFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
			}
			c.Set(ContextKeyUsername, claims.UserInfo.Username)
			c.Set(ContextKeyRoles, claims.UserInfo.Roles)

			l := logging.FromContext(c.Request().Context()).With("user", claims.UserInfo.Username)
			c.SetRequest(c.Request().WithContext(logging.IntoContext(c.Request().Context(), l)))
			return next(c)
		})
	}
}

func ClaimsFromContext(c echo.Context) (*tokens.AccessClaims, bool) {
	token, ok := c.Get(ContextKeyToken).(*jwt.Token)
	if !ok || token == nil {
		return nil, false
	}
	claims, ok := token.Claims.(*tokens.AccessClaims)
	return claims, ok
}

// hasBearer matches the scheme case-insensitively, like echo-jwt's header lookup.
func hasBearer(r *http.Request) bool {
	const prefix = "Bearer "
	h := r.Header.Get(echo.HeaderAuthorization)
	return len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) && strings.TrimSpace(h[len(prefix):]) != ""
}
