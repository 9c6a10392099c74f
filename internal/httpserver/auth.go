package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/technotes/internal/service"
	"github.com/Skotchmaster/technotes/internal/transport"
	"github.com/Skotchmaster/technotes/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	c.SetCookie(CreateRefreshCookie(res.RefreshToken, res.RefreshExp))
	return c.JSON(http.StatusOK, transport.AccessTokenResponse{AccessToken: res.AccessToken})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var token string
	if cookie, err := c.Cookie(RefreshCookieName); err == nil {
		token = cookie.Value
	}

	accessToken, err := h.Svc.Refresh(ctx, token)
	if err != nil {
		return fail(l, "refresh_failed", err)
	}
	return c.JSON(http.StatusOK, transport.AccessTokenResponse{AccessToken: accessToken})
}

// LogOut only clears the cookie; access tokens stay valid until they expire.
func (h *AuthHTTP) LogOut(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth_logout")

	if _, err := c.Cookie(RefreshCookieName); err != nil {
		return c.NoContent(http.StatusNoContent)
	}

	c.SetCookie(DeleteRefreshCookie())
	l.Info("successful_logout")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "cookie cleared"})
}
