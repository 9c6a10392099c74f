package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/technotes/internal/service"
	"github.com/Skotchmaster/technotes/internal/transport"
	"github.com/Skotchmaster/technotes/pkg/logging"
)

type UsersHTTP struct {
	Svc *service.UserService
}

func (h *UsersHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.get_users")

	users, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "get_users_failed", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UsersHTTP) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.create_user")

	var req transport.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_user_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	msg, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_user_failed", err)
	}
	return c.JSON(http.StatusCreated, transport.MessageResponse{Message: msg})
}

func (h *UsersHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.update_user")

	var req transport.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_user_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	msg, err := h.Svc.Update(ctx, req)
	if err != nil {
		return fail(l, "update_user_failed", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: msg})
}

func (h *UsersHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.delete_user")

	var req transport.DeleteRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("delete_user_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	msg, err := h.Svc.Delete(ctx, req)
	if err != nil {
		return fail(l, "delete_user_failed", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: msg})
}
