package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/technotes/internal/service"
	"github.com/Skotchmaster/technotes/internal/transport"
	"github.com/Skotchmaster/technotes/internal/util"
	"github.com/Skotchmaster/technotes/pkg/logging"
)

type NotesHTTP struct {
	Svc *service.NoteService
}

func (h *NotesHTTP) GetNotes(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notes.get_notes")

	notes, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "get_notes_failed", err)
	}
	return c.JSON(http.StatusOK, notes)
}

func (h *NotesHTTP) SearchNotes(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notes.search_notes")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.Search(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return fail(l, "search_notes_failed", err)
	}
	l.Info("search_notes_success", "total", res.Total)
	return c.JSON(http.StatusOK, res)
}

func (h *NotesHTTP) CreateNote(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notes.create_note")

	var req transport.CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_note_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	msg, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_note_failed", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: msg})
}

func (h *NotesHTTP) UpdateNote(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notes.update_note")

	var req transport.UpdateNoteRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_note_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	msg, err := h.Svc.Update(ctx, req)
	if err != nil {
		return fail(l, "update_note_failed", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: msg})
}

func (h *NotesHTTP) DeleteNote(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notes.delete_note")

	var req transport.DeleteRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("delete_note_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	msg, err := h.Svc.Delete(ctx, req)
	if err != nil {
		return fail(l, "delete_note_failed", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: msg})
}
