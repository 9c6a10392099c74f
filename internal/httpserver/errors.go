package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/technotes/internal/service"
	"github.com/Skotchmaster/technotes/pkg/logging"
)

// fail logs a service error under event and turns it into an HTTP error.
func fail(l *slog.Logger, event string, err error) error {
	code := service.Status(err)
	msg := service.Message(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "error", err)
		return echo.NewHTTPError(code, msg).SetInternal(err)
	}
	l.Warn(event, "status", code, "reason", msg)
	return echo.NewHTTPError(code, msg)
}

// ErrorHandler renders every failure as {"message": ...}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		default:
			msg = fmt.Sprint(m)
		}
		if code >= http.StatusInternalServerError {
			msg = "internal server error"
		}
	} else {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "error", err)
	}

	if code == http.StatusNotFound && errors.Is(err, echo.ErrNotFound) {
		_ = NotFound(c)
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, echo.Map{"message": msg})
}

const notFoundPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>404 Not Found</title></head>
<body><h1>404 Not Found</h1><p>The page you are looking for does not exist.</p></body>
</html>`

// NotFound answers unknown routes in the representation the client asked for,
// preferring HTML whenever the client accepts it.
func NotFound(c echo.Context) error {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	switch {
	case accepts(accept, echo.MIMETextHTML):
		return c.HTML(http.StatusNotFound, notFoundPage)
	case accepts(accept, echo.MIMEApplicationJSON):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "404 Not Found"})
	default:
		return c.String(http.StatusNotFound, "404 Not Found")
	}
}

// accepts reports whether an Accept header admits mime. An absent header admits anything.
func accepts(header, mime string) bool {
	if strings.TrimSpace(header) == "" {
		return true
	}
	kind, _, _ := strings.Cut(mime, "/")
	for _, part := range strings.Split(header, ",") {
		r, _, _ := strings.Cut(part, ";")
		switch strings.ToLower(strings.TrimSpace(r)) {
		case mime, kind + "/*", "*/*":
			return true
		}
	}
	return false
}
