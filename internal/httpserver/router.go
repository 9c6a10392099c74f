package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	middleware "github.com/Skotchmaster/technotes/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/technotes/pkg/middleware/logging"
	"github.com/Skotchmaster/technotes/pkg/middleware/ratelimit"
)

type Deps struct {
	AuthHandler  *AuthHTTP
	UsersHandler *UsersHTTP
	NotesHandler *NotesHTTP
	AccessSecret []byte
	LoginLimiter echo.MiddlewareFunc
	Ready        func(ctx context.Context) error
}

type Options struct {
	Logger      *slog.Logger
	LogLevel    string
	CORSOrigins []string
	StaticDir   string
	TrustProxy  bool
}

// New builds the echo instance with the shared middleware stack and all routes.
func New(opts Options, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(echoLogLevel(opts.LogLevel))
	e.HTTPErrorHandler = ErrorHandler
	// Client IPs come from the socket unless a trusted proxy sets X-Forwarded-For.
	if opts.TrustProxy {
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	} else {
		e.IPExtractor = echo.ExtractIPDirect()
	}

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	if opts.Logger != nil {
		e.Use(loggingmw.RequestLogger(opts.Logger))
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     opts.CORSOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	if opts.StaticDir != "" {
		e.Use(echomw.StaticWithConfig(echomw.StaticConfig{
			Root: opts.StaticDir,
			Skipper: func(c echo.Context) bool {
				m := c.Request().Method
				return m != http.MethodGet && m != http.MethodHead
			},
		}))
	}

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	limiter := d.LoginLimiter
	if limiter == nil {
		limiter = ratelimit.LoginLimiter(5, time.Minute)
	}

	auth := e.Group("/auth")
	auth.POST("", d.AuthHandler.Login, limiter)
	auth.GET("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.LogOut)

	authMW := middleware.RequireAccessToken(d.AccessSecret)

	users := e.Group("/users", authMW)
	users.GET("", d.UsersHandler.GetUsers)
	users.POST("", d.UsersHandler.CreateUser)
	users.PATCH("", d.UsersHandler.UpdateUser)
	users.DELETE("", d.UsersHandler.DeleteUser)

	notes := e.Group("/notes", authMW)
	notes.GET("", d.NotesHandler.GetNotes)
	notes.GET("/search", d.NotesHandler.SearchNotes)
	notes.POST("", d.NotesHandler.CreateNote)
	notes.PATCH("", d.NotesHandler.UpdateNote)
	notes.DELETE("", d.NotesHandler.DeleteNote)

	e.RouteNotFound("/*", NotFound)
}

func echoLogLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
