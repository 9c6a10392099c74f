package httpserver

import (
	"net/http"
	"time"

	"github.com/Skotchmaster/technotes/pkg/tokens"
)

const RefreshCookieName = "jwt"

func CreateRefreshCookie(value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		MaxAge:   int(tokens.RefreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

// DeleteRefreshCookie carries the same attributes as the issued cookie so browsers drop it.
func DeleteRefreshCookie() *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}
