package middleware

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/attendance/internal/view"
	"github.com/nfrund/attendance/web/src/templates/components"
)

const (
	// CSRFFieldName is the hidden form field carrying the token.
	CSRFFieldName = "csrf_token"
	// CSRFCookieName is the cookie holding the masked token secret.
	CSRFCookieName = "_csrf"

	csrfExpiredText = "Your session has expired or the security token is invalid. Please refresh the page and try again."
)

// CSRF protects the HTML form routes with gorilla/csrf. The 32-byte key is
// derived from the session secret; secure marks the token cookie Secure.
func CSRF(secret string, secure bool) echo.MiddlewareFunc {
	key := sha256.Sum256([]byte("csrf:" + secret))
	protect := csrf.Protect(
		key[:],
		csrf.Path("/"),
		csrf.FieldName(CSRFFieldName),
		csrf.CookieName(CSRFCookieName),
		csrf.RequestHeader("X-CSRF-Token"), // For HTMX requests
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Secure(secure),
		csrf.ErrorHandler(http.HandlerFunc(CSRFFailureHandler)),
	)

	return echo.WrapMiddleware(func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// gorilla/csrf assumes HTTPS and enforces Referer checks unless told otherwise.
			if r.TLS == nil && r.Header.Get("X-Forwarded-Proto") != "https" {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	})
}

// CSRFToken returns the token for the current request, or "" when the
// middleware is not installed.
func CSRFToken(c echo.Context) string {
	return csrf.Token(c.Request())
}

// CSRFFailureHandler provides HTMX-aware error handling for CSRF failures.
func CSRFFailureHandler(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		// htmx only swaps 2xx bodies, so the toast goes out as 200 and is
		// retargeted to the notification area.
		w.Header().Set("HX-Retarget", "#"+components.NotificationAreaID)
		w.Header().Set("HX-Reswap", "innerHTML")
		w.WriteHeader(http.StatusOK)
		_ = components.Notification(view.ErrorNotification("Security Error", csrfExpiredText)).Render(w)
		return
	}

	http.Error(w, "CSRF token validation failed. Please refresh the page and try again.", http.StatusForbidden)
}
