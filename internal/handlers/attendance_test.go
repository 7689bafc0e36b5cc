package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/attendance/internal/attendance"
	"github.com/nfrund/attendance/internal/handlers"
	"github.com/nfrund/attendance/internal/metrics"
	"github.com/nfrund/attendance/internal/middleware"
	"github.com/nfrund/attendance/internal/rendering"
	"github.com/nfrund/attendance/internal/view"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

// backendCall is one request received by the fake attendance backend.
type backendCall struct {
	Path    string
	Session string
	Body    map[string]string
	Cookies map[string]string
}

// fakeBackend is an httptest attendance API that answers with a fixed status and body.
type fakeBackend struct {
	*httptest.Server
	mu    sync.Mutex
	calls []backendCall
}

func newFakeBackend(t *testing.T, status int, body string) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	fb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := backendCall{Path: r.URL.Path, Session: r.URL.Query().Get("session"), Cookies: map[string]string{}}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &call.Body)
		for _, ck := range r.Cookies() {
			call.Cookies[ck.Name] = ck.Value
		}
		fb.mu.Lock()
		fb.calls = append(fb.calls, call)
		fb.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(fb.Close)
	return fb
}

func (fb *fakeBackend) Calls() []backendCall {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]backendCall(nil), fb.calls...)
}

func setupAttendanceTest(apiBaseURL string) *echo.Echo {
	e := echo.New()
	e.Validator = handlers.NewValidator()

	cookieStore := sessions.NewCookieStore([]byte(testSessionSecret))
	e.Use(session.Middleware(cookieStore))

	h := handlers.NewAttendanceHandler(
		attendance.NewClient(apiBaseURL, 2*time.Second),
		rendering.NewUniversalRenderer(),
		metrics.New(prometheus.NewRegistry()),
		"light",
	)
	e.GET(handlers.LoginPath, h.LoginGet)
	e.POST(handlers.LoginPath, h.LoginPost)
	e.GET(handlers.SuccessPath, h.SuccessGet)
	return e
}

func postLogin(e *echo.Echo, target string, form url.Values, headers map[string]string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

// assertFlashNotification decodes the flash session written by a response.
func assertFlashNotification(t *testing.T, rec *httptest.ResponseRecorder, key string, expected view.Notification) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}
	cookieStore := sessions.NewCookieStore([]byte(testSessionSecret))
	sess, err := cookieStore.Get(req, "flash-session")
	require.NoError(t, err)

	flashes := sess.Flashes(key)
	require.NotEmpty(t, flashes, "expected flash message but found none for key: %s", key)
	assert.Equal(t, expected, flashes[0])
}

func TestLoginGet(t *testing.T) {
	backend := newFakeBackend(t, http.StatusOK, `{}`)
	e := setupAttendanceTest(backend.URL)

	t.Run("missing session shows the URL error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, handlers.LoginPath, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Attendance session ID missing in URL.")
		assert.Contains(t, body, "Attendance session not found")
		assert.Empty(t, backend.Calls())
	})

	t.Run("session is shown in the header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, handlers.LoginPath+"?session=s-1", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Session: s-1")
		assert.Contains(t, body, `action="/attendance/login?session=s-1"`)
		assert.NotContains(t, body, `class="alert"`)
	})
}

func TestLoginPost_Validation(t *testing.T) {
	backend := newFakeBackend(t, http.StatusOK, `{}`)
	e := setupAttendanceTest(backend.URL)

	t.Run("missing session never calls the backend", func(t *testing.T) {
		rec := postLogin(e, handlers.LoginPath, url.Values{"email": {"a@b.com"}, "password": {"x"}}, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Attendance session ID missing.")
	})

	t.Run("empty email", func(t *testing.T) {
		rec := postLogin(e, handlers.LoginPath+"?session=s-1", url.Values{"email": {""}, "password": {"x"}}, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "All fields are required")
	})

	t.Run("empty password", func(t *testing.T) {
		rec := postLogin(e, handlers.LoginPath+"?session=s-1", url.Values{"email": {"a@b.com"}}, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "All fields are required")
	})

	t.Run("unknown intent is rejected", func(t *testing.T) {
		rec := postLogin(e, handlers.LoginPath+"?session=s-1", url.Values{"intent": {"delete"}}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	assert.Empty(t, backend.Calls())
}

func TestLoginPost_Success(t *testing.T) {
	backend := newFakeBackend(t, http.StatusOK, `{"username":"Alice"}`)
	e := setupAttendanceTest(backend.URL)

	rec := postLogin(e, handlers.LoginPath+"?session=s-1",
		url.Values{"email": {"a@b.com"}, "password": {"x"}, "intent": {"submit"}}, nil,
		&http.Cookie{Name: "api_token", Value: "browser-cred"},
		&http.Cookie{Name: view.ThemeCookieName, Value: "dark"},
		&http.Cookie{Name: view.FlashSessionName, Value: "flash"},
		&http.Cookie{Name: middleware.CSRFCookieName, Value: "csrf"},
	)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/attendance-success?session=s-1", rec.Header().Get(echo.HeaderLocation))

	calls := backend.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/attendance/check", calls[0].Path)
	assert.Equal(t, "s-1", calls[0].Session)
	assert.Equal(t, map[string]string{"email": "a@b.com", "password": "x"}, calls[0].Body)
	assert.Equal(t, "browser-cred", calls[0].Cookies["api_token"])
	assert.Equal(t, map[string]string{"api_token": "browser-cred"}, calls[0].Cookies)

	ck := findCookie(rec, handlers.AttendanceCookie)
	require.NotNil(t, ck)
	assert.Equal(t, "s-1", ck.Value)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), ck.Expires, time.Minute)

	assertFlashNotification(t, rec, "success", view.SuccessNotification("Attendance Recorded", "Welcome, Alice!"))

	t.Run("confirmation page shows the notification", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, rec.Header().Get(echo.HeaderLocation), nil)
		for _, c := range rec.Result().Cookies() {
			req.AddCookie(c)
		}
		page := httptest.NewRecorder()
		e.ServeHTTP(page, req)

		assert.Equal(t, http.StatusOK, page.Code)
		assert.Contains(t, page.Body.String(), "Welcome, Alice!")
		assert.Contains(t, page.Body.String(), "Session: s-1")
	})
}

func TestLoginPost_SuccessWithoutUsername(t *testing.T) {
	backend := newFakeBackend(t, http.StatusOK, `{}`)
	e := setupAttendanceTest(backend.URL)

	rec := postLogin(e, handlers.LoginPath+"?session=s-2", url.Values{"email": {"a@b.com"}, "password": {"x"}}, nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assertFlashNotification(t, rec, "success", view.SuccessNotification("Attendance Recorded", "Welcome, a@b.com!"))
}

func TestLoginPost_HTMXSuccessRedirects(t *testing.T) {
	backend := newFakeBackend(t, http.StatusOK, `{"username":"Alice"}`)
	e := setupAttendanceTest(backend.URL)

	rec := postLogin(e, handlers.LoginPath+"?session=s-1", url.Values{"email": {"a@b.com"}, "password": {"x"}},
		map[string]string{"HX-Request": "true"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/attendance-success?session=s-1", rec.Header().Get("HX-Redirect"))
}

func TestLoginPost_Failure(t *testing.T) {
	t.Run("server message is shown inline and as a notification", func(t *testing.T) {
		backend := newFakeBackend(t, http.StatusUnauthorized, `{"message":"Invalid credentials"}`)
		e := setupAttendanceTest(backend.URL)

		rec := postLogin(e, handlers.LoginPath+"?session=s-1", url.Values{"email": {"a@b.com"}, "password": {"x"}}, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `<div class="alert" role="alert">Invalid credentials</div>`)
		assert.Contains(t, body, "<strong>Attendance Failed</strong><span>Invalid credentials</span>")
		assert.Nil(t, findCookie(rec, handlers.AttendanceCookie))
		assert.Empty(t, rec.Header().Get(echo.HeaderLocation))
		assert.Len(t, backend.Calls(), 1)
	})

	t.Run("unreachable backend uses the fallback message", func(t *testing.T) {
		backend := newFakeBackend(t, http.StatusOK, `{}`)
		backend.Close()
		e := setupAttendanceTest(backend.URL)

		rec := postLogin(e, handlers.LoginPath+"?session=s-1", url.Values{"email": {"a@b.com"}, "password": {"x"}}, nil)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "Network error. Please try again.")
		assert.Nil(t, findCookie(rec, handlers.AttendanceCookie))
	})

	t.Run("htmx failure swaps the form and the notification area", func(t *testing.T) {
		backend := newFakeBackend(t, http.StatusForbidden, `{"message":"Session closed"}`)
		e := setupAttendanceTest(backend.URL)

		rec := postLogin(e, handlers.LoginPath+"?session=s-1", url.Values{"email": {"a@b.com"}, "password": {"x"}},
			map[string]string{"HX-Request": "true"})

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.True(t, strings.HasPrefix(body, `<form id="attendance-form"`), body)
		assert.Contains(t, body, `hx-swap-oob="true"`)
		assert.Contains(t, body, "Session closed")
		assert.NotContains(t, body, "<html")
	})
}

func TestLoginPost_FailureLogOmitsEmail(t *testing.T) {
	var buf bytes.Buffer
	original := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(original)

	backend := newFakeBackend(t, http.StatusUnauthorized, `{"message":"Invalid credentials"}`)
	e := setupAttendanceTest(backend.URL)

	rec := postLogin(e, handlers.LoginPath+"?session=s-1", url.Values{"email": {"alice@example.com"}, "password": {"x"}}, nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	logs := buf.String()
	assert.Contains(t, logs, "Attendance check failed")
	assert.Contains(t, logs, "session=s-1")
	assert.NotContains(t, logs, "alice@example.com")
}

func TestLoginPost_TogglePassword(t *testing.T) {
	backend := newFakeBackend(t, http.StatusOK, `{}`)
	e := setupAttendanceTest(backend.URL)

	form := url.Values{"email": {"a@b.com"}, "password": {"x"}, "intent": {"toggle-password"}, "show_password": {"false"}}
	rec := postLogin(e, handlers.LoginPath+"?session=s-1", form, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="password" type="text"`)
	assert.Contains(t, rec.Body.String(), `name="show_password" value="true"`)

	form.Set("show_password", "true")
	rec = postLogin(e, handlers.LoginPath+"?session=s-1", form, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="password" type="password"`)

	assert.Empty(t, backend.Calls())
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "/attendance/login", handlers.LoginURL(""))
	assert.Equal(t, "/attendance/login?session=a%2Fb", handlers.LoginURL("a/b"))
	assert.Equal(t, "/attendance-success?session=s-1", handlers.SuccessURL("s-1"))
}
