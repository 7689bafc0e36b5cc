package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/attendance/internal/attendance"
	"github.com/nfrund/attendance/internal/domain"
	"github.com/nfrund/attendance/internal/metrics"
	"github.com/nfrund/attendance/internal/middleware"
	"github.com/nfrund/attendance/internal/rendering"
	"github.com/nfrund/attendance/internal/view"
	dto "github.com/nfrund/attendance/internal/view/dto/attendance"
	"github.com/nfrund/attendance/web/src/templates/components"
	"github.com/nfrund/attendance/web/src/templates/layouts"
	"github.com/nfrund/attendance/web/src/templates/pages"
	g "maragu.dev/gomponents"
)

const (
	LoginPath   = "/attendance/login"
	SuccessPath = "/attendance-success"

	// AttendanceCookie holds the session id after a recorded check.
	AttendanceCookie = "attendanceSession"
)

// internalCookies are the app's own cookies; they are not forwarded to the
// attendance backend.
var internalCookies = map[string]bool{
	view.FlashSessionName:     true,
	view.ThemeCookieName:      true,
	middleware.CSRFCookieName: true,
}

// CheckRecorder counts attendance check outcomes.
type CheckRecorder interface {
	RecordCheck(outcome string)
}

// AttendanceHandler serves the attendance login form and its confirmation page.
type AttendanceHandler struct {
	checker      attendance.Checker
	renderer     rendering.Renderer
	recorder     CheckRecorder
	defaultTheme string
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(checker attendance.Checker, renderer rendering.Renderer, recorder CheckRecorder, defaultTheme string) *AttendanceHandler {
	return &AttendanceHandler{
		checker:      checker,
		renderer:     renderer,
		recorder:     recorder,
		defaultTheme: defaultTheme,
	}
}

// LoginGet renders the login form for the session named in the URL.
func (h *AttendanceHandler) LoginGet(c echo.Context) error {
	form := &attendance.Form{}
	form.ResolveSession(c.QueryParams())
	return h.renderLogin(c, http.StatusOK, form, view.GetFlashData(c).All())
}

// LoginPost handles the form submission: either a password visibility
// toggle or the attendance check itself.
func (h *AttendanceHandler) LoginPost(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}

	form := &attendance.Form{ShowPassword: req.ShowPassword}
	form.ResolveSession(c.QueryParams())
	form.SetEmail(req.Email)
	form.SetPassword(req.Password)

	if req.Intent == pages.IntentTogglePassword {
		form.TogglePassword()
		return h.renderLogin(c, http.StatusOK, form, nil)
	}

	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	result, err := form.Submit(ctx, h.checker, forwardedCookies(c.Request()))
	switch {
	case err == nil:
		h.recorder.RecordCheck(metrics.OutcomeSuccess)
		logger.Info("Attendance recorded", "session", form.SessionID)

		setAttendanceCookie(c, form.SessionID)
		view.SetFlashSuccess(c, "Attendance Recorded", fmt.Sprintf("Welcome, %s!", result.DisplayName(form.Credentials.Email)))
		return redirect(c, SuccessURL(form.SessionID))

	case errors.Is(err, domain.ErrAborted):
		// The client went away; nothing is written back.
		h.recorder.RecordCheck(metrics.OutcomeAborted)
		logger.Info("Attendance check abandoned", "session", form.SessionID, "error", err)
		return nil

	case errors.Is(err, domain.ErrMissingFields), errors.Is(err, domain.ErrMissingSession):
		h.recorder.RecordCheck(metrics.OutcomeInvalid)
		return h.renderLogin(c, formStatus(c, http.StatusUnprocessableEntity), form, nil)

	default:
		status, outcome := http.StatusBadGateway, metrics.OutcomeError
		var reqErr *attendance.RequestError
		if errors.As(err, &reqErr) {
			status, outcome = http.StatusUnprocessableEntity, metrics.OutcomeRejected
		}
		h.recorder.RecordCheck(outcome)
		logger.Warn("Attendance check failed", "session", form.SessionID, "error", err)

		note := view.ErrorNotification("Attendance Failed", form.Error)
		return h.renderLogin(c, formStatus(c, status), form, []view.Notification{note})
	}
}

// SuccessGet renders the confirmation page along with the welcome notification.
func (h *AttendanceHandler) SuccessGet(c echo.Context) error {
	sessionID := c.QueryParam(attendance.SessionParam)
	toasts := components.Notifications(view.GetFlashData(c).All())
	theme := view.ResolveTheme(c, h.defaultTheme)

	page := pages.AttendanceSuccess(dto.SuccessData{
		SessionID: sessionID,
		LoginURL:  LoginURL(sessionID),
	})
	return h.renderer.RenderPage(c, http.StatusOK, layouts.Base("Attendance Recorded", theme, toasts, page))
}

func (h *AttendanceHandler) renderLogin(c echo.Context, status int, form *attendance.Form, notes []view.Notification) error {
	data := dto.LoginData{
		SessionID:    form.SessionID,
		Email:        form.Credentials.Email,
		Password:     form.Credentials.Password,
		Error:        form.Error,
		PasswordType: form.PasswordInputType(),
		ShowPassword: form.ShowPassword,
		Loading:      form.Loading,
		Action:       LoginURL(form.SessionID),
		CSRFToken:    middleware.CSRFToken(c),
	}
	toasts := components.Notifications(notes)

	if isHTMX(c) {
		fragment := g.Group{pages.AttendanceLoginForm(data), components.NotificationArea(true, toasts...)}
		return h.renderer.RenderPage(c, status, fragment)
	}

	theme := view.ResolveTheme(c, h.defaultTheme)
	return h.renderer.RenderPage(c, status, layouts.Base("Attendance Login", theme, toasts, pages.AttendanceLogin(data)))
}

// LoginURL is the login route for a session; without a session it is the bare route.
func LoginURL(sessionID string) string {
	if sessionID == "" {
		return LoginPath
	}
	return LoginPath + "?" + url.Values{attendance.SessionParam: {sessionID}}.Encode()
}

// SuccessURL is the confirmation route for a session.
func SuccessURL(sessionID string) string {
	return SuccessPath + "?" + url.Values{attendance.SessionParam: {sessionID}}.Encode()
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// formStatus keeps htmx responses at 200, since htmx only swaps 2xx bodies.
func formStatus(c echo.Context, status int) int {
	if isHTMX(c) {
		return http.StatusOK
	}
	return status
}

func redirect(c echo.Context, target string) error {
	if isHTMX(c) {
		c.Response().Header().Set("HX-Redirect", target)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, target)
}

func forwardedCookies(r *http.Request) []*http.Cookie {
	var out []*http.Cookie
	for _, ck := range r.Cookies() {
		if !internalCookies[ck.Name] {
			out = append(out, ck)
		}
	}
	return out
}

// setAttendanceCookie stores the session id for one day.
func setAttendanceCookie(c echo.Context, sessionID string) {
	cookie := new(http.Cookie)
	cookie.Name = AttendanceCookie
	cookie.Value = sessionID
	cookie.Path = "/"
	cookie.Expires = time.Now().UTC().Add(24 * time.Hour)
	cookie.HttpOnly = true
	// Secure only over TLS so local development over http still works.
	cookie.Secure = c.Request().TLS != nil
	cookie.SameSite = http.SameSiteLaxMode
	c.SetCookie(cookie)
}
