package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/attendance/internal/attendance"
	"github.com/nfrund/attendance/internal/config"
	"github.com/nfrund/attendance/internal/handlers"
	"github.com/nfrund/attendance/internal/logging"
	"github.com/nfrund/attendance/internal/metrics"
	appmw "github.com/nfrund/attendance/internal/middleware"
	"github.com/nfrund/attendance/internal/rendering"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// flashMaxAge bounds how long an unread notification survives.
const flashMaxAge = 5 * 60

// Server holds the dependencies for the HTTP server.
type Server struct {
	E                 *echo.Echo
	Cfg               config.Provider
	Metrics           *metrics.Metrics
	registry          *prometheus.Registry
	homeHandler       *handlers.HomeHandler
	attendanceHandler *handlers.AttendanceHandler
}

// New creates a Server from the environment, talking to the configured
// attendance backend.
func New() *Server {
	logging.New() // Initialize the structured logger
	cfg := config.New()
	checker := attendance.NewClient(cfg.GetAPIBaseURL(), cfg.GetAPITimeout())
	return NewWithConfig(cfg, checker)
}

// NewWithConfig creates a Server with explicit dependencies; tests use it
// with a stub Checker.
func NewWithConfig(cfg config.Provider, checker attendance.Checker) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	setupErrorHandling(e)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(appmw.Logger)
	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "attendance",
		Registerer: registry,
	}))

	// Configure and use session middleware
	store := sessions.NewCookieStore([]byte(cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		Secure:   cfg.GetCookieSecure(),
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	renderer := rendering.NewUniversalRenderer()
	e.Renderer = renderer

	return &Server{
		E:                 e,
		Cfg:               cfg,
		Metrics:           appMetrics,
		registry:          registry,
		homeHandler:       handlers.NewHomeHandler(),
		attendanceHandler: handlers.NewAttendanceHandler(checker, renderer, appMetrics, cfg.GetTheme()),
	}
}
