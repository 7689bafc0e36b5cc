package server

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/attendance/internal/handlers"
	"github.com/nfrund/attendance/internal/middleware"
)

// loginRequestsPerMinute is the per-IP allowance for login submissions.
const loginRequestsPerMinute = 10

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	var pageMW []echo.MiddlewareFunc
	if s.Cfg.GetCSRFEnabled() {
		pageMW = append(pageMW, middleware.CSRF(s.Cfg.GetSessionSecret(), s.Cfg.GetCookieSecure()))
	}
	postMW := append([]echo.MiddlewareFunc{middleware.RateLimiter(loginRequestsPerMinute)}, pageMW...)

	h := s.attendanceHandler
	s.E.GET("/", s.homeHandler.HomeGet)

	s.E.GET(handlers.LoginPath, h.LoginGet, pageMW...)
	s.E.POST(handlers.LoginPath, h.LoginPost, postMW...)
	// Older links point at the flat route.
	s.E.GET("/attendance-login", h.LoginGet, pageMW...)

	s.E.GET(handlers.SuccessPath, h.SuccessGet, pageMW...)

	s.E.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: s.registry}))
	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
}
