package server

import (
	"errors"
	"log/slog"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	appmw "github.com/nfrund/attendance/internal/middleware"
)

// setupErrorHandling installs an error handler that logs unhandled errors
// with a stack trace before delegating to echo's default response.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			appmw.FromContext(c.Request().Context()).Error("Internal Server Error (Unhandled)",
				"error", err,
				"path", c.Request().URL.Path,
				"stack_trace", string(debug.Stack()),
			)
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}

// requestLogger logs one line per request through the request-scoped slog logger.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
			}
			appmw.FromContext(ctx).LogAttrs(ctx, level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}
