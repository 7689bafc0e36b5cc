package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Start runs the HTTP server until an interrupt or terminate signal arrives,
// then shuts it down gracefully.
func (s *Server) Start() {
	addr := s.Cfg.GetServerAddr()
	go func() {
		slog.Info("Starting attendance server", "addr", addr, "api", s.Cfg.GetAPIBaseURL())
		if err := s.E.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server with a timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	slog.Info("Shutting down attendance server")
	if err := s.E.Shutdown(ctx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
