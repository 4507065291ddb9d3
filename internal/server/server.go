// Package server exposes the live preview and the capture trigger over HTTP
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/pleimann/stampcam/internal/content"
	"github.com/pleimann/stampcam/internal/display"
	"github.com/pleimann/stampcam/internal/source"
)

const (
	serverReadTimeout       = 15 * time.Second
	serverIdleTimeout       = 60 * time.Second
	gracefulShutdownTimeout = 5 * time.Second

	// maxFrameSize bounds uploaded frames
	maxFrameSize = 32 << 20
)

// Deps are the components the handlers drive. Live and Clock may be nil.
type Deps struct {
	Preview  *display.Manager
	Frames   *display.FrameBuffer
	Capturer *display.Capturer
	Exporter *display.Exporter
	Store    *content.Store
	Live     *source.Live
	Clock    *content.Clock
}

// Server is the HTTP front end of the preview command
type Server struct {
	deps   Deps
	router *gin.Engine
	logger *log.Logger
	now    func() time.Time
}

// New creates a server and registers its routes
func New(deps Deps, logger *log.Logger) *Server {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{
		deps:   deps,
		router: r,
		logger: logger,
		now:    time.Now,
	}
	s.setupRoutes()
	return s
}

// Handler returns the server's http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: serverReadTimeout,
		IdleTimeout: serverIdleTimeout,
		// streams end when ctx does
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start).Round(time.Microsecond),
		)
	}
}
