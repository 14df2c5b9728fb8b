// Package server wires the endpoints, middleware stack, and static asset
// serving into one HTTP server with graceful shutdown.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cgatting/RefScore/internal/config"
	"github.com/cgatting/RefScore/internal/middleware"
)

// Handlers are the endpoint implementations the server mounts.
type Handlers struct {
	Refine http.Handler
	Stream http.Handler
}

// NewMux assembles the route table and middleware stack. Gzip sits inside
// CORS; CORS is outermost so preflights never reach the handlers.
func NewMux(cfg config.Config, h Handlers, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/refine", h.Refine)
	mux.Handle("/ws", h.Stream)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mountStatic(mux, cfg, logger)

	handler := middleware.Gzip(cfg.GzipMinSize)(mux)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	return middleware.CORS(corsConfig)(handler)
}

// mountStatic serves the bundled frontend when enabled and present. Any
// path that is not a real file under dist falls back to index.html so
// client-side routing works.
func mountStatic(mux *http.ServeMux, cfg config.Config, logger *zap.Logger) {
	if !cfg.ServeDist {
		return
	}
	if info, err := os.Stat(cfg.DistDir); err != nil || !info.IsDir() {
		logger.Info("dist directory not found, skipping static serving",
			zap.String("dir", cfg.DistDir))
		return
	}

	assets := filepath.Join(cfg.DistDir, "assets")
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(assets))))

	index := filepath.Join(cfg.DistDir, "index.html")
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		candidate := filepath.Join(cfg.DistDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			http.ServeFile(w, r, candidate)
			return
		}
		http.ServeFile(w, r, index)
	})

	logger.Info("serving static assets", zap.String("dir", cfg.DistDir))
}

// Server is the process's HTTP front end.
type Server struct {
	http   *http.Server
	logger *zap.Logger
}

// New creates a server listening on the configured port.
func New(cfg config.Config, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: handler,
		},
		logger: logger,
	}
}

// Run starts the server and blocks until SIGINT/SIGTERM or a listener
// error, then shuts down gracefully with a 5-second deadline.
func (s *Server) Run() error {
	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
		s.logger.Info("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server exiting")
	return nil
}
