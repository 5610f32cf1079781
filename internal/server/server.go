// Package server exposes the scraper over HTTP.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/contactscrape/internal/logger"
	"github.com/jmylchreest/contactscrape/pkg/scraper"
)

// Config holds HTTP server settings.
type Config struct {
	// MaxBodySize is a human-readable limit such as "64KB" or "1 MiB".
	MaxBodySize string

	// RequestTimeout bounds the whole scrape behind one request.
	RequestTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxBodySize:    "64KB",
		RequestTimeout: 60 * time.Second,
	}
}

// Server handles the scraper API.
type Server struct {
	scraper  *scraper.Scraper
	validate *validator.Validate
	maxBody  int64
	timeout  time.Duration
	router   chi.Router
}

// New creates a Server backed by s.
func New(s *scraper.Scraper, cfg Config) (*Server, error) {
	defaults := DefaultConfig()
	if cfg.MaxBodySize == "" {
		cfg.MaxBodySize = defaults.MaxBodySize
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}

	maxBody, err := humanize.ParseBytes(cfg.MaxBodySize)
	if err != nil {
		return nil, fmt.Errorf("invalid max body size %q: %w", cfg.MaxBodySize, err)
	}

	srv := &Server{
		scraper:  s,
		validate: validator.New(),
		maxBody:  int64(maxBody),
		timeout:  cfg.RequestTimeout,
	}
	srv.router = srv.routes()

	logger.Debug("server configured",
		"max_body_size", humanize.Bytes(maxBody),
		"request_timeout", cfg.RequestTimeout)

	return srv, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/scraper", s.handleScrape)
		r.Post("/find_email", s.handleFindEmail)
	})

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger logs one line per request through the process logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"size", humanize.Bytes(uint64(ww.BytesWritten())),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()))
		}()

		next.ServeHTTP(ww, r)
	})
}
