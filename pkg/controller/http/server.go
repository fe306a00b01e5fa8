package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/klaviyofeed/pkg/usecase"
)

const serviceName = "klaviyofeed"

// UseCases bundles the operations exposed over HTTP
type UseCases struct {
	Forwarder usecase.SubmissionForwarder
	Lists     usecase.ListDirectoryFetcher
	Feeds     usecase.FeedSubmissionProcessor
}

// Config holds the HTTP server configuration
type Config struct {
	addr          string
	webhookSecret string
	credentials   usecase.Credentials
}

// ConfigOption is a functional option for configuring Config
type ConfigOption func(*Config)

// WithWebhookSecret requires signed requests on /api
func WithWebhookSecret(secret string) ConfigOption {
	return func(c *Config) {
		c.webhookSecret = secret
	}
}

// WithCredentials sets the Klaviyo keys used by /api/forward and /api/lists
func WithCredentials(credentials usecase.Credentials) ConfigOption {
	return func(c *Config) {
		c.credentials = credentials
	}
}

// NewConfig creates a new HTTP server configuration
func NewConfig(addr string, opts ...ConfigOption) *Config {
	c := &Config{addr: addr}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, config *Config, useCases *UseCases) (*Server, error) {
	if useCases == nil || useCases.Forwarder == nil {
		return nil, goerr.New("forwarder is required")
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	h := &handler{
		useCases:    useCases,
		credentials: config.credentials,
	}

	router.Get("/health", handleHealth)

	router.Route("/api", func(r chi.Router) {
		if config.webhookSecret != "" {
			r.Use(SignatureMiddleware(config.webhookSecret))
		} else {
			ctxlog.From(ctx).Warn("Webhook secret not configured, /api accepts unsigned requests")
		}

		r.Post("/forward", h.handleForward)
		r.Get("/lists", h.handleLists)

		if useCases.Feeds != nil {
			r.Get("/feeds", h.handleListFeeds)
			r.Put("/feeds/{feedID}", h.handlePutFeed)
			r.Delete("/feeds/{feedID}", h.handleDeleteFeed)
			r.Post("/feeds/{feedID}/submissions", h.handleSubmission)
		}
	})

	server := &Server{
		Server: &http.Server{
			Addr:              config.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}

	return server, nil
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, r *http.Request, err error, status int) {
	var message string
	if goErr := goerr.Unwrap(err); goErr != nil {
		message = goErr.Error()
	} else {
		message = err.Error()
	}

	writeJSON(w, r, status, map[string]string{
		"error": message,
	})
}
