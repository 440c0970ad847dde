package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/freightops/carrierwatch/pkg/utils/logging"
	"github.com/freightops/carrierwatch/pkg/utils/safe"
)

// Server routes inbound HTTP traffic: the liveness endpoint and the Slack
// slash-command webhook.
type Server struct {
	router             *chi.Mux
	commandHandler     *SlackCommandHandler
	slackSigningSecret string
}

// Options configures a Server
type Options func(*Server)

// WithSlackCommand mounts the slash-command endpoint behind Slack signature
// verification.
func WithSlackCommand(handler *SlackCommandHandler, signingSecret string) Options {
	return func(s *Server) {
		s.commandHandler = handler
		s.slackSigningSecret = signingSecret
	}
}

// New creates the HTTP server router
func New(opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	// Slash command endpoint: no session auth, Slack's request signature is
	// the authentication.
	if s.commandHandler != nil {
		r.Route("/hooks/slack", func(r chi.Router) {
			r.Use(SlackSignatureMiddleware(s.slackSigningSecret))
			r.Post("/command", s.commandHandler.ServeHTTP)
		})
	}

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// healthHandler reports process liveness
func healthHandler(w http.ResponseWriter, r *http.Request) {
	body, _ := json.Marshal(map[string]string{
		"status":  "healthy",
		"message": "Application is running",
	})
	w.Header().Set("Content-Type", "application/json")
	safe.Write(r.Context(), w, body)
}

// accessLogger logs every HTTP request with its outcome
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
