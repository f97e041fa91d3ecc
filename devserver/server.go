// Package devserver is an in-memory stand-in for the summarization API, for
// local development and tests.
package devserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/summarizer/auth"
	"github.com/rs/cors"
)

type Option func(*Server)

// WithAsync makes creation return before the summary exists. The summary is
// filled in after delay.
func WithAsync(delay time.Duration) Option {
	return func(s *Server) {
		s.async = true
		s.delay = delay
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithAPIKeys requires requests to authenticate with one of the keys.
func WithAPIKeys(keyToClient map[string]string) Option {
	return func(s *Server) {
		s.keyToClient = keyToClient
	}
}

func New(log *slog.Logger, opts ...Option) *Server {
	s := &Server{
		log: log,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.store = NewStore(s.now)
	s.handler = s.routes()
	return s
}

type Server struct {
	log         *slog.Logger
	now         func() time.Time
	async       bool
	delay       time.Duration
	keyToClient map[string]string
	store       *Store
	handler     http.Handler
}

func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/ping", s.ping)
	mux.HandleFunc("POST /api/v1/summaries/{$}", s.create)
	mux.HandleFunc("POST /api/v1/summaries/text", s.createFromText)
	mux.HandleFunc("GET /api/v1/summaries/{$}", s.list)
	mux.HandleFunc("GET /api/v1/summaries/keyword/{keyword}/{$}", s.searchByKeyword)
	for _, pattern := range []string{"/api/v1/summaries/{id}", "/api/v1/summaries/{id}/{$}"} {
		mux.HandleFunc("GET "+pattern, s.get)
		mux.HandleFunc("DELETE "+pattern, s.delete)
	}

	var h http.Handler = mux
	if len(s.keyToClient) > 0 {
		h = auth.New(s.keyToClient, h)
	}
	return cors.AllowAll().Handler(h)
}
