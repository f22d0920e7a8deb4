// Package server wires the HTTP surface of the relay: routing, middleware,
// the chat handler and the embedded demo widget.
package server

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/karthiksivt/chatbot-local/internal/limiter"
	"github.com/karthiksivt/chatbot-local/internal/llm"
)

//go:embed web
var webFiles embed.FS

// Acquirer is the slice of the rate limiter the chat handler needs.
type Acquirer interface {
	Acquire() (bool, limiter.Reason)
}

// Options carries the request-independent inputs of the chat handler.
type Options struct {
	CVText          string
	MaxOutputTokens int
	AllowedOrigins  []string
}

// Server handles the relay's HTTP endpoints.
type Server struct {
	logger  *zap.Logger
	limiter Acquirer
	llm     llm.Client
	opts    Options
}

// New creates a server with its dependencies injected. The limiter and the
// completion client are interfaces so tests can substitute doubles.
func New(logger *zap.Logger, lim Acquirer, client llm.Client, opts Options) *Server {
	return &Server{
		logger:  logger,
		limiter: lim,
		llm:     client,
		opts:    opts,
	}
}

// Router configures all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleRoot)
	r.Post("/chat", s.handleChat)
	r.Handle("/metrics", promhttp.Handler())

	// Demo chat widget, served from the binary.
	widget, err := fs.Sub(webFiles, "web")
	if err != nil {
		panic(err)
	}
	r.Handle("/widget/*", http.StripPrefix("/widget/", http.FileServer(http.FS(widget))))

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Backend is running"))
}
