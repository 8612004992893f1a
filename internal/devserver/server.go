// Package devserver is an in-memory implementation of the job board REST API
// for local development and end-to-end tests of the terminal client.
package devserver

import (
	"log/slog"
	"net/http"
	"time"
)

// Options configures a Server
type Options struct {
	JWTSecret     string
	JWTTTL        time.Duration
	ChatRateLimit int // chat requests per minute per user
	BcryptCost    int
}

// Server bundles the data set with the services the handlers need
type Server struct {
	store  *Store
	tokens *TokenIssuer
	hasher *Hasher
	chat   *chatLimiter
	logger *slog.Logger
}

// New creates a Server with an empty data set
func New(opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.JWTTTL <= 0 {
		opts.JWTTTL = 24 * time.Hour
	}
	if opts.ChatRateLimit <= 0 {
		opts.ChatRateLimit = 20
	}
	return &Server{
		store:  NewStore(),
		tokens: NewTokenIssuer(opts.JWTSecret, opts.JWTTTL),
		hasher: NewHasher(opts.BcryptCost),
		chat:   newChatLimiter(opts.ChatRateLimit),
		logger: logger,
	}
}

// Handler returns the HTTP handler serving the API under /api
func (s *Server) Handler() http.Handler {
	return NewRouter(s)
}
