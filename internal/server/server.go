package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rioporto/v5-rioporto-sub007/internal/auth"
	"github.com/rioporto/v5-rioporto-sub007/internal/config"
	"github.com/rioporto/v5-rioporto-sub007/internal/http/handlers"
	"github.com/rioporto/v5-rioporto-sub007/internal/middleware"
	"github.com/rioporto/v5-rioporto-sub007/internal/session"
	"github.com/rioporto/v5-rioporto-sub007/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server. The request
// chain is CORS -> Logging -> route guard -> mux, so every page navigation
// passes the guard before any handler runs.
func New(cfg config.Config, users storage.UserStore, sessions *session.Manager) *Server {
	mux := http.NewServeMux()

	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewPagesHandler().Register(mux)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)
	service := auth.NewService(users, sessions, tokens, cfg.LoginDelay)
	handlers.NewAuthHandler(service, cfg.CookieSecure).Register(mux)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(middleware.Guard(mux)))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
