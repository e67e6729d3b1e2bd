package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hongminglow/expense-tracker-be/internal/auth"
	"github.com/hongminglow/expense-tracker-be/internal/config"
	"github.com/hongminglow/expense-tracker-be/internal/http/handlers"
	"github.com/hongminglow/expense-tracker-be/internal/http/respond"
	"github.com/hongminglow/expense-tracker-be/internal/middleware"
	"github.com/hongminglow/expense-tracker-be/internal/models"
	"github.com/hongminglow/expense-tracker-be/internal/storage"
)

const (
	sweepInterval = time.Minute
	visitorIdle   = 5 * time.Minute
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner   *http.Server
	limiter *middleware.RateLimiter
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, log *slog.Logger) *Server {
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	authenticate := middleware.Authenticate(tokenManager)

	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		middleware.Logging(log),
		chimw.Recoverer,
		middleware.CORS(cfg.CORSOrigins),
	)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respond.Message(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respond.Message(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	handlers.NewHealthHandler(time.Now(), store).Register(r)

	authHandler := handlers.NewAuthHandler(store, tokenManager, log)
	authHandler.Register(r, limiter.Middleware)
	r.Group(func(r chi.Router) {
		r.Use(authenticate)
		authHandler.RegisterProtected(r)
	})

	r.Group(func(r chi.Router) {
		if cfg.RequireAuth {
			r.Use(authenticate)
		}
		for _, kind := range models.Kinds {
			handlers.NewEntryHandler(store, kind, log).Register(r)
		}
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelError),
	}

	return &Server{inner: httpServer, limiter: limiter}
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// SweepVisitors prunes idle rate-limiter state until ctx is done.
func (s *Server) SweepVisitors(ctx context.Context) {
	s.limiter.Run(ctx, sweepInterval, visitorIdle)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
