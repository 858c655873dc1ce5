// Package server wires the router, handlers, and middleware, and owns the
// HTTP server lifecycle.
//
// This is the composition root: main.go hands it a Config, and New assembles
// the whole dependency chain in one place —
//
//	sqlite.DB → AuthService / FavoriteService → handlers → routes
//
// Each layer receives only what it needs: services get repository
// interfaces, handlers get services, and nothing below the handlers knows
// HTTP exists.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jmendes/gitmark/internal/auth"
	"github.com/jmendes/gitmark/internal/github"
	"github.com/jmendes/gitmark/internal/handler"
	"github.com/jmendes/gitmark/internal/middleware"
	sqliteRepo "github.com/jmendes/gitmark/internal/repository/sqlite"
	"github.com/jmendes/gitmark/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port          int
	DBPath        string
	JWTSecret     string // required; the server refuses to start without it
	AllowedOrigin string // CORS origin of the frontend, e.g. http://localhost:5173
	GitHubAPIURL  string // override for tests; defaults to the public API
}

// Server owns the router and the database handle. The handle is created
// once here and closed on shutdown — services receive it by injection and
// never reach for a global.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server, opening the database and wiring all routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}
	if cfg.GitHubAPIURL == "" {
		cfg.GitHubAPIURL = github.DefaultBaseURL
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and routes.
//
// ROUTE STRUCTURE:
//
//	GET    /                         → health check
//	POST   /auth/register            → create account, returns token (public)
//	POST   /auth/login               → verify credentials, returns token (public)
//	GET    /me/favorites             → list caller's favorites      (bearer)
//	POST   /me/favorites             → add favorite                 (bearer)
//	DELETE /me/favorites/{id}        → remove favorite              (bearer)
//	GET    /github/{username}/repos  → proxy GitHub repo listing (public)
//
// Middleware order matters: RequestID and RealIP first so the logger can
// use them, Recoverer before anything that might panic, then logging and
// CORS for every route. RequireAuth is scoped to the /me subtree only —
// auth routes must stay reachable without a token.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	if s.config.AllowedOrigin != "" {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{s.config.AllowedOrigin},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	favoriteService := service.NewFavoriteService(s.db.Favorites(), s.logger)
	githubClient := github.NewClient(s.config.GitHubAPIURL)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService, s.logger)
	githubHandler := handler.NewGitHubHandler(githubClient, s.logger)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
	})

	s.router.Route("/me", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/favorites", favoriteHandler.HandleList)
		r.Post("/favorites", favoriteHandler.HandleAdd)
		r.Delete("/favorites/{id}", favoriteHandler.HandleRemove)
	})

	s.router.Get("/github/{username}/repos", githubHandler.HandleListRepos)

	return nil
}

// Handler exposes the router. Used by tests to drive the full stack through
// httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources (the database handle). Start calls
// it on the way out; tests that never call Start call it directly.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s to
// finish, close the database (flushes the WAL, releases the file lock).
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
