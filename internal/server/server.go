// Package server wires the application together: it is the composition root
// where the store, services, handlers, middleware, and access policy are
// constructed once and connected explicitly. Nothing in the codebase reaches
// for a global — every component receives its dependencies here.
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

	"github.com/sakif/voip-user-api/internal/auth"
	"github.com/sakif/voip-user-api/internal/handler"
	"github.com/sakif/voip-user-api/internal/middleware"
	sqliteRepo "github.com/sakif/voip-user-api/internal/repository/sqlite"
	"github.com/sakif/voip-user-api/internal/service"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port          int
	DBPath        string
	JWTSecret     string
	TokenLifetime time.Duration

	// Bootstrap describes an optional seed account created at startup when
	// its username does not already exist. Without it a fresh database has
	// no credentials and no way to mint a first token.
	BootstrapUsername  string
	BootstrapPassword  string
	BootstrapName      string
	BootstrapExtension string
}

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the full dependency graph:
//
//	sqlite.DB → AuthService / UserService → handlers → routes
//
// and mounts the middleware chain. Order matters: Authenticate must populate
// the context before the policy decides, and the policy must decide before
// any handler runs.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
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
		return nil, err
	}

	return s, nil
}

// policy is the static access table. Most specific pattern wins; anything
// unlisted requires authentication, so new endpoints fail closed.
func policy() *auth.Policy {
	return auth.NewPolicy(
		auth.Rule{Pattern: "/ping", Requirement: auth.Public},
		auth.Rule{Pattern: "/api/auth/login", Requirement: auth.Public},
		auth.Rule{Pattern: "/api/users/*", Requirement: auth.Authenticated},
	)
}

func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenLifetime)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	userService := service.NewUserService(s.db, passwords, s.logger)

	if err := s.seedBootstrapAccount(userService); err != nil {
		return fmt.Errorf("seeding bootstrap account: %w", err)
	}

	authHandler := handler.NewAuthHandler(authService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Authentication populates, the policy rejects. Authenticate runs on
	// every request, public routes included — it's a no-op without a token.
	s.router.Use(auth.Authenticate(tokens, authService, s.logger))
	s.router.Use(policy().Enforce)

	s.router.Get("/ping", handler.HandlePing)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Route("/users", func(r chi.Router) {
			r.Get("/all", userHandler.HandleList)
			r.Get("/by-id", userHandler.HandleGetByID)
			r.Get("/by-extension", userHandler.HandleGetByExtension)
			r.Get("/check-extension", userHandler.HandleCheckExtension)
			r.Post("/create", userHandler.HandleCreate)
			r.Put("/update/{id}", userHandler.HandleUpdate)
			r.Delete("/delete/{id}", userHandler.HandleDelete)
		})
	})

	return nil
}

// seedBootstrapAccount creates the configured seed account unless an account
// with that username already exists. It goes through UserService.Create, so a
// misconfigured seed (bad extension, short password) fails startup loudly
// instead of leaving a half-valid row.
func (s *Server) seedBootstrapAccount(users *service.UserService) error {
	if s.config.BootstrapUsername == "" {
		return nil
	}

	ctx := context.Background()
	exists, err := s.db.ExistsByUsername(ctx, s.config.BootstrapUsername)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	user, err := users.Create(ctx, service.CreateInput{
		Username:  s.config.BootstrapUsername,
		Password:  s.config.BootstrapPassword,
		Name:      s.config.BootstrapName,
		Extension: s.config.BootstrapExtension,
	})
	if err != nil {
		return err
	}

	s.logger.Info("bootstrap account created",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return nil
}

// Handler exposes the configured router, mainly for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server and blocks until SIGINT/SIGTERM or a listen
// failure. Shutdown drains in-flight requests for up to 30 seconds, then the
// deferred Close flushes the WAL and releases the database file.
func (s *Server) Start() error {
	defer s.db.Close()

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
