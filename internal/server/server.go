// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the wiring layer — the composition root where handlers,
// services, repositories, and middleware are connected:
//
//	main.go reads config → server.New() builds the dependency graph:
//	  sqlite.DB → repositories → services → handlers
//	  kv store  → token service ┘
//	  authz resolver + engine → guard → route middleware
//
// Keeping the wiring out of main.go makes it testable: integration tests
// can build a Server without starting a process.
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

	"github.com/tanvir/listhub/internal/auth"
	"github.com/tanvir/listhub/internal/authz"
	"github.com/tanvir/listhub/internal/email"
	"github.com/tanvir/listhub/internal/handler"
	"github.com/tanvir/listhub/internal/kv"
	"github.com/tanvir/listhub/internal/middleware"
	sqliteRepo "github.com/tanvir/listhub/internal/repository/sqlite"
	"github.com/tanvir/listhub/internal/service"
	"github.com/tanvir/listhub/internal/token"
)

// Config holds server configuration, loaded from the environment in main.go.
type Config struct {
	Port       int
	DBPath     string
	JWTSecret  string        // HMAC secret for session tokens, min 16 chars
	SessionTTL time.Duration // session token + cookie lifetime
	BaseURL    string        // public origin, prefix of verification links

	// RedisAddr selects the verification token store: a Redis host:port for
	// production, or empty for the embedded in-process store.
	RedisAddr string

	// MailerooAPIKey enables real email delivery. When empty, verification
	// links are logged instead of sent.
	MailerooAPIKey string
	MailerooFrom   string
}

// Server owns the router and the process-lifetime resources: the database
// and, when configured, the Redis connection. Both are closed on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	redis  *kv.RedisStore // nil when the embedded store is used
}

// New builds the full dependency graph and registers all routes.
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
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes wires middleware, services, handlers, and the route tree.
//
// ROUTE STRUCTURE:
//
//	POST   /api/v1/users                                  → signup (public)
//	GET    /api/v1/users/verify?token=                    → redeem verification token (public)
//	GET    /api/v1/users/search?email=                    → find user (session)
//	POST   /api/v1/auth/login                             → login (public)
//	POST   /api/v1/auth/logout                            → logout (public)
//	GET    /api/v1/auth/me                                → current user (session)
//	GET    /api/v1/todo/lists                             → visible lists (session)
//	POST   /api/v1/todo/lists                             → create list (session)
//	GET    /api/v1/todo/lists/{id}                        → guard READ
//	PATCH  /api/v1/todo/lists/{id}                        → guard EDIT
//	DELETE /api/v1/todo/lists/{id}                        → guard OWNER
//	GET    .../{listId}/items[, /{id}]                    → guard READ
//	POST/PUT/DELETE .../{listId}/items[/{id}]             → guard EDIT
//	GET    .../{listId}/collaborators                     → guard READ
//	POST/PATCH/DELETE .../{listId}/collaborators[/{userId}] → guard OWNER
//
// MIDDLEWARE ORDER MATTERS: RequireSession must run before the guard — the
// guard reads the principal the session middleware put on the context.
func (s *Server) setupRoutes() error {
	// global middleware, in execution order
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === sessions ===
	sessions, err := auth.NewSessionService(s.config.JWTSecret, s.config.SessionTTL)
	if err != nil {
		return fmt.Errorf("creating session service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// === verification token store ===
	// Redis in production (shared across instances, survives restarts);
	// the embedded store for single-node and local development.
	var store kv.Store
	if s.config.RedisAddr != "" {
		redisStore, err := kv.NewRedisStore(context.Background(), s.config.RedisAddr)
		if err != nil {
			return fmt.Errorf("connecting to redis at %s: %w", s.config.RedisAddr, err)
		}
		s.redis = redisStore
		store = redisStore
		s.logger.Info("verification tokens stored in redis", slog.String("addr", s.config.RedisAddr))
	} else {
		store = kv.NewMemoryStore()
		s.logger.Info("verification tokens stored in process memory")
	}
	tokens := token.NewService(store, token.DefaultTTL, s.logger)

	// === email sender ===
	var sender email.Sender
	if s.config.MailerooAPIKey != "" {
		sender = email.NewMailerooClient(s.config.MailerooAPIKey, s.config.MailerooFrom, s.logger)
	} else {
		sender = email.NewMockSender(s.logger)
		s.logger.Warn("MAILEROO_API_KEY not set — verification emails are logged, not sent")
	}

	// === repositories & services ===
	users := s.db.Users()
	lists := s.db.Lists()
	items := s.db.Items()
	rels := s.db.Relationships()

	verificationService := service.NewVerificationService(tokens, sender, users, s.config.BaseURL, s.logger)
	userService := service.NewUserService(users, passwords, verificationService, s.logger)
	authService := service.NewAuthService(users, sessions, passwords, s.logger)
	listService := service.NewListService(lists, rels, s.logger)
	itemService := service.NewItemService(items, lists, s.logger)
	collabService := service.NewCollaboratorService(rels, users, s.logger)

	// === authorization guard ===
	guard := authz.NewGuard(
		authz.NewResolver(items),
		authz.NewEngine(users, lists, rels, s.logger),
		s.logger,
	)

	// === handlers ===
	userHandler := handler.NewUserHandler(userService, verificationService, s.logger)
	authHandler := handler.NewAuthHandler(authService, sessions, s.logger)
	listHandler := handler.NewListHandler(listService, s.logger)
	itemHandler := handler.NewItemHandler(itemService, s.logger)
	collabHandler := handler.NewCollaboratorHandler(collabService, s.logger)

	requireSession := auth.RequireSession(sessions)

	s.router.Route("/api/v1", func(r chi.Router) {
		// public: account creation and the email verification link
		r.Post("/users", userHandler.HandleCreate)
		r.Get("/users/verify", userHandler.HandleVerify)

		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)

		// everything below requires a valid session cookie
		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Get("/users/search", userHandler.HandleSearch)
			r.Get("/auth/me", authHandler.HandleMe)

			r.Route("/todo/lists", func(r chi.Router) {
				// create and list-all carry no resource ID to guard; create
				// makes the caller owner, list-all is scoped in the service
				r.Post("/", listHandler.HandleCreate)
				r.Get("/", listHandler.HandleGetAll)

				r.Route("/{id}", func(r chi.Router) {
					r.With(guard.Require(authz.LevelRead, authz.KindList, "id")).
						Get("/", listHandler.HandleGet)
					r.With(guard.Require(authz.LevelEdit, authz.KindList, "id")).
						Patch("/", listHandler.HandleUpdate)
					r.With(guard.Require(authz.LevelOwner, authz.KindList, "id")).
						Delete("/", listHandler.HandleDelete)
				})

				r.Route("/{listId}/items", func(r chi.Router) {
					read := guard.Require(authz.LevelRead, authz.KindList, "listId")
					edit := guard.Require(authz.LevelEdit, authz.KindList, "listId")

					r.With(read).Get("/", itemHandler.HandleList)
					r.With(read).Get("/{id}", itemHandler.HandleGet)
					r.With(edit).Post("/", itemHandler.HandleCreate)
					r.With(edit).Put("/{id}", itemHandler.HandleUpdate)
					r.With(edit).Delete("/{id}", itemHandler.HandleDelete)
				})

				r.Route("/{listId}/collaborators", func(r chi.Router) {
					read := guard.Require(authz.LevelRead, authz.KindList, "listId")
					owner := guard.Require(authz.LevelOwner, authz.KindList, "listId")

					r.With(read).Get("/", collabHandler.HandleList)
					r.With(owner).Post("/", collabHandler.HandleAdd)
					r.With(owner).Patch("/{userId}", collabHandler.HandleUpdate)
					r.With(owner).Delete("/{userId}", collabHandler.HandleRemove)
				})
			})
		})
	})

	return nil
}

// Router exposes the configured route tree, mainly for httptest in
// integration tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests (30s),
// close the database and the Redis connection.
func (s *Server) Start() error {
	defer s.db.Close()
	if s.redis != nil {
		defer s.redis.Close()
	}

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
