// Markup Labs - HTML lesson, battle and quiz server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/markup-labs/internal/api"
	"github.com/ashureev/markup-labs/internal/battle"
	"github.com/ashureev/markup-labs/internal/catalog"
	"github.com/ashureev/markup-labs/internal/config"
	"github.com/ashureev/markup-labs/internal/glossary"
	"github.com/ashureev/markup-labs/internal/identity"
	"github.com/ashureev/markup-labs/internal/learner"
	"github.com/ashureev/markup-labs/internal/middleware"
	"github.com/ashureev/markup-labs/internal/quiz"
	"github.com/ashureev/markup-labs/internal/store"
	"github.com/ashureev/markup-labs/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		slog.Error("Failed to load catalog", "error", err)
		os.Exit(1)
	}
	if len(cat.Questions) == 0 {
		slog.Warn("Catalog has no quiz questions; the last lesson cannot be completed")
	}

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	// Initialize services.
	sessions := learner.NewManager(learner.NewFactory(learner.Options{
		Catalog: cat,
		Quiz: quiz.Config{
			CorrectDelay: cfg.Quiz.CorrectDelay,
			WrongDelay:   cfg.Quiz.WrongDelay,
		},
		NoticeQueue: cfg.Session.NoticeQueue,
		Recorder:    repo,
		Logger:      logger,
	}))
	defer sessions.CloseAll()

	// Initialize handlers.
	apiHandler := api.NewHandler(repo, sessions, glossary.NewIndex(cat.Terms))
	battleHandler := battle.NewHandler(sessions, repo, cfg.AllowedOrigins, cfg.IsDevelopment(), cfg.Session.PeerOutbox)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(identity.Middleware(repo, cfg.IsDevelopment()))

	apiHandler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/battle", battleHandler.ServeHTTP)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		// Battle websockets are long-lived.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	learner.StartSweeper(ctx, sessions, repo, learner.SweepConfig{
		Interval:  cfg.Session.SweepInterval,
		TTL:       cfg.Session.TTL,
		Retention: cfg.Session.EventRetention,
	})

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path != "" {
		return catalog.LoadFile(path)
	}
	return catalog.Default()
}
