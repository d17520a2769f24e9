// Buddy - Employee Wellbeing Assistant Server
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

	"github.com/avashisth/buddy-backend/internal/api"
	"github.com/avashisth/buddy-backend/internal/config"
	"github.com/avashisth/buddy-backend/internal/docstore"
	"github.com/avashisth/buddy-backend/internal/domain"
	"github.com/avashisth/buddy-backend/internal/jobs"
	"github.com/avashisth/buddy-backend/internal/llm"
	"github.com/avashisth/buddy-backend/internal/middleware"
	"github.com/avashisth/buddy-backend/internal/mood"
	"github.com/avashisth/buddy-backend/internal/resume"
	"github.com/avashisth/buddy-backend/internal/session"
	"github.com/avashisth/buddy-backend/internal/store"
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

	docs, err := docstore.NewFirestore(context.Background(), cfg.GCPProjectID)
	if err != nil {
		slog.Error("Failed to initialize document store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := docs.Close(); closeErr != nil {
			slog.Error("Failed to close document store", "error", closeErr)
		}
	}()
	slog.Info("Document store connected", "project_id", cfg.GCPProjectID)

	llmClient, err := llm.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.ChatModel, cfg.EmbedModel)
	if err != nil {
		slog.Error("Failed to initialize LLM client", "error", err)
		os.Exit(1)
	}
	slog.Info("LLM client initialized", "chat_model", cfg.ChatModel, "embed_model", cfg.EmbedModel)

	var source jobs.Source
	switch cfg.JobSource {
	case config.JobSourceAdzuna:
		source = jobs.NewAdzunaClient(cfg.AdzunaAppID, cfg.AdzunaKey)
	default:
		source = jobs.NewSerpAPIClient(cfg.SerpAPIKey)
	}
	slog.Info("Job source initialized", "source", cfg.JobSource)

	// Initialize services.
	sessions := session.NewManager(llm.SystemPrompt, llm.Greeting)
	moodWF := mood.NewWorkflow(llmClient, repo, docs)
	ranker := jobs.NewRanker(source, llmClient)
	tailor := resume.NewTailor(llmClient)

	// Initialize handlers.
	handler := api.NewHandler(sessions, llmClient, repo, docs, ranker, moodWF, tailor, cfg)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	corsOrigins := []string{"*"}
	if !cfg.IsDevelopment() && cfg.FrontendURL != "" {
		corsOrigins = []string{cfg.FrontendURL}
	}
	r.Use(middleware.CORS(corsOrigins))

	handler.RegisterRoutes(r)

	// Create server.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start inactivity sweeper.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session.StartSweeper(ctx, sessions, cfg.SessionSweepInterval, cfg.SessionIdleTimeout, cfg.LLMCallTimeout,
		func(endCtx context.Context, sess domain.Session) error {
			_, err := moodWF.Infer(endCtx, sess)
			return err
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
	}

	slog.Info("Server stopped")
}
