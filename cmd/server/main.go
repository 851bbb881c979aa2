package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"studyplan/internal/auth"
	"studyplan/internal/capabilities"
	"studyplan/internal/config"
	"studyplan/internal/domain/repositories"
	"studyplan/internal/handler"
	"studyplan/internal/middleware"
	"studyplan/internal/repository/postgres"
	"studyplan/internal/repository/sqlite"
	serviceLLM "studyplan/internal/service/llm"
	"studyplan/internal/service/schedule"
	"studyplan/internal/service/workspace"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, logCloser, err := cfg.NewLogger("server")
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, err := newVerifier(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer verifier.Close()

	// Local store is always on; the cloud copy is optional.
	local, err := sqlite.Open(cfg.LocalDBPath)
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}
	defer local.Close()

	var cloud repositories.SnapshotRepository
	if cfg.DatabaseURL != "" {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		repo := postgres.NewSnapshotRepository(&postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		})
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare cloud schema: %v", err)
		}
		cloud = repo
		logger.Info("cloud sync enabled")
	} else {
		logger.Warn("DATABASE_URL not set - cloud sync disabled")
	}

	models, err := capabilities.NewRegistry(cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}
	models = models.WithDefault(cfg.DefaultModel)
	logger.Info("capability registry initialized", "default_model", models.DefaultModel())

	providers, err := serviceLLM.SetupProviders(cfg, models, logger)
	if err != nil {
		log.Fatalf("Failed to setup LLM providers: %v", err)
	}

	scheduleService := schedule.NewService(models, providers, cfg.GenerationTimeout, logger)
	workspaceService := workspace.NewService(local, cloud, cfg.CloudSyncTimeout, logger)

	workspaceHandler := handler.NewWorkspaceHandler(workspaceService, logger)
	outlineHandler := handler.NewOutlineHandler(workspaceService, logger)
	folderHandler := handler.NewFolderHandler(workspaceService, logger)
	shelfHandler := handler.NewShelfHandler(workspaceService, logger)
	scheduleHandler := handler.NewScheduleHandler(scheduleService, workspaceService, logger)
	modelsHandler := handler.NewModelsHandler(scheduleService)

	logger.Info("services initialized")

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Schedule gateway
	mux.HandleFunc("GET /api/models", modelsHandler.ListModels)
	mux.HandleFunc("POST /api/schedules/generate", scheduleHandler.Generate)
	mux.HandleFunc("POST /api/schedules/import", scheduleHandler.Import)

	// Workspace
	mux.HandleFunc("GET /api/workspace", workspaceHandler.GetSnapshot)
	mux.HandleFunc("GET /api/workspace/tree", workspaceHandler.GetTree)
	mux.HandleFunc("GET /api/workspace/events", workspaceHandler.Events)
	mux.HandleFunc("POST /api/workspace/ops", workspaceHandler.ApplyOperation)
	mux.HandleFunc("POST /api/workspace/drop", workspaceHandler.ApplyDrop)
	mux.HandleFunc("GET /api/workspace/active", workspaceHandler.GetActive)
	mux.HandleFunc("PUT /api/workspace/active", workspaceHandler.SetActive)
	mux.HandleFunc("DELETE /api/workspace/active", workspaceHandler.ClearActive)

	// Outlines
	mux.HandleFunc("POST /api/outlines", outlineHandler.CreateOutline)
	mux.HandleFunc("POST /api/outlines/merge", outlineHandler.MergeOutlines) // Must come before {id} routes
	mux.HandleFunc("PATCH /api/outlines/{id}", outlineHandler.UpdateOutline)
	mux.HandleFunc("DELETE /api/outlines/{id}", outlineHandler.DeleteOutline)
	mux.HandleFunc("POST /api/outlines/{id}/duplicate", outlineHandler.DuplicateOutline)

	// Sections
	mux.HandleFunc("POST /api/outlines/{id}/sections", outlineHandler.AddSection)
	mux.HandleFunc("POST /api/outlines/{id}/sections/reorder", outlineHandler.ReorderSections)
	mux.HandleFunc("PATCH /api/outlines/{id}/sections/{sid}", outlineHandler.UpdateSection)
	mux.HandleFunc("DELETE /api/outlines/{id}/sections/{sid}", outlineHandler.DeleteSection)

	// Links
	mux.HandleFunc("POST /api/outlines/{id}/sections/{sid}/links", outlineHandler.AddLink)
	mux.HandleFunc("POST /api/outlines/{id}/sections/{sid}/links/reorder", outlineHandler.ReorderLinks)
	mux.HandleFunc("PATCH /api/outlines/{id}/sections/{sid}/links/{lid}", outlineHandler.UpdateLink)
	mux.HandleFunc("DELETE /api/outlines/{id}/sections/{sid}/links/{lid}", outlineHandler.DeleteLink)

	// Folders
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)

	// Shelf
	mux.HandleFunc("GET /api/shelf", shelfHandler.ListShelf)
	mux.HandleFunc("POST /api/shelf", shelfHandler.AddShelfItem)
	mux.HandleFunc("POST /api/shelf/reorder", shelfHandler.ReorderShelf)
	mux.HandleFunc("PATCH /api/shelf/{id}", shelfHandler.UpdateShelfItem)
	mux.HandleFunc("DELETE /api/shelf/{id}", shelfHandler.DeleteShelfItem)
	mux.HandleFunc("POST /api/shelf/{id}/copy", shelfHandler.CopyShelfItem)

	// Order: CORS → Recovery → RequestLogger → Auth → Routes
	var h http.Handler = mux
	h = middleware.Auth(verifier, logger, "/health")(h)
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}
	// Event streams never finish on their own.
	server.RegisterOnShutdown(workspaceHandler.CloseStreams)

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	// Flush pending cloud syncs before the pool closes.
	if err := workspaceService.Close(); err != nil {
		logger.Error("workspace shutdown failed", "error", err)
	}
}

// newVerifier prefers the Supabase JWKS endpoint and falls back to a shared
// HS256 secret.
func newVerifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (auth.JWTVerifier, error) {
	if cfg.SupabaseJWKSURL != "" {
		return auth.NewJWTVerifier(ctx, cfg.SupabaseJWKSURL, logger)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("set SUPABASE_URL or JWT_SECRET")
	}
	logger.Warn("SUPABASE_URL not set - verifying HS256 tokens with JWT_SECRET")
	return auth.NewHMACVerifier(cfg.JWTSecret, logger)
}
