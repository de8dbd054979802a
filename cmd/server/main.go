package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"docbase/internal/config"
	"docbase/internal/filetypes"
	"docbase/internal/handler"
	"docbase/internal/middleware"
	"docbase/internal/observability/metrics"
	"docbase/internal/repository/gcs"
	"docbase/internal/repository/postgres"
	servicedocs "docbase/internal/service/docs"
	serviceingest "docbase/internal/service/ingest"
	"docbase/internal/webhook"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"deletion_mode", cfg.DeletionMode,
	)

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create blob store
	blobs, err := gcs.NewBlobStore(ctx, cfg.StorageBucket, cfg.StoragePublicDomain)
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}
	defer blobs.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	versionRepo := postgres.NewVersionRepository(repoConfig)
	categoryRepo := postgres.NewCategoryRepository(repoConfig)
	ingestRepo := postgres.NewIngestRepository(repoConfig)

	// External processing workflow client
	notifier := webhook.NewClient(cfg.DocumentWebhookURL, cfg.PagesWebhookURL, logger)

	// File type registry
	typeRegistry, err := filetypes.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize file type registry: %v", err)
	}
	logger.Info("file type registry initialized", "types", len(typeRegistry.List()))

	// Create services
	docService := servicedocs.NewDocumentService(
		docRepo, versionRepo, categoryRepo, blobs, notifier,
		typeRegistry, cfg.DeletionMode, logger,
	)
	categoryService := servicedocs.NewCategoryService(docRepo, categoryRepo, logger)
	ingestService := serviceingest.NewIngestService(ingestRepo, docRepo, versionRepo, notifier, logger)

	// Metrics
	serverMetrics := metrics.NewHTTPServerMetrics("docbase")
	notifier.OnFailure(func(endpoint string) {
		serverMetrics.RecordWebhookFailure("docbase", endpoint)
	})

	// Create handlers
	docHandler := handler.NewDocumentHandler(docService, serverMetrics, logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, logger)
	ingestHandler := handler.NewIngestHandler(ingestService, serverMetrics, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check and metrics
	mux.HandleFunc("GET /health", docHandler.HealthCheck)
	mux.Handle("GET /metrics", serverMetrics.Handler())

	// Document routes
	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.HandleFunc("POST /api/documents", docHandler.UploadDocument)
	mux.HandleFunc("POST /api/documents/{id}/replace", docHandler.ReplaceDocument)
	mux.HandleFunc("PATCH /api/documents/{id}/status", docHandler.UpdateStatus)
	mux.HandleFunc("PATCH /api/documents/{id}/category", docHandler.UpdateCategory)
	mux.HandleFunc("POST /api/documents/{id}/rollback", docHandler.RollbackDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.DeleteDocument)

	// Category routes
	mux.HandleFunc("GET /api/categories/tree", categoryHandler.GetTree)
	mux.HandleFunc("POST /api/categories", categoryHandler.CreateCategory)
	mux.HandleFunc("PATCH /api/categories/rename", categoryHandler.RenameCategory)
	mux.HandleFunc("DELETE /api/categories", categoryHandler.DeleteCategory)

	// Review queue routes
	mux.HandleFunc("GET /api/ingest/pages", ingestHandler.ListPending)
	mux.HandleFunc("PATCH /api/ingest/pages/{id}", ingestHandler.UpdateContent)
	mux.HandleFunc("POST /api/ingest/approve", ingestHandler.Approve)

	// Workflow callback
	mux.HandleFunc("POST /api/callbacks/document-processed", ingestHandler.DocumentProcessed)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestID → Metrics → Recovery → Identity → Routes
	root = middleware.Identity("")(root)
	root = middleware.Recovery(logger)(root)
	root = serverMetrics.Middleware("docbase", root)
	root = middleware.RequestID(root)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-Id"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
