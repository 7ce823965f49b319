//	@title			File Vault API
//	@version		1.0
//	@description	Upload a file behind a serial code and security question; retrieve it by answering correctly.
//
//	@host		localhost:8080
//	@BasePath	/

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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/filevault/service/internal/config"
	"github.com/filevault/service/internal/db"
	"github.com/filevault/service/internal/files"
	appMiddleware "github.com/filevault/service/internal/middleware"
	"github.com/filevault/service/internal/response"
	"github.com/filevault/service/internal/storage"

	_ "github.com/filevault/service/docs/swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	if err := db.Migrate(cfg.DatabaseURL, logger); err != nil {
		return err
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	objects, err := storage.NewMinioStorage(ctx, storage.MinioOptions{
		Endpoint:   cfg.StorageEndpoint,
		AccessKey:  cfg.StorageAccessKey,
		SecretKey:  cfg.StorageSecretKey,
		Bucket:     cfg.StorageBucket,
		PublicBase: cfg.StoragePublicBase,
		UseSSL:     cfg.StorageUseSSL,
	}, logger)
	if err != nil {
		return err
	}

	// Wire dependencies: repository → service → handler
	fileRepo := files.NewRepository(pool)
	fileSvc := files.NewService(fileRepo, objects, logger)
	fileHandler := files.NewHandler(fileSvc, cfg.MaxUploadBytes, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(fileHandler, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			slog.String("port", cfg.Port),
			slog.String("env", cfg.AppEnv),
			slog.String("bucket", cfg.StorageBucket),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-quit:
	}
	logger.Info("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}

func newRouter(fileHandler *files.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(logger))
	r.Use(appMiddleware.Metrics)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		response.Text(w, http.StatusOK, "File Vault backend is running")
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})

	r.Handle("/metrics", promhttp.Handler())

	// Swagger UI at /swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	fileHandler.Routes(r)

	return r
}
