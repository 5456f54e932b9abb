package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jobvault/jobvault/application/service"
	"github.com/jobvault/jobvault/infrastructure/api"
	"github.com/jobvault/jobvault/infrastructure/persistence"
	"github.com/jobvault/jobvault/infrastructure/provider"
	"github.com/jobvault/jobvault/internal/config"
	"github.com/jobvault/jobvault/internal/database"
	"github.com/jobvault/jobvault/internal/log"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables (JOBVAULT_ prefix):
  HOST                       Server host to bind to (default: 0.0.0.0)
  PORT                       Server port to listen on (default: 8080)
  DATA_DIR                   Data directory (default: ~/.jobvault)
  DB_URL                     Database URL (default: sqlite:///{data_dir}/jobvault.db)
  LOG_LEVEL                  Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                 Log format: pretty, json (default: pretty)
  SEARCH_LIMIT               Default search result limit (default: 10)

  EMBEDDING_*                Embedding provider configuration
    BASE_URL                 Base URL of an OpenAI-compatible endpoint
    MODEL                    Model identifier (default: text-embedding-3-small)
    API_KEY                  API key for authentication
    NATIVE_DIMENSIONS        Vector width the model emits (default: 1536)
    TARGET_DIMENSIONS        Stored vector width (default: 1536)
    MAX_RETRIES              Retry attempts (default: 5)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	cfg = applyServeOverrides(cfg, host, port)

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logger := log.Configure(cfg)

	if cfg.Embedding().APIKey() == "" {
		return fmt.Errorf("embedding provider not configured: set JOBVAULT_EMBEDDING_API_KEY")
	}

	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	logger.LogAttrs(context.Background(), slog.LevelInfo, "starting jobvault", attrs...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDatabase(ctx, cfg.DBURL())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	targetDims := cfg.Embedding().TargetDimensions()
	if err := persistence.Migrate(ctx, db, targetDims); err != nil {
		return err
	}

	embedder := provider.NewOpenAIEmbedder(cfg.Embedding())

	store := persistence.NewDocumentStore(db, embedder, targetDims,
		persistence.WithLogger(logger))

	server := api.NewServer(cfg.Addr(), api.Services{
		Applications:  service.NewApplications(store, logger),
		Resumes:       service.NewResumes(store, logger),
		InterviewPrep: service.NewInterviewPrep(store, logger),
		Notes:         service.NewNotes(store, logger),
		Companies:     service.NewCompanies(store, logger),
	}, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.ListenAndServe)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}
