package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jengzang/riskzones-backend-go/internal/analysis/clustering"
	"github.com/jengzang/riskzones-backend-go/internal/api"
	"github.com/jengzang/riskzones-backend-go/internal/auth"
	"github.com/jengzang/riskzones-backend-go/internal/config"
	"github.com/jengzang/riskzones-backend-go/internal/database"
	"github.com/jengzang/riskzones-backend-go/internal/middleware"
	"github.com/jengzang/riskzones-backend-go/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "riskzones",
	Short: "Traffic incident risk-zone API",
	Long: `Serves clustered risk zones, incident lists and statistics over the
ДТП incident store, and provides offline tools for the same store.`,
	SilenceUsage: true,
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, clusterCmd, tokenCmd, importCmd)

	// If no command is specified, default to serve
	rootCmd.RunE = serveCmd.RunE
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds everything built from the environment that commands share
type app struct {
	cfg        *config.Config
	clustering clustering.Config
	logger     *slog.Logger
	db         *sql.DB
}

func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := observability.NewLogger(cfg)

	clusterCfg, err := config.LoadClusterProfile(cfg.ClusterProfile)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := database.Open(ctx, database.Config{Path: cfg.DBPath})
	if err != nil {
		return nil, err
	}
	logger.Info("database ready", "path", cfg.DBPath)

	return &app{cfg: cfg, clustering: clusterCfg, logger: logger, db: db}, nil
}

func runServer() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer rt.db.Close()
	logger := rt.logger

	limiter, err := middleware.NewRateLimiter(rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst, rt.cfg.RateLimitClients)
	if err != nil {
		return fmt.Errorf("failed to create rate limiter: %w", err)
	}

	clock := clockwork.NewRealClock()
	router := api.SetupRouter(api.Dependencies{
		DB:          rt.db,
		Tokens:      auth.NewTokens(rt.cfg.JWTSecret, clock),
		Limiter:     limiter,
		Clustering:  rt.clustering,
		ClusterSeed: rt.cfg.ClusterSeed,
		Clock:       clock,
		Logger:      logger,
		Metrics:     observability.NewMetrics(prometheus.DefaultRegisterer),
		Gatherer:    prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:              rt.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// a clustering run over the largest working set takes a few seconds
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
