package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"skb-backend/internal/assets"
	"skb-backend/internal/auth"
	"skb-backend/internal/config"
	"skb-backend/internal/database"
	"skb-backend/internal/logger"
	"skb-backend/internal/telemetry"
	"skb-backend/routes"
	"skb-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx)
		},
	}
}

func runServer(ctx context.Context) error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.InitLogger(cfg)

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdownTracer(context.Background())

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		return fmt.Errorf("failed to init metrics: %w", err)
	}

	tokens, err := auth.NewTokenManager(cfg.SecretKey, cfg.TokenTTL)
	if err != nil {
		return err
	}

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := config.DisconnectMongoDB(mongoClient); err != nil {
			logger.Error("Failed to disconnect MongoDB", "error", err)
		}
	}()
	logger.Info("MongoDB connected", "database", cfg.DBName)

	assetStore, err := assets.NewCloudinaryStore(cfg, metrics)
	if err != nil {
		return err
	}

	db := mongoClient.Database(cfg.DBName)
	siteRepo := database.NewSiteRepository(db, cfg.SiteCollection, metrics)
	credentialRepo := database.NewCredentialRepository(db, cfg.UserCollection)

	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := routes.NewRouter(routes.Dependencies{
		Config:  cfg,
		Tokens:  tokens,
		Auth:    services.NewAuthService(credentialRepo, tokens),
		Gallery: services.NewGalleryService(siteRepo, assetStore, metrics),
		Stats:   services.NewStatsService(siteRepo),
		Export:  services.NewExportService(siteRepo),
		Metrics: metrics,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited")
	return nil
}
