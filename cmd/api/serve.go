package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apihttp "identity-api/internal/http"
	"identity-api/internal/service"
)

const shutdownTimeout = 15 * time.Second

// NewServeCmd crea el subcomando serve.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	startedAt := time.Now()

	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("store init failed", zap.Error(err))
		return err
	}
	defer closeStore()

	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	jwtSvc, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTTL(), service.WithIssuer(cfg.JWTIssuer))
	if err != nil {
		return err
	}
	authSvc := service.NewAuthService(logger, store, hasher, jwtSvc)
	resolver := service.NewIdentityResolver(logger, jwtSvc, store, cfg.RequireActiveAccount)

	router := apihttp.NewRouter(
		logger,
		apihttp.RouterOptions{
			BasePath:       cfg.HTTPBasePath,
			CORSOrigins:    cfg.CORSOrigins,
			MetricsEnabled: cfg.MetricsEnabled,
		},
		resolver,
		apihttp.NewAuthHandler(logger, authSvc),
		apihttp.NewHealthHandler(cfg.AppName, cfg.AppVersion, startedAt),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", server.Addr),
			zap.String("env", cfg.Environment),
			zap.String("store", cfg.StoreDriver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}
