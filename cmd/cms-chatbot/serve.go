package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AdityaMalani1302/cms/internal/config"
	"github.com/AdityaMalani1302/cms/internal/logging"
	"github.com/AdityaMalani1302/cms/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chatbot HTTP and WebSocket API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(config.FromViper(v))
		},
	}
	cmd.Flags().String("host", "", "listen host (or set HOST)")
	cmd.Flags().String("port", "", "listen port (or set PORT)")
	cmd.Flags().String("cms-api-url", "", "CMS backend base URL (or set CMS_API_URL)")
	v.BindPFlag("HOST", cmd.Flags().Lookup("host"))
	v.BindPFlag("PORT", cmd.Flags().Lookup("port"))
	v.BindPFlag("CMS_API_URL", cmd.Flags().Lookup("cms-api-url"))
	return cmd
}

func serve(cfg config.Config) error {
	logger, err := logging.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting "+config.ServiceName,
		zap.String("version", config.ServiceVersion),
		zap.String("addr", cfg.Addr()),
		zap.String("cms_api_url", cfg.CMSAPIURL),
		zap.Strings("allowed_origins", cfg.AllowedOrigins),
	)
	// Sessions live until reset or restart; these limits are accepted for
	// compatibility with existing deployments.
	logger.Info("session limits configured but not enforced",
		zap.Int("max_sessions", cfg.MaxSessions),
		zap.Duration("session_timeout", cfg.SessionTimeout),
		zap.Int("rate_limit_per_minute", cfg.RateLimitPerMinute),
		zap.Float64("default_confidence_threshold", cfg.DefaultConfidenceThreshold),
	)

	s, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", zap.Error(err))
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("chatbot server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
