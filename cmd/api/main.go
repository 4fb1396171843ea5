package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/celeste-ai/gateway/internal/app"
	"github.com/celeste-ai/gateway/internal/audiostore"
	"github.com/celeste-ai/gateway/internal/backend/google"
	"github.com/celeste-ai/gateway/internal/catalog"
	"github.com/celeste-ai/gateway/internal/config"
	"github.com/celeste-ai/gateway/internal/httpx"
	"github.com/celeste-ai/gateway/internal/mediaproxy"
	"github.com/celeste-ai/gateway/internal/provider"
	"github.com/celeste-ai/gateway/internal/storage"
	"github.com/celeste-ai/gateway/internal/tokenizer"
	"github.com/celeste-ai/gateway/internal/transport/http/handler"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "celeste: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Create a commented config template on first run
	if err := config.EnsureConfigFile(); err != nil {
		fmt.Fprintf(os.Stderr, "celeste: could not write default config: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	cat, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("load model catalog: %w", err)
	}

	// One pooled client for every backend family. Text streams reuse its
	// transport without the whole-call timeout.
	backendTransport := httpx.NewTransport(httpx.TransportConfig{ResponseHeaderTimeout: cfg.BackendTimeout})
	backendClient := httpx.NewClient(backendTransport, cfg.BackendTimeout)
	defer backendClient.CloseIdleConnections()

	registry := provider.NewDefaultRegistry(provider.Options{
		Credentials: provider.Credentials{
			GoogleAPIKey:  cfg.GoogleAPIKey,
			OpenAIAPIKey:  cfg.OpenAIAPIKey,
			OpenAIBaseURL: cfg.OpenAIBaseURL,
			CohereAPIKey:  cfg.CohereAPIKey,
		},
		HTTPClient:        backendClient,
		StreamIdleTimeout: cfg.StreamIdleTimeout,
		VideoTimeout:      cfg.VideoTimeout,
	})

	audio, err := audiostore.New(audiostore.Config{TTL: cfg.AudioTTL, MaxBytes: cfg.AudioMaxBytes})
	if err != nil {
		return err
	}
	defer audio.Close()

	var creds []mediaproxy.Credential
	if cfg.GoogleAPIKey != "" {
		creds = append(creds, mediaproxy.Credential{Host: google.MediaHost, Param: "key", Value: cfg.GoogleAPIKey})
	}
	media := mediaproxy.New(mediaproxy.Config{
		Timeout:             cfg.MediaTimeout,
		MaxIdleConns:        cfg.MediaMaxIdleConns,
		MaxIdleConnsPerHost: cfg.MediaMaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MediaMaxConnsPerHost,
		Credentials:         creds,
	})
	defer media.Close()

	var store storage.Storage
	if cfg.EnableRequestLog {
		store, err = openRequestLog(cfg, logger)
		if err != nil {
			// The gateway serves without a request log.
			logger.Warn("request log disabled", "path", cfg.RequestLogPath, "error", err)
		} else {
			defer store.Close()
		}
	}

	repo := handler.NewRepo(handler.Deps{
		Registry:    registry,
		Catalog:     cat,
		Audio:       audio,
		Media:       media,
		Storage:     store,
		Tokenizer:   tokenizer.New(),
		Logger:      logger,
		APIPrefix:   cfg.APIPrefix,
		InlineAudio: cfg.AudioDelivery == config.AudioDeliveryInline,
	})

	router := app.NewRouter(repo, app.RouterOptions{
		APIPrefix:     cfg.APIPrefix,
		CORSOrigins:   cfg.CORSAllowOrigins,
		EnableMetrics: cfg.EnableMetrics,
		Logger:        logger,
	})

	srv := app.NewServer(cfg, router, logger)
	printStartupBanner(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	if err := srv.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openRequestLog opens the SQLite request log and prunes expired rows.
func openRequestLog(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.RequestLogPath), 0700); err != nil {
		return nil, err
	}
	store, err := storage.NewSQLiteStorage(cfg.RequestLogPath)
	if err != nil {
		return nil, err
	}

	if cfg.RequestLogRetention > 0 {
		n, err := store.DeleteRequestLogs(time.Now().Add(-cfg.RequestLogRetention))
		if err != nil {
			logger.Warn("request log prune failed", "error", err)
		} else if n > 0 {
			logger.Info("pruned request log", "rows", n, "retention", cfg.RequestLogRetention)
		}
	}
	return store, nil
}
