package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/celeste-ai/gateway/internal/config"
	"github.com/celeste-ai/gateway/internal/version"
)

func setupLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h).With("app", "celeste"), nil
}

func printStartupBanner(cfg *config.Config) {
	base := "http://localhost" + cfg.ServerPort + cfg.APIPrefix

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Celeste %s - Generative AI Gateway\n", version.Version)
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "API:        %s\n", base)
	fmt.Fprintf(os.Stderr, "Models:     %s/models\n", base)
	if cfg.EnableMetrics {
		fmt.Fprintf(os.Stderr, "Metrics:    http://localhost%s/metrics\n", cfg.ServerPort)
	}
	fmt.Fprintf(os.Stderr, "Audio:      %s delivery\n", cfg.AudioDelivery)
	fmt.Fprintf(os.Stderr, "Config:     %s\n", config.ConfigPath())
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "\n")
}
