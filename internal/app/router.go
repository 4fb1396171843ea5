package app

import (
	"log/slog"
	"net/http"

	"github.com/celeste-ai/gateway/internal/metrics"
	"github.com/celeste-ai/gateway/internal/transport/http/handler"
	"github.com/celeste-ai/gateway/internal/transport/http/middleware"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	// APIPrefix is the version prefix, e.g. "/v1". Empty mounts at the root.
	APIPrefix     string
	CORSOrigins   []string
	EnableMetrics bool
	Logger        *slog.Logger
}

// NewRouter creates and configures the HTTP router with all application routes.
// Returns an http.Handler with middleware applied.
func NewRouter(repo *handler.Repo, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()
	p := opts.APIPrefix

	// Infra and discovery
	mux.HandleFunc("GET "+p+"/health", repo.Infra.HealthCheck)
	mux.HandleFunc("GET "+p+"/capabilities", repo.Discovery.Capabilities)
	mux.HandleFunc("GET "+p+"/providers", repo.Discovery.Providers)
	mux.HandleFunc("GET "+p+"/models", repo.Discovery.Models)

	// Generation
	mux.HandleFunc("POST "+p+"/text/generate", repo.Generate.Text)
	mux.HandleFunc("POST "+p+"/text/stream", repo.Generate.TextStream)
	mux.HandleFunc("POST "+p+"/images/generate", repo.Generate.Images)
	mux.HandleFunc("POST "+p+"/images/edit", repo.Generate.ImageEdit)
	mux.HandleFunc("POST "+p+"/video/generate", repo.Generate.Video)
	mux.HandleFunc("POST "+p+"/audio/generate", repo.Generate.Audio)
	mux.HandleFunc("POST "+p+"/rerank", repo.Generate.Rerank)

	// Media relays
	mux.HandleFunc("GET "+p+"/video/proxy", repo.Media.VideoProxy)
	mux.HandleFunc("GET "+p+"/audio/proxy/{id}", repo.Media.AudioProxy)

	if opts.EnableMetrics {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// Root returns JSON status
	mux.HandleFunc("GET /{$}", repo.Infra.RootStatus)

	// Apply middleware chain (order: outer to inner)
	mws := []func(http.Handler) http.Handler{
		middleware.CORS(opts.CORSOrigins),
		middleware.RequestID,
	}
	if opts.Logger != nil {
		mws = append(mws, middleware.RequestLogger(opts.Logger))
	}
	if opts.EnableMetrics {
		// Innermost, so it sees the pattern the mux matched.
		mws = append(mws, middleware.Metrics)
	}
	return middleware.Chain(mux, mws...)
}
