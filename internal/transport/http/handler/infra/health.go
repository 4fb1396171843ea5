package infra

import (
	"net/http"
	"time"

	"github.com/celeste-ai/gateway/internal/transport/http/handler/shared"
	"github.com/celeste-ai/gateway/internal/types"
	"github.com/celeste-ai/gateway/internal/version"
)

// RootStatus returns JSON status and version information at /.
func (h *Handlers) RootStatus(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, map[string]any{
		"name":    "celeste",
		"message": "Celeste generative AI gateway",
		"version": version.Version,
		"status":  "running",
		"api":     h.APIPrefix,
		"health":  h.APIPrefix + "/health",
	}, http.StatusOK)
}

// HealthCheck reports liveness and the running version.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	shared.WriteJSON(w, types.HealthResponse{
		Status:        "ok",
		Version:       version.Version,
		Commit:        version.Commit,
		UptimeSeconds: int64(time.Since(h.StartTime).Seconds()),
	}, http.StatusOK)
}
