// Package discovery serves the read-only capability, provider and model
// catalog.
package discovery

import (
	"net/http"

	"github.com/celeste-ai/gateway/internal/catalog"
	"github.com/celeste-ai/gateway/internal/transport/http/handler/shared"
	"github.com/celeste-ai/gateway/internal/types"
)

// CacheControl is sent with every discovery response. The catalog only
// changes on deployment.
const CacheControl = "public, max-age=300"

// Handlers serves discovery endpoints.
type Handlers struct {
	Catalog *catalog.Catalog
}

// New creates discovery handlers over cat.
func New(cat *catalog.Catalog) *Handlers {
	return &Handlers{Catalog: cat}
}

// Capabilities lists every capability.
func (h *Handlers) Capabilities(w http.ResponseWriter, r *http.Request) {
	out := make([]types.CapabilityInfo, 0, len(catalog.Capabilities))
	for _, c := range catalog.Capabilities {
		out = append(out, types.CapabilityInfo{ID: string(c), Label: c.Label()})
	}
	writeCached(w, out)
}

// Providers lists every provider.
func (h *Handlers) Providers(w http.ResponseWriter, r *http.Request) {
	out := make([]types.ProviderInfo, 0, len(catalog.Providers))
	for _, p := range catalog.Providers {
		out = append(out, types.ProviderInfo{ID: string(p), Label: p.Label()})
	}
	writeCached(w, out)
}

// Models lists catalog models, optionally filtered by the capability and
// provider query parameters.
func (h *Handlers) Models(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		capability catalog.Capability
		prov       catalog.Provider
		err        error
	)
	if v := q.Get("capability"); v != "" {
		if capability, err = catalog.ParseCapability(v); err != nil {
			shared.WriteError(w, err)
			return
		}
	}
	if v := q.Get("provider"); v != "" {
		if prov, err = catalog.ParseProvider(v); err != nil {
			shared.WriteError(w, err)
			return
		}
	}

	models := h.Catalog.ListModels(prov, capability)
	out := make([]types.ModelInfo, 0, len(models))
	for _, m := range models {
		caps := make([]string, 0, len(m.Capabilities))
		for _, c := range m.Capabilities {
			caps = append(caps, string(c))
		}
		out = append(out, types.ModelInfo{
			ID:           m.ID,
			Provider:     string(m.Provider),
			DisplayName:  m.DisplayName,
			Capabilities: caps,
		})
	}
	writeCached(w, out)
}

func writeCached(w http.ResponseWriter, data any) {
	w.Header().Set("Cache-Control", CacheControl)
	shared.WriteJSON(w, data, http.StatusOK)
}
