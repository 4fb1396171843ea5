package generate

import (
	"net/http"

	"github.com/celeste-ai/gateway/internal/catalog"
	"github.com/celeste-ai/gateway/internal/normalize"
	"github.com/celeste-ai/gateway/internal/transport/http/handler/shared"
	"github.com/celeste-ai/gateway/internal/types"
)

// DefaultTopK is used when a rerank request names no top_k.
const DefaultTopK = 5

// Rerank orders texts by relevance to the query.
func (h *Handlers) Rerank(w http.ResponseWriter, r *http.Request) {
	var req types.RerankRequest
	if err := normalize.Decode(r.Body, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	g := req.Generation()
	c := h.begin(r, catalog.Rerank, g)

	topK := DefaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}
	topK = min(topK, len(req.Texts))

	rr, err := h.Registry.Rerank.Resolve(g.Provider, g.Model)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	c.resolved = true

	res, err := rr.Rerank(r.Context(), g.Input, req.Texts, topK, g.Options)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	h.respond(w, c, normalize.Rerank(g.Provider, g.Model, res))
}
