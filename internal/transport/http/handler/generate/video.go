package generate

import (
	"net/http"

	"github.com/celeste-ai/gateway/internal/catalog"
	"github.com/celeste-ai/gateway/internal/normalize"
	"github.com/celeste-ai/gateway/internal/transport/http/handler/shared"
	"github.com/celeste-ai/gateway/internal/types"
)

// Video generates videos. Remote video URLs are rewritten to the media
// proxy so clients never need provider credentials.
func (h *Handlers) Video(w http.ResponseWriter, r *http.Request) {
	var req types.VideoRequest
	if err := normalize.Decode(r.Body, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	g := req.Generation()
	c := h.begin(r, catalog.VideoGeneration, g)

	gen, err := h.Registry.Video.Resolve(g.Provider, g.Model)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	c.resolved = true

	res, err := gen.GenerateVideos(r.Context(), g.Input, g.Options)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	resp, err := normalize.Videos(res, normalize.VideoProxyURL(h.Options.APIPrefix))
	if err != nil {
		h.fail(w, c, err)
		return
	}
	h.respond(w, c, resp)
}
