package generate

import (
	"net/http"

	"github.com/celeste-ai/gateway/internal/catalog"
	"github.com/celeste-ai/gateway/internal/normalize"
	"github.com/celeste-ai/gateway/internal/transport/http/handler/shared"
	"github.com/celeste-ai/gateway/internal/types"
)

// Images generates images from a prompt.
func (h *Handlers) Images(w http.ResponseWriter, r *http.Request) {
	var req types.ImageRequest
	if err := normalize.Decode(r.Body, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	g := req.Generation()
	c := h.begin(r, catalog.ImageGeneration, g)

	gen, err := h.Registry.Images.Resolve(g.Provider, g.Model)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	c.resolved = true

	arts, err := gen.GenerateImages(r.Context(), g.Input, g.Options)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	resp, err := normalize.Images(arts)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	h.respond(w, c, resp)
}

// ImageEdit applies a prompt to a base64 source image.
func (h *Handlers) ImageEdit(w http.ResponseWriter, r *http.Request) {
	var req types.ImageEditRequest
	if err := normalize.Decode(r.Body, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	image, err := normalize.DecodeImage("image", req.Image)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	g := req.Generation()
	c := h.begin(r, catalog.ImageEdit, g)

	editor, err := h.Registry.ImageEdit.Resolve(g.Provider, g.Model)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	c.resolved = true

	arts, err := editor.EditImage(r.Context(), g.Input, image, g.Options)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	resp, err := normalize.Images(arts)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	h.respond(w, c, resp)
}
