package generate

import (
	"net/http"

	"github.com/celeste-ai/gateway/internal/catalog"
	"github.com/celeste-ai/gateway/internal/normalize"
	"github.com/celeste-ai/gateway/internal/stream"
	"github.com/celeste-ai/gateway/internal/transport/http/handler/shared"
	"github.com/celeste-ai/gateway/internal/types"
)

// Text returns a single completion.
func (h *Handlers) Text(w http.ResponseWriter, r *http.Request) {
	var req types.TextRequest
	if err := normalize.Decode(r.Body, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	g := req.Generation()
	if err := g.Options.CheckString("system"); err != nil {
		shared.WriteError(w, err)
		return
	}

	c := h.begin(r, catalog.TextGeneration, g)
	h.countTokens(c, g)

	client, err := h.Registry.Text.Resolve(g.Provider, g.Model)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	c.resolved = true

	res, err := client.Generate(r.Context(), g.Input, g.Options)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	h.respond(w, c, normalize.Text(g.Provider, g.Model, res))
}

// TextStream relays a streamed completion as NDJSON, one record per
// upstream chunk. Errors before the first byte get a normal JSON error;
// after that the connection is aborted so the client sees a truncated body.
func (h *Handlers) TextStream(w http.ResponseWriter, r *http.Request) {
	var req types.TextRequest
	if err := normalize.Decode(r.Body, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	g := req.Generation()
	if err := g.Options.CheckString("system"); err != nil {
		shared.WriteError(w, err)
		return
	}

	c := h.begin(r, catalog.TextGeneration, g)
	c.streaming = true
	h.countTokens(c, g)

	client, err := h.Registry.Text.Resolve(g.Provider, g.Model)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	c.resolved = true

	src, err := client.Stream(r.Context(), g.Input, g.Options)
	if err != nil {
		h.fail(w, c, err)
		return
	}

	res, err := stream.Pipe(r.Context(), w, src, g.Provider, g.Model)
	if err == nil {
		h.finish(c, http.StatusOK, nil)
		return
	}
	if !res.Committed {
		h.fail(w, c, err)
		return
	}

	h.Logger.Warn("stream terminated after commit",
		"provider", c.provider,
		"model", c.model,
		"records", res.Records,
		"error", err,
		"request_id", c.requestID,
	)
	h.finish(c, http.StatusOK, err)

	// A departed client needs no abort.
	if r.Context().Err() == nil {
		panic(http.ErrAbortHandler)
	}
}
