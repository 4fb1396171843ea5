package generate

import (
	"net/http"

	"github.com/celeste-ai/gateway/internal/audiostore"
	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/catalog"
	"github.com/celeste-ai/gateway/internal/normalize"
	"github.com/celeste-ai/gateway/internal/transport/http/handler/shared"
	"github.com/celeste-ai/gateway/internal/types"
)

// Audio synthesizes speech. The voice option is consumed here; the rest
// of the options bag goes to the backend. Depending on the deployment the
// bytes are returned inline or stored for /audio/proxy/{id}.
func (h *Handlers) Audio(w http.ResponseWriter, r *http.Request) {
	var req types.AudioRequest
	if err := normalize.Decode(r.Body, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	g := req.Generation()
	voice, err := g.Options.TakeString("voice")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	c := h.begin(r, catalog.AudioGeneration, g)

	gen, err := h.Registry.Audio.Resolve(g.Provider, g.Model)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	c.resolved = true

	art, err := gen.GenerateSpeech(r.Context(), g.Input, voice, g.Options)
	if err != nil {
		h.fail(w, c, err)
		return
	}
	if len(art.Data) == 0 {
		h.fail(w, c, &backend.UpstreamError{Provider: c.provider, Message: "no audio returned"})
		return
	}

	if h.Options.InlineAudio {
		h.respond(w, c, normalize.InlineAudio(art))
		return
	}

	id, err := h.AudioStore.Put(audiostore.Clip{
		Data:       art.Data,
		Format:     normalize.AudioFormat(art),
		SampleRate: art.SampleRate,
	})
	if err != nil {
		h.fail(w, c, err)
		return
	}
	h.respond(w, c, normalize.ProxiedAudio(id, h.Options.APIPrefix+"/audio/proxy/"+id, art))
}
