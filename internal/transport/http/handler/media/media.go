// Package media relays binary media: remote provider videos and audio
// clips held in the handle store.
package media

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/celeste-ai/gateway/internal/audiostore"
	"github.com/celeste-ai/gateway/internal/mediaproxy"
	"github.com/celeste-ai/gateway/internal/transport/http/handler/shared"
	"github.com/celeste-ai/gateway/internal/transport/http/middleware"
)

// VideoContentType is the fixed type of relayed videos.
const VideoContentType = "video/mp4"

var audioContentTypes = map[string]string{
	"wav":  "audio/wav",
	"mp3":  "audio/mpeg",
	"opus": "audio/opus",
	"aac":  "audio/aac",
	"flac": "audio/flac",
	"pcm":  "audio/L16",
}

// Handlers serves the media endpoints.
type Handlers struct {
	Proxy  *mediaproxy.Proxy
	Audio  *audiostore.Store
	Logger *slog.Logger
}

// New creates media handlers.
func New(proxy *mediaproxy.Proxy, audio *audiostore.Store, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{Proxy: proxy, Audio: audio, Logger: logger}
}

// VideoProxy fetches the video at the url query parameter and relays its
// bytes. Upstream failures are reported before any byte is written.
func (h *Handlers) VideoProxy(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	up, err := h.Proxy.Open(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		status := shared.WriteError(w, err)
		if status >= http.StatusInternalServerError {
			h.Logger.Warn("media proxy upstream failed", "status", status, "error", err, "request_id", requestID)
		}
		return
	}
	defer up.Close()

	n, err := h.Proxy.Relay(w, up, VideoContentType)
	if err == nil {
		return
	}
	h.Logger.Warn("media relay interrupted", "bytes", n, "error", err, "request_id", requestID)
	if r.Context().Err() == nil {
		panic(http.ErrAbortHandler)
	}
}

// AudioProxy serves a stored clip by id. Range requests are honored.
func (h *Handlers) AudioProxy(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	clip, err := h.Audio.Get(id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", AudioContentType(clip))
	http.ServeContent(w, r, id+"."+clip.Format, time.Time{}, bytes.NewReader(clip.Data))
}

// AudioContentType derives the media type from the stored format, falling
// back to sniffing the bytes.
func AudioContentType(clip audiostore.Clip) string {
	if ct, ok := audioContentTypes[strings.ToLower(clip.Format)]; ok {
		return ct
	}
	return mimetype.Detect(clip.Data).String()
}
