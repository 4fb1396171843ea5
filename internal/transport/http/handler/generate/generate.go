// Package generate serves the text, image, video, audio and rerank
// generation endpoints.
package generate

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/celeste-ai/gateway/internal/audiostore"
	"github.com/celeste-ai/gateway/internal/catalog"
	"github.com/celeste-ai/gateway/internal/metrics"
	"github.com/celeste-ai/gateway/internal/provider"
	"github.com/celeste-ai/gateway/internal/storage"
	"github.com/celeste-ai/gateway/internal/tokenizer"
	"github.com/celeste-ai/gateway/internal/transport/http/handler/shared"
	"github.com/celeste-ai/gateway/internal/transport/http/middleware"
	"github.com/celeste-ai/gateway/internal/types"
)

// tokenCountTimeout is the maximum time to wait for token counting before
// the request log is written without a count.
const tokenCountTimeout = 100 * time.Millisecond

// Options configures deployment-wide response behavior.
type Options struct {
	// APIPrefix is prepended to proxy URLs handed back to clients.
	APIPrefix string

	// InlineAudio returns speech base64 in the body instead of storing it
	// for /audio/proxy/{id}.
	InlineAudio bool
}

// Handlers holds the dependencies for generation endpoints. Storage and
// Tokenizer are optional.
type Handlers struct {
	Registry   *provider.Registry
	AudioStore *audiostore.Store
	Storage    storage.Storage
	Tokenizer  tokenizer.Tokenizer
	Logger     *slog.Logger
	Options    Options
}

// New creates generation handlers.
func New(reg *provider.Registry, audio *audiostore.Store, store storage.Storage, tok tokenizer.Tokenizer, logger *slog.Logger, opts Options) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		Registry:   reg,
		AudioStore: audio,
		Storage:    store,
		Tokenizer:  tok,
		Logger:     logger,
		Options:    opts,
	}
}

// call tracks one generation request from resolution to response.
type call struct {
	ctx        context.Context
	requestID  string
	capability catalog.Capability
	provider   string
	model      string
	streaming  bool
	resolved   bool
	start      time.Time
	tokens     <-chan int
}

func (h *Handlers) begin(r *http.Request, capability catalog.Capability, g types.GenerationRequest) *call {
	return &call{
		ctx:        r.Context(),
		requestID:  middleware.GetRequestID(r.Context()),
		capability: capability,
		provider:   strings.ToLower(strings.TrimSpace(g.Provider)),
		model:      g.Model,
		start:      time.Now(),
	}
}

// countTokens starts counting prompt tokens in the background so the
// upstream call is never delayed by it.
func (h *Handlers) countTokens(c *call, g types.GenerationRequest) {
	if h.Tokenizer == nil {
		return
	}
	ch := make(chan int, 1)
	system, _ := g.Options.String("system")
	go func() {
		defer close(ch)
		if n, err := h.Tokenizer.CountPrompt(g.Input, system, g.Model); err == nil {
			ch <- n
		}
	}()
	c.tokens = ch
}

// respond writes a successful JSON body and records the call.
func (h *Handlers) respond(w http.ResponseWriter, c *call, body any) {
	shared.WriteJSON(w, body, http.StatusOK)
	h.finish(c, http.StatusOK, nil)
}

// fail writes the error envelope for err and records the call.
func (h *Handlers) fail(w http.ResponseWriter, c *call, err error) {
	status := shared.WriteError(w, err)
	h.finish(c, status, err)
}

// finish records metrics, logs failures and stores the request log.
func (h *Handlers) finish(c *call, status int, err error) {
	elapsed := time.Since(c.start)

	if c.resolved {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.RecordBackendCall(string(c.capability), c.provider, outcome, elapsed.Seconds())
	}

	if err != nil {
		level := slog.LevelWarn
		if status < http.StatusInternalServerError {
			level = slog.LevelInfo
		}
		h.Logger.Log(c.ctx, level, "generation failed",
			"capability", c.capability,
			"provider", c.provider,
			"model", c.model,
			"status", status,
			"error", err,
			"request_id", c.requestID,
		)
	}

	if h.Storage == nil {
		return
	}

	var promptTokens int
	if c.tokens != nil {
		select {
		case n, ok := <-c.tokens:
			if ok {
				promptTokens = n
			}
		case <-time.After(tokenCountTimeout):
		}
	}

	entry := &storage.RequestLog{
		RequestID:    c.requestID,
		Capability:   string(c.capability),
		Provider:     c.provider,
		Model:        c.model,
		PromptTokens: promptTokens,
		IsStreaming:  c.streaming,
		StatusCode:   status,
		DurationMs:   elapsed.Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	}
	if err != nil {
		entry.ErrorMessage = err.Error()
	}

	go h.logRequest(entry)
}

// logRequest stores entry. Failures never reach the client.
func (h *Handlers) logRequest(entry *storage.RequestLog) {
	if err := h.Storage.LogRequest(entry); err != nil {
		h.Logger.Debug("request log write failed", "error", err, "request_id", entry.RequestID)
	}
}
