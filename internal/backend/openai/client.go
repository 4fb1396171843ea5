// Package openai adapts the OpenAI API to the backend contracts through
// the go-openai SDK.
package openai

import (
	"errors"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/httpx"
)

const providerName = "openai"

// Default models per capability.
const (
	DefaultTextModel   = "gpt-4o-mini"
	DefaultImageModel  = "dall-e-3"
	DefaultEditModel   = "dall-e-2"
	DefaultSpeechModel = "tts-1"
	DefaultVoice       = "alloy"
	DefaultAudioFormat = "mp3"
)

// Config configures every OpenAI backend.
type Config struct {
	APIKey  string
	BaseURL string

	HTTPClient *http.Client

	// StreamIdleTimeout bounds the wait for each streamed event. Streams
	// are not subject to HTTPClient's timeout.
	StreamIdleTimeout time.Duration
}

func newAPI(cfg Config) (*goopenai.Client, error) {
	if cfg.APIKey == "" {
		return nil, backend.ErrNoAPIKey
	}
	c := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		c.HTTPClient = cfg.HTTPClient
	}
	return goopenai.NewClientWithConfig(c), nil
}

// newStreamAPI returns an SDK client whose responses are bounded per read
// instead of by a whole-call deadline.
func newStreamAPI(cfg Config) (*goopenai.Client, error) {
	cfg.HTTPClient = httpx.StreamingClient(cfg.HTTPClient, cfg.StreamIdleTimeout)
	return newAPI(cfg)
}

func modelOr(model, def string) string {
	if model == "" {
		return def
	}
	return model
}

// upstreamError keeps the upstream status so the gateway can map it.
func upstreamError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &backend.UpstreamError{Provider: providerName, StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &backend.UpstreamError{Provider: providerName, StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error(), Err: err}
	}
	return &backend.UpstreamError{Provider: providerName, Err: err}
}
