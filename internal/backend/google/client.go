// Package google adapts the Gemini API family (Gemini text and images,
// Imagen, Veo and Gemini TTS) to the backend contracts.
package google

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/httpx"
)

const providerName = "google"

// DefaultBaseURL is the Gemini API root.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// MediaHost serves generated media that requires the API key as a query parameter.
const MediaHost = "generativelanguage.googleapis.com"

// Default models per capability.
const (
	DefaultTextModel   = "gemini-2.5-flash"
	DefaultImageModel  = "imagen-4.0-generate-001"
	DefaultEditModel   = "gemini-2.5-flash-image-preview"
	DefaultVideoModel  = "veo-3.0-generate-001"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice       = "Zephyr"
)

const (
	defaultPollInterval = 10 * time.Second
	defaultVideoTimeout = 10 * time.Minute
)

// Config configures every Google backend.
type Config struct {
	APIKey  string
	BaseURL string

	// HTTPClient supplies the pooled transport and per-call timeout.
	HTTPClient *http.Client

	// StreamIdleTimeout bounds the wait for each streamed event. Streams
	// are not subject to HTTPClient's timeout.
	StreamIdleTimeout time.Duration

	VideoTimeout time.Duration
	PollInterval time.Duration
}

// client is the shared core of each capability client.
type client struct {
	rc    *resty.Client
	model string
	cfg   Config
}

func newClient(cfg Config, model, defaultModel string) (*client, error) {
	if cfg.APIKey == "" {
		return nil, backend.ErrNoAPIKey
	}
	if model == "" {
		model = defaultModel
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	// Copy the shared client so resty settings never leak across calls while
	// the pooled transport is still reused.
	hc := &http.Client{}
	if cfg.HTTPClient != nil {
		hc.Transport = cfg.HTTPClient.Transport
		hc.Timeout = cfg.HTTPClient.Timeout
	}

	return &client{rc: newResty(hc, base, cfg.APIKey), model: model, cfg: cfg}, nil
}

func newResty(hc *http.Client, base, apiKey string) *resty.Client {
	return resty.NewWithClient(hc).
		SetBaseURL(strings.TrimSuffix(base, "/")).
		SetHeader("x-goog-api-key", apiKey).
		SetHeader("Content-Type", "application/json")
}

// streamResty returns a resty client for server-sent event streams.
func (c *client) streamResty() *resty.Client {
	base := c.cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	hc := httpx.StreamingClient(c.cfg.HTTPClient, c.cfg.StreamIdleTimeout)
	return newResty(hc, base, c.cfg.APIKey)
}

// post sends body as JSON and decodes a 2xx reply into out.
func (c *client) post(ctx context.Context, path string, body, out any) error {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)
	if err != nil {
		return &backend.UpstreamError{Provider: providerName, Err: err}
	}
	return decode(resp, out)
}

// get fetches path and decodes a 2xx reply into out.
func (c *client) get(ctx context.Context, path string, out any) error {
	resp, err := c.rc.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return &backend.UpstreamError{Provider: providerName, Err: err}
	}
	return decode(resp, out)
}

func decode(resp *resty.Response, out any) error {
	if resp.IsError() {
		return errorFromBody(resp.StatusCode(), resp.Bytes())
	}
	if err := json.Unmarshal(resp.Bytes(), out); err != nil {
		return &backend.UpstreamError{Provider: providerName, StatusCode: resp.StatusCode(), Message: "malformed response", Err: err}
	}
	return nil
}

// apiError is the Google error envelope.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func errorFromBody(status int, body []byte) error {
	var e apiError
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		msg = e.Error.Message
	}
	return &backend.UpstreamError{Provider: providerName, StatusCode: status, Message: msg}
}

func (c *client) modelPath(method string) string {
	return "/models/" + c.model + ":" + method
}
