package provider

import (
	"net/http"
	"time"

	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/backend/cohere"
	"github.com/celeste-ai/gateway/internal/backend/google"
	"github.com/celeste-ai/gateway/internal/backend/openai"
	"github.com/celeste-ai/gateway/internal/catalog"
)

// Credentials carries the API keys handed to backend families.
type Credentials struct {
	GoogleAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	CohereAPIKey  string
}

// Options configures the default registry.
type Options struct {
	Credentials Credentials

	// HTTPClient is shared by every backend family. Its Timeout bounds each
	// non-streaming upstream call.
	HTTPClient *http.Client

	// StreamIdleTimeout bounds the gap between streamed text events.
	StreamIdleTimeout time.Duration

	// VideoTimeout bounds a whole long-running video generation.
	VideoTimeout time.Duration

	// VideoPollInterval is the delay between operation status checks.
	VideoPollInterval time.Duration
}

// NewDefaultRegistry wires every supported backend family.
func NewDefaultRegistry(opts Options) *Registry {
	r := NewRegistry()

	g := google.Config{
		APIKey:            opts.Credentials.GoogleAPIKey,
		HTTPClient:        opts.HTTPClient,
		StreamIdleTimeout: opts.StreamIdleTimeout,
		VideoTimeout:      opts.VideoTimeout,
		PollInterval:      opts.VideoPollInterval,
	}
	o := openai.Config{
		APIKey:            opts.Credentials.OpenAIAPIKey,
		BaseURL:           opts.Credentials.OpenAIBaseURL,
		HTTPClient:        opts.HTTPClient,
		StreamIdleTimeout: opts.StreamIdleTimeout,
	}
	c := cohere.Config{
		APIKey:     opts.Credentials.CohereAPIKey,
		HTTPClient: opts.HTTPClient,
	}

	r.Text.Register(catalog.Google, func(model string) (backend.TextClient, error) {
		return google.NewText(g, model)
	})
	r.Text.Register(catalog.OpenAI, func(model string) (backend.TextClient, error) {
		return openai.NewText(o, model)
	})

	r.Images.Register(catalog.Google, func(model string) (backend.ImageGenerator, error) {
		return google.NewImages(g, model)
	})
	r.Images.Register(catalog.OpenAI, func(model string) (backend.ImageGenerator, error) {
		return openai.NewImages(o, model)
	})

	r.ImageEdit.Register(catalog.Google, func(model string) (backend.ImageEditor, error) {
		return google.NewImageEditor(g, model)
	})
	r.ImageEdit.Register(catalog.OpenAI, func(model string) (backend.ImageEditor, error) {
		return openai.NewImageEditor(o, model)
	})

	r.Video.Register(catalog.Google, func(model string) (backend.VideoGenerator, error) {
		return google.NewVideo(g, model)
	})

	r.Audio.Register(catalog.Google, func(model string) (backend.SpeechGenerator, error) {
		return google.NewSpeech(g, model)
	})
	r.Audio.Register(catalog.OpenAI, func(model string) (backend.SpeechGenerator, error) {
		return openai.NewSpeech(o, model)
	})

	r.Rerank.Register(catalog.Cohere, func(model string) (backend.Reranker, error) {
		return cohere.NewReranker(c, model)
	})

	return r
}
