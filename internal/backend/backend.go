// Package backend defines the contracts provider SDK adapters implement.
// The gateway never interprets artifact bytes; it relays or encodes them.
package backend

import (
	"context"

	"github.com/celeste-ai/gateway/internal/types"
)

// TextResult is a single text completion.
type TextResult struct {
	Content  string
	Metadata map[string]any
}

// Chunk is one incremental unit of a streamed text completion.
type Chunk struct {
	Content  string
	Metadata map[string]any
}

// TextStream yields chunks in upstream order until io.EOF.
// Close releases the upstream connection and may be called at any point.
type TextStream interface {
	Recv() (Chunk, error)
	Close() error
}

// TextClient generates text, either at once or incrementally.
type TextClient interface {
	Generate(ctx context.Context, prompt string, opts types.Options) (*TextResult, error)
	Stream(ctx context.Context, prompt string, opts types.Options) (TextStream, error)
}

// Artifact is an opaque generated payload plus optional references.
type Artifact struct {
	Data       []byte
	Format     string
	SampleRate int
	Path       string
	URL        string
	Metadata   map[string]any
}

// ImageGenerator produces images from a prompt.
type ImageGenerator interface {
	GenerateImages(ctx context.Context, prompt string, opts types.Options) ([]Artifact, error)
}

// ImageEditor transforms a source image according to a prompt.
type ImageEditor interface {
	EditImage(ctx context.Context, prompt string, image []byte, opts types.Options) ([]Artifact, error)
}

// VideoResult holds generated videos and generation-level metadata.
type VideoResult struct {
	Videos   []Artifact
	Metadata map[string]any
}

// VideoGenerator produces videos from a prompt.
type VideoGenerator interface {
	GenerateVideos(ctx context.Context, prompt string, opts types.Options) (*VideoResult, error)
}

// SpeechGenerator synthesizes speech for text with the named voice.
type SpeechGenerator interface {
	GenerateSpeech(ctx context.Context, text, voice string, opts types.Options) (*Artifact, error)
}

// RerankScore is the relevance of one input text.
type RerankScore struct {
	Index int
	Text  string
	Score float64
}

// RerankResult lists scores ordered by descending relevance.
type RerankResult struct {
	Results  []RerankScore
	Metadata map[string]any
}

// Reranker orders texts by relevance to a query.
type Reranker interface {
	Rerank(ctx context.Context, query string, texts []string, topK int, opts types.Options) (*RerankResult, error)
}
