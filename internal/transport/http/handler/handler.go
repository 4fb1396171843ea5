package handler

import (
	"log/slog"
	"time"

	"github.com/celeste-ai/gateway/internal/audiostore"
	"github.com/celeste-ai/gateway/internal/catalog"
	"github.com/celeste-ai/gateway/internal/mediaproxy"
	"github.com/celeste-ai/gateway/internal/provider"
	"github.com/celeste-ai/gateway/internal/storage"
	"github.com/celeste-ai/gateway/internal/tokenizer"
	"github.com/celeste-ai/gateway/internal/transport/http/handler/discovery"
	"github.com/celeste-ai/gateway/internal/transport/http/handler/generate"
	"github.com/celeste-ai/gateway/internal/transport/http/handler/infra"
	"github.com/celeste-ai/gateway/internal/transport/http/handler/media"
)

// Deps carries the process-owned resources handlers share. Storage and
// Tokenizer may be nil.
type Deps struct {
	Registry  *provider.Registry
	Catalog   *catalog.Catalog
	Audio     *audiostore.Store
	Media     *mediaproxy.Proxy
	Storage   storage.Storage
	Tokenizer tokenizer.Tokenizer
	Logger    *slog.Logger

	APIPrefix   string
	InlineAudio bool
}

// Repo composes all domain-specific handlers.
type Repo struct {
	Infra     *infra.Handlers
	Discovery *discovery.Handlers
	Generate  *generate.Handlers
	Media     *media.Handlers
}

// NewRepo creates a new instance of the composed handler repository.
func NewRepo(d Deps) *Repo {
	return &Repo{
		Infra:     infra.New(d.APIPrefix, time.Now()),
		Discovery: discovery.New(d.Catalog),
		Generate: generate.New(d.Registry, d.Audio, d.Storage, d.Tokenizer, d.Logger, generate.Options{
			APIPrefix:   d.APIPrefix,
			InlineAudio: d.InlineAudio,
		}),
		Media: media.New(d.Media, d.Audio, d.Logger),
	}
}
