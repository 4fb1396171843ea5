// Package provider resolves (capability, provider, model) triples into
// backend clients through registration tables built once at startup.
package provider

import (
	"errors"
	"fmt"
	"slices"

	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/catalog"
)

// ErrUnknownProvider is matched by every UnknownProviderError.
var ErrUnknownProvider = errors.New("unknown provider")

// UnknownProviderError is returned when no factory is registered for the
// requested provider under a capability.
type UnknownProviderError struct {
	Capability catalog.Capability
	Provider   string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("provider %q is not supported for %s", e.Provider, e.Capability)
}

// Is lets errors.Is(err, ErrUnknownProvider) match.
func (e *UnknownProviderError) Is(target error) bool {
	return target == ErrUnknownProvider
}

// Factory builds a fresh backend client. An empty model selects the
// backend family's default.
type Factory[C any] func(model string) (C, error)

// Table maps providers to client factories for a single capability.
type Table[C any] struct {
	capability catalog.Capability
	factories  map[catalog.Provider]Factory[C]
}

// NewTable creates an empty table for capability.
func NewTable[C any](capability catalog.Capability) *Table[C] {
	return &Table[C]{
		capability: capability,
		factories:  make(map[catalog.Provider]Factory[C]),
	}
}

// Capability returns the capability the table serves.
func (t *Table[C]) Capability() catalog.Capability {
	return t.capability
}

// Register binds a factory to a provider, replacing any previous one.
func (t *Table[C]) Register(p catalog.Provider, f Factory[C]) {
	t.factories[p] = f
}

// Resolve constructs exactly one client for providerID. Provider ids are
// matched case-insensitively. There is no fallback to another provider.
func (t *Table[C]) Resolve(providerID, model string) (C, error) {
	var zero C

	p, err := catalog.ParseProvider(providerID)
	if err != nil {
		return zero, &UnknownProviderError{Capability: t.capability, Provider: providerID}
	}
	f, ok := t.factories[p]
	if !ok {
		return zero, &UnknownProviderError{Capability: t.capability, Provider: providerID}
	}

	client, err := f(model)
	if err != nil {
		return zero, fmt.Errorf("build %s client for %s: %w", t.capability, p, err)
	}
	return client, nil
}

// Providers lists the registered providers in catalog order.
func (t *Table[C]) Providers() []catalog.Provider {
	out := make([]catalog.Provider, 0, len(t.factories))
	for _, p := range catalog.Providers {
		if _, ok := t.factories[p]; ok {
			out = append(out, p)
		}
	}
	return slices.Clip(out)
}

// Registry groups one table per capability the gateway serves.
type Registry struct {
	Text      *Table[backend.TextClient]
	Images    *Table[backend.ImageGenerator]
	ImageEdit *Table[backend.ImageEditor]
	Video     *Table[backend.VideoGenerator]
	Audio     *Table[backend.SpeechGenerator]
	Rerank    *Table[backend.Reranker]
}

// NewRegistry returns a registry with empty tables.
func NewRegistry() *Registry {
	return &Registry{
		Text:      NewTable[backend.TextClient](catalog.TextGeneration),
		Images:    NewTable[backend.ImageGenerator](catalog.ImageGeneration),
		ImageEdit: NewTable[backend.ImageEditor](catalog.ImageEdit),
		Video:     NewTable[backend.VideoGenerator](catalog.VideoGeneration),
		Audio:     NewTable[backend.SpeechGenerator](catalog.AudioGeneration),
		Rerank:    NewTable[backend.Reranker](catalog.Rerank),
	}
}
