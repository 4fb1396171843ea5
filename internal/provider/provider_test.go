package provider

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/catalog"
	"github.com/celeste-ai/gateway/internal/types"
)

// mockReranker implements backend.Reranker for testing.
type mockReranker struct {
	model string
}

func (m *mockReranker) Rerank(ctx context.Context, query string, texts []string, topK int, opts types.Options) (*backend.RerankResult, error) {
	return &backend.RerankResult{}, nil
}

func TestTable_ResolveKnownProvider(t *testing.T) {
	table := NewTable[backend.Reranker](catalog.Rerank)
	calls := 0
	table.Register(catalog.Cohere, func(model string) (backend.Reranker, error) {
		calls++
		return &mockReranker{model: model}, nil
	})

	first, err := table.Resolve("cohere", "rerank-v3.5")
	require.NoError(t, err)
	second, err := table.Resolve("COHERE", "")
	require.NoError(t, err)

	assert.Equal(t, 2, calls, "each resolve must build a fresh client")
	assert.NotSame(t, first, second)
	assert.Equal(t, "rerank-v3.5", first.(*mockReranker).model)
	assert.Equal(t, "", second.(*mockReranker).model)
}

func TestTable_ResolveUnregisteredProvider(t *testing.T) {
	table := NewTable[backend.Reranker](catalog.Rerank)
	table.Register(catalog.Cohere, func(model string) (backend.Reranker, error) {
		return &mockReranker{}, nil
	})

	for _, id := range []string{"openai", "google", "acme", ""} {
		_, err := table.Resolve(id, "")
		require.Error(t, err, id)
		assert.True(t, errors.Is(err, ErrUnknownProvider), id)

		var upe *UnknownProviderError
		require.True(t, errors.As(err, &upe))
		assert.Equal(t, catalog.Rerank, upe.Capability)
		assert.Equal(t, id, upe.Provider)
	}
}

func TestTable_ResolveFactoryError(t *testing.T) {
	table := NewTable[backend.Reranker](catalog.Rerank)
	table.Register(catalog.Cohere, func(model string) (backend.Reranker, error) {
		return nil, backend.ErrNoAPIKey
	})

	_, err := table.Resolve("cohere", "")
	assert.True(t, errors.Is(err, backend.ErrNoAPIKey))
	assert.False(t, errors.Is(err, ErrUnknownProvider))
}

func testRegistry() *Registry {
	return NewDefaultRegistry(Options{
		Credentials: Credentials{
			GoogleAPIKey: "g-key",
			OpenAIAPIKey: "o-key",
			CohereAPIKey: "c-key",
		},
		HTTPClient: http.DefaultClient,
	})
}

func TestDefaultRegistry_Registrations(t *testing.T) {
	r := testRegistry()

	assert.Equal(t, []catalog.Provider{catalog.Google, catalog.OpenAI}, r.Text.Providers())
	assert.Equal(t, []catalog.Provider{catalog.Google, catalog.OpenAI}, r.Images.Providers())
	assert.Equal(t, []catalog.Provider{catalog.Google, catalog.OpenAI}, r.ImageEdit.Providers())
	assert.Equal(t, []catalog.Provider{catalog.Google}, r.Video.Providers())
	assert.Equal(t, []catalog.Provider{catalog.Google, catalog.OpenAI}, r.Audio.Providers())
	assert.Equal(t, []catalog.Provider{catalog.Cohere}, r.Rerank.Providers())
}

// resolveAll tries every provider against one table.
func resolveAll[C any](t *testing.T, table *Table[C]) {
	t.Helper()
	registered := table.Providers()
	for _, p := range catalog.Providers {
		_, err := table.Resolve(string(p), "")
		isRegistered := false
		for _, rp := range registered {
			if rp == p {
				isRegistered = true
			}
		}
		if isRegistered {
			assert.NoError(t, err, "%s/%s", table.Capability(), p)
			continue
		}
		assert.True(t, errors.Is(err, ErrUnknownProvider), "%s/%s must not fall back", table.Capability(), p)
	}
}

func TestDefaultRegistry_NoFallback(t *testing.T) {
	r := testRegistry()
	resolveAll(t, r.Text)
	resolveAll(t, r.Images)
	resolveAll(t, r.ImageEdit)
	resolveAll(t, r.Video)
	resolveAll(t, r.Audio)
	resolveAll(t, r.Rerank)
}

func TestDefaultRegistry_MissingKey(t *testing.T) {
	r := NewDefaultRegistry(Options{HTTPClient: http.DefaultClient})

	_, err := r.Audio.Resolve("google", "")
	assert.True(t, errors.Is(err, backend.ErrNoAPIKey))
}
