package cohere

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celeste-ai/gateway/internal/backend"
)

func TestNewReranker_RequiresKey(t *testing.T) {
	_, err := NewReranker(Config{}, "")
	assert.ErrorIs(t, err, backend.ErrNoAPIKey)
}

func TestRerank(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/rerank", r.URL.Path)
		assert.Equal(t, "Bearer co-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "rerank-v3.5", req["model"])
		assert.Equal(t, "capital of france", req["query"])
		assert.Equal(t, float64(2), req["top_n"])
		assert.Equal(t, float64(512), req["max_tokens_per_doc"])

		fmt.Fprint(w, `{"id":"rr-1","results":[{"index":2,"relevance_score":0.4},{"index":0,"relevance_score":0.9}]}`)
	}))
	defer srv.Close()

	rr, err := NewReranker(Config{APIKey: "co-key", BaseURL: srv.URL, HTTPClient: srv.Client()}, "")
	require.NoError(t, err)

	texts := []string{"Paris is the capital", "Berlin is in Germany", "France has wine"}
	res, err := rr.Rerank(context.Background(), "capital of france", texts, 2, map[string]any{"max_tokens_per_doc": 512})
	require.NoError(t, err)

	require.Len(t, res.Results, 2)
	assert.Equal(t, backend.RerankScore{Index: 0, Text: "Paris is the capital", Score: 0.9}, res.Results[0])
	assert.Equal(t, backend.RerankScore{Index: 2, Text: "France has wine", Score: 0.4}, res.Results[1])
	assert.Equal(t, "rr-1", res.Metadata["id"])
}

func TestRerank_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"invalid api token"}`)
	}))
	defer srv.Close()

	rr, err := NewReranker(Config{APIKey: "bad", BaseURL: srv.URL, HTTPClient: srv.Client()}, "")
	require.NoError(t, err)

	_, err = rr.Rerank(context.Background(), "q", []string{"a"}, 1, nil)
	var upErr *backend.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusUnauthorized, upErr.StatusCode)
	assert.Equal(t, "invalid api token", upErr.Message)
}
