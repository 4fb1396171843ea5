// Package cohere adapts the Cohere v2 rerank endpoint.
package cohere

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"resty.dev/v3"

	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/types"
)

const providerName = "cohere"

// DefaultBaseURL is the Cohere API root.
const DefaultBaseURL = "https://api.cohere.com"

// DefaultRerankModel is used when the request names no model.
const DefaultRerankModel = "rerank-v3.5"

// Config configures the Cohere backend.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Reranker scores texts against a query.
type Reranker struct {
	rc    *resty.Client
	model string
}

// NewReranker returns a rerank client; model defaults to DefaultRerankModel.
func NewReranker(cfg Config, model string) (*Reranker, error) {
	if cfg.APIKey == "" {
		return nil, backend.ErrNoAPIKey
	}
	if model == "" {
		model = DefaultRerankModel
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	hc := &http.Client{}
	if cfg.HTTPClient != nil {
		hc.Transport = cfg.HTTPClient.Transport
		hc.Timeout = cfg.HTTPClient.Timeout
	}
	rc := resty.NewWithClient(hc).
		SetBaseURL(strings.TrimSuffix(base, "/")).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &Reranker{rc: rc, model: model}, nil
}

type rerankResponse struct {
	ID      string `json:"id"`
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
	Meta map[string]any `json:"meta,omitempty"`
}

// Rerank returns the topK most relevant texts, highest score first.
// Extra options are forwarded in the request body.
func (r *Reranker) Rerank(ctx context.Context, query string, texts []string, topK int, opts types.Options) (*backend.RerankResult, error) {
	body := make(map[string]any, len(opts)+4)
	for k, v := range opts {
		body[k] = v
	}
	body["model"] = r.model
	body["query"] = query
	body["documents"] = texts
	body["top_n"] = topK

	resp, err := r.rc.R().
		SetContext(ctx).
		SetBody(body).
		Post("/v2/rerank")
	if err != nil {
		return nil, &backend.UpstreamError{Provider: providerName, Err: err}
	}
	if resp.IsError() {
		return nil, &backend.UpstreamError{Provider: providerName, StatusCode: resp.StatusCode(), Message: errorMessage(resp.Bytes())}
	}

	var out rerankResponse
	if err := json.Unmarshal(resp.Bytes(), &out); err != nil {
		return nil, &backend.UpstreamError{Provider: providerName, StatusCode: resp.StatusCode(), Message: "malformed response", Err: err}
	}

	scores := make([]backend.RerankScore, 0, len(out.Results))
	for _, res := range out.Results {
		if res.Index < 0 || res.Index >= len(texts) {
			return nil, &backend.UpstreamError{Provider: providerName, Message: "result index out of range"}
		}
		scores = append(scores, backend.RerankScore{Index: res.Index, Text: texts[res.Index], Score: res.RelevanceScore})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })

	md := map[string]any{"model": r.model}
	if out.ID != "" {
		md["id"] = out.ID
	}
	if out.Meta != nil {
		md["meta"] = out.Meta
	}
	return &backend.RerankResult{Results: scores, Metadata: md}, nil
}

func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(body))
}
