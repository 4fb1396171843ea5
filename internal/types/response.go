package types

// TextResponse is returned by POST /text/generate.
type TextResponse struct {
	Content  string         `json:"content"`
	Provider string         `json:"provider"`
	Model    string         `json:"model"`
	Metadata map[string]any `json:"metadata"`
}

// RerankResponse is returned by POST /rerank.
type RerankResponse struct {
	Content  []RerankEntry  `json:"content"`
	Provider string         `json:"provider"`
	Model    string         `json:"model"`
	Metadata map[string]any `json:"metadata"`
}

// RerankEntry is one scored input text, highest relevance first.
type RerankEntry struct {
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// CapabilityInfo is one entry of GET /capabilities.
type CapabilityInfo struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ProviderInfo is one entry of GET /providers.
type ProviderInfo struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ModelInfo is one entry of GET /models.
type ModelInfo struct {
	ID           string   `json:"id"`
	Provider     string   `json:"provider"`
	DisplayName  string   `json:"display_name"`
	Capabilities []string `json:"capabilities"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}
