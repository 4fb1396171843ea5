package types

// AudioResponse is returned by POST /audio/generate. Audio holds either an
// InlineAudio or a ProxiedAudio depending on the deployment's delivery mode.
type AudioResponse struct {
	Audio any `json:"audio"`
}

// InlineAudio carries the generated bytes base64-encoded in the body.
type InlineAudio struct {
	Data       *string        `json:"data"`
	Format     string         `json:"format"`
	SampleRate *int           `json:"sample_rate"`
	Metadata   map[string]any `json:"metadata"`
}

// ProxiedAudio points at the retrieval endpoint holding the generated bytes.
type ProxiedAudio struct {
	ID         string         `json:"id"`
	URL        string         `json:"url"`
	Format     string         `json:"format"`
	SampleRate *int           `json:"sample_rate"`
	Metadata   map[string]any `json:"metadata"`
}
