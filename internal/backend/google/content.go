package google

import (
	"encoding/base64"
	"strings"

	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/types"
)

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateRequest struct {
	Contents          []content      `json:"contents"`
	SystemInstruction *content       `json:"systemInstruction,omitempty"`
	GenerationConfig  map[string]any `json:"generationConfig,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type generateResponse struct {
	Candidates    []candidate    `json:"candidates"`
	UsageMetadata map[string]any `json:"usageMetadata,omitempty"`
	ModelVersion  string         `json:"modelVersion,omitempty"`
	ResponseID    string         `json:"responseId,omitempty"`
}

func userContent(parts ...part) []content {
	return []content{{Role: "user", Parts: parts}}
}

// generationConfig forwards the options bag verbatim.
func generationConfig(opts types.Options) map[string]any {
	if len(opts) == 0 {
		return nil
	}
	cfg := make(map[string]any, len(opts))
	for k, v := range opts {
		cfg[k] = v
	}
	return cfg
}

// text joins the text parts of the first candidate.
func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

func (r *generateResponse) metadata() map[string]any {
	md := map[string]any{}
	if len(r.Candidates) > 0 && r.Candidates[0].FinishReason != "" {
		md["finish_reason"] = r.Candidates[0].FinishReason
	}
	if r.UsageMetadata != nil {
		md["usage"] = r.UsageMetadata
	}
	if r.ModelVersion != "" {
		md["model_version"] = r.ModelVersion
	}
	if r.ResponseID != "" {
		md["response_id"] = r.ResponseID
	}
	return md
}

// inlineArtifacts decodes every inline part of the first candidate, in order.
func (r *generateResponse) inlineArtifacts(model string) ([]backend.Artifact, error) {
	if len(r.Candidates) == 0 {
		return nil, nil
	}
	var out []backend.Artifact
	for _, p := range r.Candidates[0].Content.Parts {
		if p.InlineData == nil {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
		if err != nil {
			return nil, &backend.UpstreamError{Provider: providerName, Message: "invalid inline data", Err: err}
		}
		out = append(out, backend.Artifact{
			Data:   data,
			Format: formatFromMime(p.InlineData.MimeType),
			Metadata: map[string]any{
				"model":     model,
				"mime_type": p.InlineData.MimeType,
			},
		})
	}
	return out, nil
}

// formatFromMime turns "image/png" into "png"; parameters are ignored.
func formatFromMime(mime string) string {
	mime, _, _ = strings.Cut(mime, ";")
	_, sub, ok := strings.Cut(mime, "/")
	if !ok {
		return ""
	}
	return strings.ToLower(sub)
}
