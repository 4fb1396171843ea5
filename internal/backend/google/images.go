package google

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/types"
)

// Images generates images with Imagen, or with Gemini image models.
type Images struct {
	*client
}

// NewImages returns an image client; model defaults to DefaultImageModel.
func NewImages(cfg Config, model string) (*Images, error) {
	c, err := newClient(cfg, model, DefaultImageModel)
	if err != nil {
		return nil, err
	}
	return &Images{client: c}, nil
}

type predictRequest struct {
	Instances  []map[string]any `json:"instances"`
	Parameters map[string]any   `json:"parameters,omitempty"`
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

// GenerateImages returns the generated images in upstream order.
func (g *Images) GenerateImages(ctx context.Context, prompt string, opts types.Options) ([]backend.Artifact, error) {
	if !strings.HasPrefix(g.model, "imagen") {
		return generateInline(ctx, g.client, userContent(part{Text: prompt}), opts)
	}

	req := predictRequest{
		Instances:  []map[string]any{{"prompt": prompt}},
		Parameters: generationConfig(opts),
	}
	var resp predictResponse
	if err := g.post(ctx, g.modelPath("predict"), req, &resp); err != nil {
		return nil, err
	}

	out := make([]backend.Artifact, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		data, err := base64.StdEncoding.DecodeString(p.BytesBase64Encoded)
		if err != nil {
			return nil, &backend.UpstreamError{Provider: providerName, Message: "invalid image data", Err: err}
		}
		out = append(out, backend.Artifact{
			Data:   data,
			Format: formatFromMime(p.MimeType),
			Metadata: map[string]any{
				"model":     g.model,
				"mime_type": p.MimeType,
			},
		})
	}
	return out, nil
}

// ImageEditor edits images with Gemini image models.
type ImageEditor struct {
	*client
}

// NewImageEditor returns an edit client; model defaults to DefaultEditModel.
func NewImageEditor(cfg Config, model string) (*ImageEditor, error) {
	c, err := newClient(cfg, model, DefaultEditModel)
	if err != nil {
		return nil, err
	}
	return &ImageEditor{client: c}, nil
}

// EditImage sends the prompt with the source image inline.
func (e *ImageEditor) EditImage(ctx context.Context, prompt string, image []byte, opts types.Options) ([]backend.Artifact, error) {
	src := part{InlineData: &inlineData{
		MimeType: mimetype.Detect(image).String(),
		Data:     base64.StdEncoding.EncodeToString(image),
	}}
	return generateInline(ctx, e.client, userContent(part{Text: prompt}, src), opts)
}

// generateInline runs generateContent and collects inline image parts.
func generateInline(ctx context.Context, c *client, contents []content, opts types.Options) ([]backend.Artifact, error) {
	cfg := generationConfig(opts)
	if cfg == nil {
		cfg = map[string]any{}
	}
	if _, ok := cfg["responseModalities"]; !ok {
		cfg["responseModalities"] = []string{"TEXT", "IMAGE"}
	}

	var resp generateResponse
	if err := c.post(ctx, c.modelPath("generateContent"), generateRequest{Contents: contents, GenerationConfig: cfg}, &resp); err != nil {
		return nil, err
	}
	arts, err := resp.inlineArtifacts(c.model)
	if err != nil {
		return nil, err
	}
	if text := resp.text(); text != "" {
		for i := range arts {
			arts[i].Metadata["text"] = text
		}
	}
	return arts, nil
}
