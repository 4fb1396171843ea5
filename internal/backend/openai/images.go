package openai

import (
	"bytes"
	"context"
	"encoding/base64"

	"github.com/gabriel-vasile/mimetype"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/types"
)

// Images generates images.
type Images struct {
	api   *goopenai.Client
	model string
}

// NewImages returns an image client; model defaults to DefaultImageModel.
func NewImages(cfg Config, model string) (*Images, error) {
	api, err := newAPI(cfg)
	if err != nil {
		return nil, err
	}
	return &Images{api: api, model: modelOr(model, DefaultImageModel)}, nil
}

// GenerateImages requests base64 payloads unless the caller asks for URLs.
func (g *Images) GenerateImages(ctx context.Context, prompt string, opts types.Options) ([]backend.Artifact, error) {
	req := goopenai.ImageRequest{
		Prompt:         prompt,
		Model:          g.model,
		ResponseFormat: responseFormat(g.model, opts),
	}
	if v, ok := opts.Int("n"); ok {
		req.N = v
	}
	if v, ok := opts.String("size"); ok {
		req.Size = v
	}
	if v, ok := opts.String("quality"); ok {
		req.Quality = v
	}
	if v, ok := opts.String("style"); ok {
		req.Style = v
	}

	resp, err := g.api.CreateImage(ctx, req)
	if err != nil {
		return nil, upstreamError(err)
	}
	return artifacts(g.model, resp)
}

// ImageEditor edits images.
type ImageEditor struct {
	api   *goopenai.Client
	model string
}

// NewImageEditor returns an edit client; model defaults to DefaultEditModel.
func NewImageEditor(cfg Config, model string) (*ImageEditor, error) {
	api, err := newAPI(cfg)
	if err != nil {
		return nil, err
	}
	return &ImageEditor{api: api, model: modelOr(model, DefaultEditModel)}, nil
}

// EditImage uploads the source image as a multipart file.
func (e *ImageEditor) EditImage(ctx context.Context, prompt string, image []byte, opts types.Options) ([]backend.Artifact, error) {
	mime := mimetype.Detect(image)
	req := goopenai.ImageEditRequest{
		Image:          goopenai.WrapReader(bytes.NewReader(image), "image"+mime.Extension(), mime.String()),
		Prompt:         prompt,
		Model:          e.model,
		N:              1,
		ResponseFormat: responseFormat(e.model, opts),
	}
	if v, ok := opts.Int("n"); ok {
		req.N = v
	}
	if v, ok := opts.String("size"); ok {
		req.Size = v
	}

	resp, err := e.api.CreateEditImage(ctx, req)
	if err != nil {
		return nil, upstreamError(err)
	}
	return artifacts(e.model, resp)
}

// responseFormat defaults to b64_json. gpt-image models reject the field
// and always return base64.
func responseFormat(model string, opts types.Options) string {
	if v, ok := opts.String("response_format"); ok {
		return v
	}
	if model == "gpt-image-1" {
		return ""
	}
	return goopenai.CreateImageResponseFormatB64JSON
}

func artifacts(model string, resp goopenai.ImageResponse) ([]backend.Artifact, error) {
	out := make([]backend.Artifact, 0, len(resp.Data))
	for _, d := range resp.Data {
		a := backend.Artifact{
			URL:      d.URL,
			Format:   "png",
			Metadata: map[string]any{"model": model},
		}
		if d.RevisedPrompt != "" {
			a.Metadata["revised_prompt"] = d.RevisedPrompt
		}
		if d.B64JSON != "" {
			data, err := base64.StdEncoding.DecodeString(d.B64JSON)
			if err != nil {
				return nil, &backend.UpstreamError{Provider: providerName, Message: "invalid image data", Err: err}
			}
			a.Data = data
		}
		out = append(out, a)
	}
	return out, nil
}
