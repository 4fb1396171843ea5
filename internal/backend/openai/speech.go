package openai

import (
	"context"
	"io"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/types"
)

// Speech synthesizes audio.
type Speech struct {
	api   *goopenai.Client
	model string
}

// NewSpeech returns a TTS client; model defaults to DefaultSpeechModel.
func NewSpeech(cfg Config, model string) (*Speech, error) {
	api, err := newAPI(cfg)
	if err != nil {
		return nil, err
	}
	return &Speech{api: api, model: modelOr(model, DefaultSpeechModel)}, nil
}

// GenerateSpeech returns the encoded audio in the requested format.
func (s *Speech) GenerateSpeech(ctx context.Context, text, voice string, opts types.Options) (*backend.Artifact, error) {
	if voice == "" {
		voice = DefaultVoice
	}
	format := DefaultAudioFormat
	if v, ok := opts.String("response_format"); ok && v != "" {
		format = v
	}

	req := goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(s.model),
		Input:          text,
		Voice:          goopenai.SpeechVoice(voice),
		ResponseFormat: goopenai.SpeechResponseFormat(format),
	}
	if v, ok := opts.Float("speed"); ok {
		req.Speed = v
	}

	raw, err := s.api.CreateSpeech(ctx, req)
	if err != nil {
		return nil, upstreamError(err)
	}
	defer raw.Close()

	data, err := io.ReadAll(raw)
	if err != nil {
		return nil, &backend.UpstreamError{Provider: providerName, Message: "read audio", Err: err}
	}

	art := &backend.Artifact{
		Data:   data,
		Format: format,
		Metadata: map[string]any{
			"model": s.model,
			"voice": voice,
		},
	}
	if format == "pcm" {
		art.SampleRate = 24000
	}
	return art, nil
}
