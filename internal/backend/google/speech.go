package google

import (
	"context"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/types"
)

// pcmSampleRate is the Gemini TTS output rate when the MIME type omits it.
const pcmSampleRate = 24000

// Speech synthesizes audio with Gemini TTS models.
type Speech struct {
	*client
}

// NewSpeech returns a TTS client; model defaults to DefaultSpeechModel.
func NewSpeech(cfg Config, model string) (*Speech, error) {
	c, err := newClient(cfg, model, DefaultSpeechModel)
	if err != nil {
		return nil, err
	}
	return &Speech{client: c}, nil
}

// GenerateSpeech returns 16-bit mono PCM wrapped in a WAV container.
func (s *Speech) GenerateSpeech(ctx context.Context, text, voice string, opts types.Options) (*backend.Artifact, error) {
	if voice == "" {
		voice = DefaultVoice
	}
	cfg := generationConfig(opts)
	if cfg == nil {
		cfg = map[string]any{}
	}
	cfg["responseModalities"] = []string{"AUDIO"}
	cfg["speechConfig"] = map[string]any{
		"voiceConfig": map[string]any{
			"prebuiltVoiceConfig": map[string]any{"voiceName": voice},
		},
	}

	var resp generateResponse
	req := generateRequest{Contents: userContent(part{Text: text}), GenerationConfig: cfg}
	if err := s.post(ctx, s.modelPath("generateContent"), req, &resp); err != nil {
		return nil, err
	}

	for _, c := range resp.Candidates {
		for _, p := range c.Content.Parts {
			if p.InlineData == nil {
				continue
			}
			pcm, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, &backend.UpstreamError{Provider: providerName, Message: "invalid audio data", Err: err}
			}
			rate := sampleRate(p.InlineData.MimeType)
			return &backend.Artifact{
				Data:       wavFromPCM(pcm, rate, 1, 16),
				Format:     "wav",
				SampleRate: rate,
				Metadata: map[string]any{
					"model": s.model,
					"voice": voice,
				},
			}, nil
		}
	}
	return nil, &backend.UpstreamError{Provider: providerName, Message: "response contained no audio"}
}

// sampleRate reads the rate parameter of "audio/L16;codec=pcm;rate=24000".
func sampleRate(mime string) int {
	for _, param := range strings.Split(mime, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(k, "rate") {
			continue
		}
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return pcmSampleRate
}
