package google

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"resty.dev/v3"

	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/types"
)

// maxEventSize bounds a single SSE data line.
const maxEventSize = 1 << 20

// Text generates text with Gemini models.
type Text struct {
	*client
	stream *resty.Client
}

// NewText returns a Gemini text client for model.
func NewText(cfg Config, model string) (*Text, error) {
	c, err := newClient(cfg, model, DefaultTextModel)
	if err != nil {
		return nil, err
	}
	return &Text{client: c, stream: c.streamResty()}, nil
}

// Generate returns the full completion for prompt.
func (t *Text) Generate(ctx context.Context, prompt string, opts types.Options) (*backend.TextResult, error) {
	req := textRequest(prompt, opts)
	var resp generateResponse
	if err := t.post(ctx, t.modelPath("generateContent"), req, &resp); err != nil {
		return nil, err
	}
	return &backend.TextResult{Content: resp.text(), Metadata: resp.metadata()}, nil
}

// Stream opens a server-sent event stream of partial completions. The
// stream has no overall deadline; it ends on upstream EOF, an upstream
// error, an idle gap longer than StreamIdleTimeout or ctx cancellation.
func (t *Text) Stream(ctx context.Context, prompt string, opts types.Options) (backend.TextStream, error) {
	req := textRequest(prompt, opts)
	resp, err := t.stream.R().
		SetContext(ctx).
		SetBody(req).
		SetQueryParam("alt", "sse").
		SetDoNotParseResponse(true).
		Post(t.modelPath("streamGenerateContent"))
	if err != nil {
		return nil, &backend.UpstreamError{Provider: providerName, Err: err}
	}

	body := resp.Body
	if resp.StatusCode() >= 300 {
		defer body.Close()
		data, _ := io.ReadAll(io.LimitReader(body, maxEventSize))
		return nil, errorFromBody(resp.StatusCode(), data)
	}

	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), maxEventSize)
	return &sseStream{body: body, scanner: sc}, nil
}

// sseStream decodes "data:" events into chunks.
type sseStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

func (s *sseStream) Recv() (backend.Chunk, error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == "" || data == "[DONE]" {
			continue
		}

		var ev generateResponse
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return backend.Chunk{}, &backend.UpstreamError{Provider: providerName, Message: "malformed stream event", Err: err}
		}
		return backend.Chunk{Content: ev.text(), Metadata: ev.metadata()}, nil
	}
	if err := s.scanner.Err(); err != nil {
		return backend.Chunk{}, &backend.UpstreamError{Provider: providerName, Message: "stream interrupted", Err: err}
	}
	return backend.Chunk{}, io.EOF
}

func (s *sseStream) Close() error {
	return s.body.Close()
}

// textRequest lifts a "system" option into systemInstruction and forwards
// the remaining options as generationConfig.
func textRequest(prompt string, opts types.Options) generateRequest {
	opts = opts.Clone()
	req := generateRequest{Contents: userContent(part{Text: prompt})}
	if sys := opts.PopString("system", ""); sys != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: sys}}}
	}
	req.GenerationConfig = generationConfig(opts)
	return req
}
