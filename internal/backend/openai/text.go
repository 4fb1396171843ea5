package openai

import (
	"context"
	"errors"
	"io"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/types"
)

// Text generates chat completions.
type Text struct {
	api    *goopenai.Client
	stream *goopenai.Client
	model  string
}

// NewText returns a chat client for model.
func NewText(cfg Config, model string) (*Text, error) {
	api, err := newAPI(cfg)
	if err != nil {
		return nil, err
	}
	stream, err := newStreamAPI(cfg)
	if err != nil {
		return nil, err
	}
	return &Text{api: api, stream: stream, model: modelOr(model, DefaultTextModel)}, nil
}

// chatRequest maps the recognised sampling options onto the request.
// A "system" option becomes a leading system message.
func (t *Text) chatRequest(prompt string, opts types.Options) goopenai.ChatCompletionRequest {
	req := goopenai.ChatCompletionRequest{Model: t.model}
	if sys, ok := opts.String("system"); ok && sys != "" {
		req.Messages = append(req.Messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleSystem, Content: sys})
	}
	req.Messages = append(req.Messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: prompt})

	if v, ok := opts.Float("temperature"); ok {
		req.Temperature = float32(v)
	}
	if v, ok := opts.Float("top_p"); ok {
		req.TopP = float32(v)
	}
	if v, ok := opts.Int("max_tokens"); ok {
		req.MaxTokens = v
	}
	if v, ok := opts.Float("presence_penalty"); ok {
		req.PresencePenalty = float32(v)
	}
	if v, ok := opts.Float("frequency_penalty"); ok {
		req.FrequencyPenalty = float32(v)
	}
	if v, ok := opts.Int("seed"); ok {
		req.Seed = &v
	}
	if v, ok := opts.String("user"); ok {
		req.User = v
	}
	return req
}

// Generate returns the first choice of a chat completion.
func (t *Text) Generate(ctx context.Context, prompt string, opts types.Options) (*backend.TextResult, error) {
	resp, err := t.api.CreateChatCompletion(ctx, t.chatRequest(prompt, opts))
	if err != nil {
		return nil, upstreamError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &backend.UpstreamError{Provider: providerName, Message: "completion has no choices"}
	}
	choice := resp.Choices[0]
	return &backend.TextResult{
		Content: choice.Message.Content,
		Metadata: map[string]any{
			"id":            resp.ID,
			"model":         resp.Model,
			"finish_reason": string(choice.FinishReason),
			"usage":         usageMap(resp.Usage),
		},
	}, nil
}

// Stream opens a streamed chat completion. It has no overall deadline;
// each event must arrive within StreamIdleTimeout.
func (t *Text) Stream(ctx context.Context, prompt string, opts types.Options) (backend.TextStream, error) {
	req := t.chatRequest(prompt, opts)
	req.Stream = true
	req.StreamOptions = &goopenai.StreamOptions{IncludeUsage: true}

	s, err := t.stream.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, upstreamError(err)
	}
	return &textStream{s: s}, nil
}

type textStream struct {
	s *goopenai.ChatCompletionStream
}

func (ts *textStream) Recv() (backend.Chunk, error) {
	for {
		resp, err := ts.s.Recv()
		if errors.Is(err, io.EOF) {
			return backend.Chunk{}, io.EOF
		}
		if err != nil {
			return backend.Chunk{}, upstreamError(err)
		}

		if len(resp.Choices) == 0 {
			// The trailing usage event carries no choices.
			if resp.Usage != nil {
				return backend.Chunk{Metadata: map[string]any{"usage": usageMap(*resp.Usage)}}, nil
			}
			continue
		}

		choice := resp.Choices[0]
		md := map[string]any{}
		if choice.FinishReason != "" {
			md["finish_reason"] = string(choice.FinishReason)
		}
		return backend.Chunk{Content: choice.Delta.Content, Metadata: md}, nil
	}
}

func (ts *textStream) Close() error {
	return ts.s.Close()
}

func usageMap(u goopenai.Usage) map[string]any {
	return map[string]any{
		"prompt_tokens":     u.PromptTokens,
		"completion_tokens": u.CompletionTokens,
		"total_tokens":      u.TotalTokens,
	}
}
