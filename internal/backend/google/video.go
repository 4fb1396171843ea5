package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/types"
)

// Video generates videos with Veo long-running operations.
type Video struct {
	*client
}

// NewVideo returns a Veo client; model defaults to DefaultVideoModel.
func NewVideo(cfg Config, model string) (*Video, error) {
	c, err := newClient(cfg, model, DefaultVideoModel)
	if err != nil {
		return nil, err
	}
	return &Video{client: c}, nil
}

type operation struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Response struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response"`
}

// GenerateVideos starts the operation and polls it until done. Videos come
// back as URLs on MediaHost which still need the API key to download.
func (v *Video) GenerateVideos(ctx context.Context, prompt string, opts types.Options) (*backend.VideoResult, error) {
	timeout := v.cfg.VideoTimeout
	if timeout <= 0 {
		timeout = defaultVideoTimeout
	}
	interval := v.cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := predictRequest{
		Instances:  []map[string]any{{"prompt": prompt}},
		Parameters: generationConfig(opts),
	}
	var op operation
	if err := v.post(ctx, v.modelPath("predictLongRunning"), req, &op); err != nil {
		return nil, err
	}
	if op.Name == "" && !op.Done {
		return nil, &backend.UpstreamError{Provider: providerName, Message: "operation has no name"}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for !op.Done {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("video operation %s: %w", op.Name, ctx.Err())
		case <-ticker.C:
		}
		name := op.Name
		if err := v.get(ctx, "/"+strings.TrimPrefix(name, "/"), &op); err != nil {
			return nil, err
		}
		if op.Name == "" {
			op.Name = name
		}
	}

	if op.Error != nil {
		return nil, &backend.UpstreamError{Provider: providerName, Message: op.Error.Message}
	}

	samples := op.Response.GenerateVideoResponse.GeneratedSamples
	videos := make([]backend.Artifact, 0, len(samples))
	for _, s := range samples {
		videos = append(videos, backend.Artifact{
			URL:      s.Video.URI,
			Format:   "mp4",
			Metadata: map[string]any{"model": v.model},
		})
	}
	return &backend.VideoResult{
		Videos: videos,
		Metadata: map[string]any{
			"model":     v.model,
			"operation": op.Name,
		},
	}, nil
}
