package normalize

import (
	"encoding/base64"
	"fmt"
	"maps"
	"net/url"

	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/types"
)

// DefaultAudioFormat is reported when a speech backend names no format.
const DefaultAudioFormat = "wav"

// Text maps a completion. Content is passed through untouched.
func Text(provider, model string, res *backend.TextResult) *types.TextResponse {
	return &types.TextResponse{
		Content:  res.Content,
		Provider: provider,
		Model:    model,
		Metadata: cloneMetadata(res.Metadata),
	}
}

// StreamRecord maps one stream chunk and marks it as such. An existing
// marker value is preserved.
func StreamRecord(provider, model string, chunk backend.Chunk) *types.StreamRecord {
	md := cloneMetadata(chunk.Metadata)
	if _, ok := md[types.StreamChunkKey]; !ok {
		md[types.StreamChunkKey] = true
	}
	return &types.StreamRecord{
		Content:  chunk.Content,
		Provider: provider,
		Model:    model,
		Metadata: md,
	}
}

// Images maps generated or edited images in backend order.
func Images(arts []backend.Artifact) (*types.ImagesResponse, error) {
	entries, err := artifactEntries(arts, nil, nil)
	if err != nil {
		return nil, err
	}
	return &types.ImagesResponse{Images: entries}, nil
}

// Videos maps generated videos in backend order. Each URL is rewritten
// by proxyURL when it is non-nil, and every entry carries the
// generation-level metadata beneath its own.
func Videos(res *backend.VideoResult, proxyURL func(string) string) (*types.VideosResponse, error) {
	entries, err := artifactEntries(res.Videos, res.Metadata, proxyURL)
	if err != nil {
		return nil, err
	}
	return &types.VideosResponse{Videos: entries}, nil
}

// VideoProxyURL returns the gateway path relaying remote through the media proxy.
func VideoProxyURL(prefix string) func(string) string {
	return func(remote string) string {
		return prefix + "/video/proxy?url=" + url.QueryEscape(remote)
	}
}

func artifactEntries(arts []backend.Artifact, base map[string]any, rewrite func(string) string) ([]types.ArtifactEntry, error) {
	entries := make([]types.ArtifactEntry, 0, len(arts))
	for i, a := range arts {
		if len(a.Data) == 0 && a.URL == "" && a.Path == "" {
			return nil, fmt.Errorf("artifact %d has neither data nor a reference", i)
		}

		md := cloneMetadata(base)
		maps.Copy(md, a.Metadata)

		e := types.ArtifactEntry{
			Data:     encode(a.Data),
			Metadata: md,
		}
		if a.URL != "" {
			u := a.URL
			if rewrite != nil {
				u = rewrite(u)
			}
			e.URL = &u
		}
		if a.Path != "" {
			p := a.Path
			e.Path = &p
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// InlineAudio embeds the audio bytes.
func InlineAudio(art *backend.Artifact) *types.AudioResponse {
	return &types.AudioResponse{Audio: types.InlineAudio{
		Data:       encode(art.Data),
		Format:     AudioFormat(art),
		SampleRate: sampleRate(art),
		Metadata:   cloneMetadata(art.Metadata),
	}}
}

// ProxiedAudio references audio stored under id and served at href.
func ProxiedAudio(id, href string, art *backend.Artifact) *types.AudioResponse {
	return &types.AudioResponse{Audio: types.ProxiedAudio{
		ID:         id,
		URL:        href,
		Format:     AudioFormat(art),
		SampleRate: sampleRate(art),
		Metadata:   cloneMetadata(art.Metadata),
	}}
}

// AudioFormat returns the artifact format or DefaultAudioFormat.
func AudioFormat(art *backend.Artifact) string {
	if art.Format == "" {
		return DefaultAudioFormat
	}
	return art.Format
}

// Rerank maps rerank scores, highest relevance first.
func Rerank(provider, model string, res *backend.RerankResult) *types.RerankResponse {
	entries := make([]types.RerankEntry, 0, len(res.Results))
	for _, s := range res.Results {
		entries = append(entries, types.RerankEntry{Index: s.Index, Text: s.Text, Score: s.Score})
	}
	return &types.RerankResponse{
		Content:  entries,
		Provider: provider,
		Model:    model,
		Metadata: cloneMetadata(res.Metadata),
	}
}

// encode returns nil for empty payloads so they serialize as null.
func encode(data []byte) *string {
	if len(data) == 0 {
		return nil
	}
	s := base64.StdEncoding.EncodeToString(data)
	return &s
}

func sampleRate(art *backend.Artifact) *int {
	if art.SampleRate <= 0 {
		return nil
	}
	r := art.SampleRate
	return &r
}

func cloneMetadata(md map[string]any) map[string]any {
	if md == nil {
		return map[string]any{}
	}
	return maps.Clone(md)
}
