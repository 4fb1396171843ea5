package normalize

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/types"
)

func fieldError(t *testing.T, err error) *types.FieldError {
	t.Helper()
	var fe *types.FieldError
	require.True(t, errors.As(err, &fe), "expected *types.FieldError, got %v", err)
	return fe
}

func TestDecode_MissingField(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		dst   any
		field string
	}{
		{"text without prompt", `{"provider":"openai","model":"gpt-4o"}`, &types.TextRequest{}, "prompt"},
		{"text without model", `{"provider":"openai","prompt":"hi"}`, &types.TextRequest{}, "model"},
		{"empty body", ``, &types.TextRequest{}, "provider"},
		{"image without prompt", `{"provider":"google"}`, &types.ImageRequest{}, "prompt"},
		{"edit without image", `{"provider":"google","prompt":"x"}`, &types.ImageEditRequest{}, "image"},
		{"audio without text", `{"provider":"google"}`, &types.AudioRequest{}, "text"},
		{"rerank without texts", `{"provider":"cohere","query":"q"}`, &types.RerankRequest{}, "texts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Decode(strings.NewReader(tt.body), tt.dst)
			fe := fieldError(t, err)
			assert.Equal(t, types.ReasonMissing, fe.Reason)
			assert.Equal(t, tt.field, fe.Field)
			assert.Contains(t, fe.Error(), tt.field)
		})
	}
}

func TestDecode_OptionalModel(t *testing.T) {
	var req types.VideoRequest
	require.NoError(t, Decode(strings.NewReader(`{"provider":"google","prompt":"waves","options":{"aspectRatio":"16:9"}}`), &req))
	assert.Empty(t, req.Model)
	assert.Equal(t, "16:9", req.Options["aspectRatio"])
}

func TestDecode_InvalidFields(t *testing.T) {
	var rr types.RerankRequest
	fe := fieldError(t, Decode(strings.NewReader(`{"provider":"cohere","query":"q","texts":[]}`), &rr))
	assert.Equal(t, "texts", fe.Field)
	assert.Equal(t, types.ReasonInvalid, fe.Reason)

	fe = fieldError(t, Decode(strings.NewReader(`{"provider":"cohere","query":"q","texts":["a"],"top_k":0}`), &types.RerankRequest{}))
	assert.Equal(t, "top_k", fe.Field)

	fe = fieldError(t, Decode(strings.NewReader(`{"provider":"openai","model":"m","prompt":42}`), &types.TextRequest{}))
	assert.Equal(t, "prompt", fe.Field)
	assert.Contains(t, fe.Detail, "string")

	fe = fieldError(t, Decode(strings.NewReader(`{"provider":`), &types.TextRequest{}))
	assert.Equal(t, "body", fe.Field)
}

func TestDecode_UnreadableBodyIsClientError(t *testing.T) {
	err := Decode(iotest.ErrReader(errors.New("connection reset by peer")), &types.TextRequest{})
	fe := fieldError(t, err)
	assert.Equal(t, "body", fe.Field)
	assert.NotContains(t, fe.Error(), "connection reset")
}

func TestGeneration_PopLeavesRequestOptionsIntact(t *testing.T) {
	req := types.AudioRequest{Provider: "google", Text: "hi", Options: types.Options{"voice": "Kore", "speed": 1.2}}
	gen := req.Generation()
	assert.Equal(t, "Kore", gen.Options.PopString("voice", "Zephyr"))
	assert.NotContains(t, gen.Options, "voice")
	assert.Contains(t, gen.Options, "speed")
	assert.Contains(t, req.Options, "voice")
}

func TestDecodeImage_RoundTrip(t *testing.T) {
	src := []byte{0x89, 'P', 'N', 'G', 0, 1, 2, 3, 255, 254}
	enc := base64.StdEncoding.EncodeToString(src)

	for _, in := range []string{
		enc,
		"data:image/png;base64," + enc,
		strings.TrimRight(enc, "="),
	} {
		got, err := DecodeImage("image", in)
		require.NoError(t, err)
		assert.Equal(t, src, got)
	}

	_, err := DecodeImage("image", "!!not base64!!")
	assert.Equal(t, "image", fieldError(t, err).Field)
}

func TestText_PassesContentAndMetadataThrough(t *testing.T) {
	res := &backend.TextResult{Content: "  exact\ncontent ", Metadata: map[string]any{"finish_reason": "stop"}}
	out := Text("openai", "gpt-4o", res)
	assert.Equal(t, res.Content, out.Content)
	assert.Equal(t, "stop", out.Metadata["finish_reason"])

	out = Text("openai", "gpt-4o", &backend.TextResult{})
	assert.NotNil(t, out.Metadata)
}

func TestStreamRecord_MarkerInjection(t *testing.T) {
	rec := StreamRecord("google", "gemini", backend.Chunk{Content: "a", Metadata: map[string]any{"k": "v"}})
	assert.Equal(t, true, rec.Metadata[types.StreamChunkKey])
	assert.Equal(t, "v", rec.Metadata["k"])

	upstream := map[string]any{types.StreamChunkKey: "upstream-value"}
	rec = StreamRecord("google", "gemini", backend.Chunk{Content: "b", Metadata: upstream})
	assert.Equal(t, "upstream-value", rec.Metadata[types.StreamChunkKey])

	rec = StreamRecord("google", "gemini", backend.Chunk{Content: "c"})
	assert.Equal(t, true, rec.Metadata[types.StreamChunkKey])
}

func TestImages_OrderAndNullData(t *testing.T) {
	arts := []backend.Artifact{
		{Data: []byte("first")},
		{URL: "https://cdn.example/second.png"},
		{Data: []byte("third"), Path: "/tmp/third.png"},
	}
	resp, err := Images(arts)
	require.NoError(t, err)
	require.Len(t, resp.Images, 3)

	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("first")), *resp.Images[0].Data)
	assert.Nil(t, resp.Images[1].Data)
	assert.Equal(t, "https://cdn.example/second.png", *resp.Images[1].URL)
	assert.Equal(t, "/tmp/third.png", *resp.Images[2].Path)

	raw, err := json.Marshal(resp.Images[1])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"data":null`)
}

func TestImages_RejectsEmptyArtifact(t *testing.T) {
	_, err := Images([]backend.Artifact{{Data: []byte("ok")}, {}})
	assert.Error(t, err)
}

func TestVideos_RewritesURLs(t *testing.T) {
	res := &backend.VideoResult{
		Videos: []backend.Artifact{
			{URL: "https://generativelanguage.googleapis.com/v1beta/files/a:download?alt=media"},
			{URL: "https://generativelanguage.googleapis.com/v1beta/files/b:download?alt=media", Metadata: map[string]any{"index": 1}},
		},
		Metadata: map[string]any{"operation": "ops/1"},
	}
	resp, err := Videos(res, VideoProxyURL("/v1"))
	require.NoError(t, err)
	require.Len(t, resp.Videos, 2)

	assert.Equal(t, "/v1/video/proxy?url=https%3A%2F%2Fgenerativelanguage.googleapis.com%2Fv1beta%2Ffiles%2Fa%3Adownload%3Falt%3Dmedia", *resp.Videos[0].URL)
	assert.Contains(t, *resp.Videos[1].URL, "files%2Fb")
	assert.Equal(t, "ops/1", resp.Videos[0].Metadata["operation"])
	assert.Equal(t, 1, resp.Videos[1].Metadata["index"])
	assert.NotContains(t, resp.Videos[0].Metadata, "index")
}

func TestAudio_Shapes(t *testing.T) {
	art := &backend.Artifact{Data: []byte("RIFF"), SampleRate: 24000, Metadata: map[string]any{"voice": "Zephyr"}}

	inline := InlineAudio(art).Audio.(types.InlineAudio)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("RIFF")), *inline.Data)
	assert.Equal(t, DefaultAudioFormat, inline.Format)
	assert.Equal(t, 24000, *inline.SampleRate)

	proxied := ProxiedAudio("abc", "/v1/audio/proxy/abc", &backend.Artifact{Format: "mp3"}).Audio.(types.ProxiedAudio)
	assert.Equal(t, "abc", proxied.ID)
	assert.Equal(t, "mp3", proxied.Format)
	assert.Nil(t, proxied.SampleRate)
}

func TestRerank(t *testing.T) {
	res := &backend.RerankResult{Results: []backend.RerankScore{{Index: 1, Text: "b", Score: 0.9}, {Index: 0, Text: "a", Score: 0.1}}}
	out := Rerank("cohere", "rerank-v3.5", res)
	require.Len(t, out.Content, 2)
	assert.Equal(t, types.RerankEntry{Index: 1, Text: "b", Score: 0.9}, out.Content[0])
	assert.Equal(t, "cohere", out.Provider)
}
