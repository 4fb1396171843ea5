package shared

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celeste-ai/gateway/internal/audiostore"
	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/catalog"
	"github.com/celeste-ai/gateway/internal/mediaproxy"
	"github.com/celeste-ai/gateway/internal/provider"
	"github.com/celeste-ai/gateway/internal/types"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestErrorResponse(t *testing.T) {
	_, unknownCap := catalog.ParseCapability("smell")

	tests := []struct {
		name      string
		err       error
		status    int
		errType   string
		param     string
		code      string
		noMessage string
	}{
		{
			name:    "missing field names the field",
			err:     types.MissingField("prompt"),
			status:  http.StatusBadRequest,
			errType: types.ErrorTypeInvalidRequest,
			param:   "prompt",
		},
		{
			name:    "unknown provider for capability",
			err:     &provider.UnknownProviderError{Capability: catalog.AudioGeneration, Provider: "cohere"},
			status:  http.StatusBadRequest,
			errType: types.ErrorTypeInvalidRequest,
			param:   "provider",
		},
		{
			name:    "unknown capability filter",
			err:     unknownCap,
			status:  http.StatusBadRequest,
			errType: types.ErrorTypeInvalidRequest,
			param:   "capability",
		},
		{
			name:    "audio handle not found",
			err:     audiostore.ErrNotFound,
			status:  http.StatusNotFound,
			errType: types.ErrorTypeNotFound,
		},
		{
			name:    "backend without credentials",
			err:     fmt.Errorf("build text_generation client for google: %w", backend.ErrNoAPIKey),
			status:  http.StatusServiceUnavailable,
			errType: types.ErrorTypeServer,
		},
		{
			name:    "media upstream status",
			err:     &mediaproxy.UpstreamStatusError{StatusCode: http.StatusForbidden, Host: "example.com"},
			status:  http.StatusBadGateway,
			errType: types.ErrorTypeUpstream,
			code:    "403",
		},
		{
			name:    "upstream rate limit passes through",
			err:     &backend.UpstreamError{Provider: "openai", StatusCode: http.StatusTooManyRequests, Message: "slow down"},
			status:  http.StatusTooManyRequests,
			errType: types.ErrorTypeRateLimit,
			code:    "429",
		},
		{
			name:    "upstream server error",
			err:     &backend.UpstreamError{Provider: "google", StatusCode: http.StatusInternalServerError, Message: "boom"},
			status:  http.StatusBadGateway,
			errType: types.ErrorTypeUpstream,
			code:    "500",
		},
		{
			name:    "deadline",
			err:     fmt.Errorf("generate: %w", context.DeadlineExceeded),
			status:  http.StatusGatewayTimeout,
			errType: types.ErrorTypeTimeout,
		},
		{
			name:    "network timeout",
			err:     fmt.Errorf("post: %w", timeoutErr{}),
			status:  http.StatusGatewayTimeout,
			errType: types.ErrorTypeTimeout,
		},
		{
			name:      "unclassified errors carry no detail",
			err:       errors.New("sql: secret internal state"),
			status:    http.StatusBadGateway,
			errType:   types.ErrorTypeUpstream,
			noMessage: "secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := ErrorResponse(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.errType, body.Error.Type)

			if tt.param != "" {
				require.NotNil(t, body.Error.Param)
				assert.Equal(t, tt.param, *body.Error.Param)
			}
			if tt.code != "" {
				require.NotNil(t, body.Error.Code)
				assert.Equal(t, tt.code, *body.Error.Code)
			}
			if tt.noMessage != "" {
				assert.NotContains(t, body.Error.Message, tt.noMessage)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	status := WriteError(rec, types.MissingField("prompt"))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body types.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body.Error.Message, "prompt")
	require.NotNil(t, body.Error.Param)
	assert.Equal(t, "prompt", *body.Error.Param)
}
