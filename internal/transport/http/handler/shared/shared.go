// Package shared holds the JSON and error writers every handler uses.
package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/celeste-ai/gateway/internal/audiostore"
	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/catalog"
	"github.com/celeste-ai/gateway/internal/mediaproxy"
	"github.com/celeste-ai/gateway/internal/provider"
	"github.com/celeste-ai/gateway/internal/types"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError maps err to a status and JSON envelope, writes it and returns
// the status.
func WriteError(w http.ResponseWriter, err error) int {
	status, body := ErrorResponse(err)
	types.WriteError(w, status, body)
	return status
}

// ErrorResponse classifies err. Client input problems name the offending
// field; unclassified failures carry no internal detail.
func ErrorResponse(err error) (int, *types.APIError) {
	var (
		fieldErr    *types.FieldError
		unknownProv *provider.UnknownProviderError
		mediaErr    *mediaproxy.UpstreamStatusError
		upstreamErr *backend.UpstreamError
		netErr      net.Error
	)

	switch {
	case errors.As(err, &fieldErr):
		return http.StatusBadRequest, types.NewAPIErrorWithParam(fieldErr.Error(), types.ErrorTypeInvalidRequest, fieldErr.Field)

	case errors.As(err, &unknownProv):
		return http.StatusBadRequest, types.NewAPIErrorWithParam(unknownProv.Error(), types.ErrorTypeInvalidRequest, "provider")

	case errors.Is(err, catalog.ErrUnknownCapability):
		return http.StatusBadRequest, types.NewAPIErrorWithParam(err.Error(), types.ErrorTypeInvalidRequest, "capability")

	case errors.Is(err, catalog.ErrUnknownProvider):
		return http.StatusBadRequest, types.NewAPIErrorWithParam(err.Error(), types.ErrorTypeInvalidRequest, "provider")

	case errors.Is(err, audiostore.ErrNotFound):
		return http.StatusNotFound, types.ErrNotFound(err.Error())

	case errors.Is(err, audiostore.ErrRejected):
		return http.StatusInternalServerError, types.ErrServer("generated audio could not be stored")

	case errors.Is(err, backend.ErrNoAPIKey):
		return http.StatusServiceUnavailable, types.NewAPIError("provider credentials are not configured", types.ErrorTypeServer)

	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return http.StatusGatewayTimeout, types.NewAPIError("upstream request timed out", types.ErrorTypeTimeout)

	case errors.As(err, &mediaErr):
		return http.StatusBadGateway, types.NewAPIErrorWithCode(mediaErr.Error(), types.ErrorTypeUpstream, strconv.Itoa(mediaErr.StatusCode))

	case errors.As(err, &upstreamErr):
		if upstreamErr.StatusCode == http.StatusTooManyRequests {
			return http.StatusTooManyRequests, types.NewAPIErrorWithCode(upstreamErr.Error(), types.ErrorTypeRateLimit, "429")
		}
		if upstreamErr.StatusCode > 0 {
			return http.StatusBadGateway, types.NewAPIErrorWithCode(upstreamErr.Error(), types.ErrorTypeUpstream, strconv.Itoa(upstreamErr.StatusCode))
		}
		return http.StatusBadGateway, types.NewAPIError(upstreamErr.Error(), types.ErrorTypeUpstream)
	}

	return http.StatusBadGateway, types.NewAPIError("upstream request failed", types.ErrorTypeUpstream)
}
