// Package stream relays a backend text stream to an HTTP response as
// newline-delimited JSON.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/celeste-ai/gateway/internal/backend"
	"github.com/celeste-ai/gateway/internal/metrics"
	"github.com/celeste-ai/gateway/internal/normalize"
	"github.com/celeste-ai/gateway/internal/types"
)

// ErrStreamingUnsupported is returned when the writer cannot flush.
var ErrStreamingUnsupported = errors.New("streaming unsupported by response writer")

// Result summarizes a finished pipe.
type Result struct {
	// Records is the number of NDJSON records fully written.
	Records int
	// Committed reports whether the 200 status and headers were sent.
	Committed bool
}

// Pipe writes one NDJSON record per chunk received from src, flushing after
// each, and closes src before returning. The next chunk is not pulled until
// the current record has been flushed. Pipe stops early when ctx is done or
// a write fails, which releases the upstream stream.
//
// Once Committed is true the status can no longer change; a non-nil error
// then means the stream ended without reaching upstream EOF.
func Pipe(ctx context.Context, w http.ResponseWriter, src backend.TextStream, provider, model string) (Result, error) {
	defer src.Close()

	var res Result
	flusher, ok := w.(http.Flusher)
	if !ok {
		return res, ErrStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", types.NDJSONContentType)
	h.Set("Cache-Control", "no-cache")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	res.Committed = true

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		chunk, err := src.Recv()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			metrics.RecordStreamFailure(provider)
			return res, fmt.Errorf("upstream stream after %d records: %w", res.Records, err)
		}

		line, err := types.FormatNDJSON(normalize.StreamRecord(provider, model, chunk))
		if err != nil {
			return res, fmt.Errorf("encode stream record: %w", err)
		}
		if _, err := w.Write(line); err != nil {
			return res, fmt.Errorf("write stream record: %w", err)
		}
		flusher.Flush()

		res.Records++
		metrics.RecordStreamChunk(provider)
	}
}
