package types

import "encoding/json"

// StreamChunkKey marks a metadata map as belonging to a stream chunk.
const StreamChunkKey = "is_stream_chunk"

// NDJSONContentType is the media type of /text/stream responses.
const NDJSONContentType = "application/x-ndjson"

// StreamRecord is one NDJSON line emitted by /text/stream.
type StreamRecord struct {
	Content  string         `json:"content"`
	Provider string         `json:"provider"`
	Model    string         `json:"model"`
	Metadata map[string]any `json:"metadata"`
}

// FormatNDJSON serializes a record followed by a single newline.
func FormatNDJSON(rec *StreamRecord) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
