package types

// ArtifactEntry is one generated image or video. Data holds base64 bytes
// and is null when the artifact only carries a URL.
type ArtifactEntry struct {
	Data     *string        `json:"data"`
	URL      *string        `json:"url,omitempty"`
	Path     *string        `json:"path"`
	Metadata map[string]any `json:"metadata"`
}

// ImagesResponse is returned by POST /images/generate and /images/edit.
type ImagesResponse struct {
	Images []ArtifactEntry `json:"images"`
}

// VideosResponse is returned by POST /video/generate.
type VideosResponse struct {
	Videos []ArtifactEntry `json:"videos"`
}
