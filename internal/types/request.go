package types

// GenerationRequest is the normalized per-call input handed to a backend.
type GenerationRequest struct {
	Provider string
	Model    string
	Input    string
	Options  Options
}

// TextRequest is the body of POST /text/generate and /text/stream.
type TextRequest struct {
	Provider string  `json:"provider" validate:"required"`
	Model    string  `json:"model" validate:"required"`
	Prompt   string  `json:"prompt" validate:"required"`
	Options  Options `json:"options,omitempty"`
}

// Generation returns the normalized request.
func (r *TextRequest) Generation() GenerationRequest {
	return GenerationRequest{Provider: r.Provider, Model: r.Model, Input: r.Prompt, Options: r.Options.Clone()}
}

// ImageRequest is the body of POST /images/generate.
type ImageRequest struct {
	Provider string  `json:"provider" validate:"required"`
	Model    string  `json:"model,omitempty"`
	Prompt   string  `json:"prompt" validate:"required"`
	Options  Options `json:"options,omitempty"`
}

// Generation returns the normalized request.
func (r *ImageRequest) Generation() GenerationRequest {
	return GenerationRequest{Provider: r.Provider, Model: r.Model, Input: r.Prompt, Options: r.Options.Clone()}
}

// ImageEditRequest is the body of POST /images/edit. Image carries the
// source picture base64-encoded; a data URL prefix is tolerated.
type ImageEditRequest struct {
	Provider string  `json:"provider" validate:"required"`
	Model    string  `json:"model,omitempty"`
	Prompt   string  `json:"prompt" validate:"required"`
	Image    string  `json:"image" validate:"required"`
	Options  Options `json:"options,omitempty"`
}

// Generation returns the normalized request.
func (r *ImageEditRequest) Generation() GenerationRequest {
	return GenerationRequest{Provider: r.Provider, Model: r.Model, Input: r.Prompt, Options: r.Options.Clone()}
}

// VideoRequest is the body of POST /video/generate.
type VideoRequest struct {
	Provider string  `json:"provider" validate:"required"`
	Model    string  `json:"model,omitempty"`
	Prompt   string  `json:"prompt" validate:"required"`
	Options  Options `json:"options,omitempty"`
}

// Generation returns the normalized request.
func (r *VideoRequest) Generation() GenerationRequest {
	return GenerationRequest{Provider: r.Provider, Model: r.Model, Input: r.Prompt, Options: r.Options.Clone()}
}

// AudioRequest is the body of POST /audio/generate.
type AudioRequest struct {
	Provider string  `json:"provider" validate:"required"`
	Model    string  `json:"model,omitempty"`
	Text     string  `json:"text" validate:"required"`
	Options  Options `json:"options,omitempty"`
}

// Generation returns the normalized request.
func (r *AudioRequest) Generation() GenerationRequest {
	return GenerationRequest{Provider: r.Provider, Model: r.Model, Input: r.Text, Options: r.Options.Clone()}
}

// RerankRequest is the body of POST /rerank.
type RerankRequest struct {
	Provider string   `json:"provider" validate:"required"`
	Model    string   `json:"model,omitempty"`
	Query    string   `json:"query" validate:"required"`
	Texts    []string `json:"texts" validate:"required,min=1"`
	TopK     *int     `json:"top_k,omitempty" validate:"omitempty,min=1"`
	Options  Options  `json:"options,omitempty"`
}

// Generation returns the normalized request.
func (r *RerankRequest) Generation() GenerationRequest {
	return GenerationRequest{Provider: r.Provider, Model: r.Model, Input: r.Query, Options: r.Options.Clone()}
}
