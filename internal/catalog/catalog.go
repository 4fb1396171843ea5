// Package catalog holds the static capability, provider and model registry
// the gateway advertises and resolves against.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownCapability is returned when a capability name is not recognized.
	ErrUnknownCapability = errors.New("unknown capability")

	// ErrUnknownProvider is returned when a provider id is not recognized.
	ErrUnknownProvider = errors.New("unknown provider")
)

// Capability identifies a class of generation task.
type Capability string

const (
	TextGeneration  Capability = "text_generation"
	ImageGeneration Capability = "image_generation"
	ImageEdit       Capability = "image_edit"
	VideoGeneration Capability = "video_generation"
	AudioGeneration Capability = "audio_generation"
	Rerank          Capability = "rerank"
	Embeddings      Capability = "embeddings"
)

// Capabilities lists every capability in display order.
var Capabilities = []Capability{
	TextGeneration,
	ImageGeneration,
	ImageEdit,
	VideoGeneration,
	AudioGeneration,
	Rerank,
	Embeddings,
}

var capabilityLabels = map[Capability]string{
	TextGeneration:  "Text generation",
	ImageGeneration: "Image generation",
	ImageEdit:       "Image editing",
	VideoGeneration: "Video generation",
	AudioGeneration: "Audio generation",
	Rerank:          "Rerank",
	Embeddings:      "Embeddings",
}

// Label returns the human readable name.
func (c Capability) Label() string {
	if l, ok := capabilityLabels[c]; ok {
		return l
	}
	return string(c)
}

// ParseCapability matches a capability name case-insensitively.
func ParseCapability(name string) (Capability, error) {
	c := Capability(strings.ToLower(strings.TrimSpace(name)))
	if slices.Contains(Capabilities, c) {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCapability, name)
}

// Provider identifies an upstream AI vendor.
type Provider string

const (
	Google Provider = "google"
	OpenAI Provider = "openai"
	Cohere Provider = "cohere"
)

// Providers lists every provider in display order.
var Providers = []Provider{Google, OpenAI, Cohere}

var providerLabels = map[Provider]string{
	Google: "Google",
	OpenAI: "OpenAI",
	Cohere: "Cohere",
}

// Label returns the vendor display name.
func (p Provider) Label() string {
	if l, ok := providerLabels[p]; ok {
		return l
	}
	return string(p)
}

// ParseProvider matches a provider id case-insensitively.
func ParseProvider(id string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(id)))
	if slices.Contains(Providers, p) {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, id)
}

// Model is a read-only catalog entry.
type Model struct {
	ID           string       `yaml:"id"`
	Provider     Provider     `yaml:"provider"`
	DisplayName  string       `yaml:"display_name"`
	Capabilities []Capability `yaml:"capabilities"`
}

// Supports reports whether the model advertises the capability.
func (m Model) Supports(c Capability) bool {
	return slices.Contains(m.Capabilities, c)
}

// Catalog is an immutable list of models.
type Catalog struct {
	models []Model
}

//go:embed models.yaml
var defaultModels []byte

// Default parses the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultModels)
}

// Parse decodes a YAML model list and validates every entry against the
// known providers and capabilities.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Models []Model `yaml:"models"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	for i := range doc.Models {
		m := &doc.Models[i]
		if m.ID == "" {
			return nil, fmt.Errorf("catalog entry %d: missing id", i)
		}
		p, err := ParseProvider(string(m.Provider))
		if err != nil {
			return nil, fmt.Errorf("catalog entry %s: %w", m.ID, err)
		}
		m.Provider = p
		for j, c := range m.Capabilities {
			parsed, err := ParseCapability(string(c))
			if err != nil {
				return nil, fmt.Errorf("catalog entry %s: %w", m.ID, err)
			}
			m.Capabilities[j] = parsed
		}
		if m.DisplayName == "" {
			m.DisplayName = m.ID
		}
	}

	return &Catalog{models: doc.Models}, nil
}

// ListModels returns the models matching both filters, in catalog order.
// Empty filters match everything.
func (c *Catalog) ListModels(provider Provider, capability Capability) []Model {
	out := make([]Model, 0, len(c.models))
	for _, m := range c.models {
		if provider != "" && m.Provider != provider {
			continue
		}
		if capability != "" && !m.Supports(capability) {
			continue
		}
		out = append(out, m)
	}
	return out
}
