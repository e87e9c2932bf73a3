package e2w

import (
	"fmt"
	"sync"
)

// Format is the export output format.
type Format string

const (
	FormatDOCX Format = "docx"
)

// Source keys used by default wiring.
const (
	SourceAPI = "api"
)

// SourceRegistry stores value sources by key.
type SourceRegistry struct {
	mu      sync.RWMutex
	sources map[string]ValueSource
}

// NewSourceRegistry creates an empty registry.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{sources: make(map[string]ValueSource)}
}

// Register adds a value source.
func (r *SourceRegistry) Register(key string, source ValueSource) error {
	if key == "" {
		return NewError(KindValidation, "source key is required", nil)
	}
	if source == nil {
		return NewError(KindValidation, "source is required", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sources[key]; exists {
		return NewError(KindValidation, fmt.Sprintf("source %q already registered", key), nil)
	}
	r.sources[key] = source
	return nil
}

// Resolve finds a value source by key.
func (r *SourceRegistry) Resolve(key string) (ValueSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	source, ok := r.sources[key]
	return source, ok
}

// RendererRegistry stores renderers by format.
type RendererRegistry struct {
	mu        sync.RWMutex
	renderers map[Format]Renderer
}

// NewRendererRegistry creates a registry.
func NewRendererRegistry() *RendererRegistry {
	return &RendererRegistry{renderers: make(map[Format]Renderer)}
}

// Register adds a renderer for a format.
func (r *RendererRegistry) Register(format Format, renderer Renderer) error {
	if format == "" {
		return NewError(KindValidation, "renderer format is required", nil)
	}
	if renderer == nil {
		return NewError(KindValidation, "renderer is required", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[format]; exists {
		return NewError(KindValidation, fmt.Sprintf("renderer for %q already registered", format), nil)
	}
	r.renderers[format] = renderer
	return nil
}

// Resolve returns the renderer for the format.
func (r *RendererRegistry) Resolve(format Format) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[format]
	return renderer, ok
}
