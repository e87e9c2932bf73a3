package callbacksource

import (
	"context"

	"github.com/goliatone/go-e2w/e2w"
)

// SourceFunc resolves a single context entry.
type SourceFunc func(ctx context.Context, spec e2w.ResolveSpec) (any, error)

// Source wraps a callback function as a ValueSource.
type Source struct {
	fn SourceFunc
}

// NewSource creates a callback-based ValueSource.
func NewSource(fn SourceFunc) *Source {
	return &Source{fn: fn}
}

// Resolve delegates to the configured callback.
func (s *Source) Resolve(ctx context.Context, spec e2w.ResolveSpec) (any, error) {
	if s == nil || s.fn == nil {
		return nil, e2w.NewError(e2w.KindValidation, "callback source requires a function", nil)
	}
	return s.fn(ctx, spec)
}

// Static returns a source that answers every key from a fixed map.
// Unknown keys resolve to a not-found error.
func Static(values map[string]any) *Source {
	return NewSource(func(_ context.Context, spec e2w.ResolveSpec) (any, error) {
		value, ok := values[spec.Key]
		if !ok {
			return nil, e2w.NewError(e2w.KindNotFound, "no value for key "+spec.Key, nil)
		}
		return value, nil
	})
}
