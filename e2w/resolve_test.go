package e2w

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type recordingSource struct {
	mu    sync.Mutex
	specs []ResolveSpec
	fn    func(spec ResolveSpec) (any, error)
}

func (s *recordingSource) Resolve(ctx context.Context, spec ResolveSpec) (any, error) {
	_ = ctx
	s.mu.Lock()
	s.specs = append(s.specs, spec)
	s.mu.Unlock()
	if s.fn != nil {
		return s.fn(spec)
	}
	return spec.Key + "-value", nil
}

func TestResolver_MergesResolvedValues(t *testing.T) {
	source := &recordingSource{}
	resolver := &Resolver{Source: source}

	data := Context{
		"title": "Report",
		KeyAPIs: map[string]any{
			"products": map[string]any{"url": "https://x/products"},
			"owner":    map[string]any{"url": "https://x/owner"},
		},
		KeyAPIHeaders: map[string]any{"Authorization": "token"},
	}

	merged, err := resolver.Resolve(context.Background(), data)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if merged["products"] != "products-value" {
		t.Fatalf("products not merged: %v", merged)
	}
	if merged["owner"] != "owner-value" {
		t.Fatalf("owner not merged: %v", merged)
	}
	if merged["title"] != "Report" {
		t.Fatalf("literal lost: %v", merged)
	}
	if len(source.specs) != 2 {
		t.Fatalf("expected 2 resolutions, got %d", len(source.specs))
	}
	for _, spec := range source.specs {
		if spec.Headers["Authorization"] != "token" {
			t.Fatalf("shared headers not passed: %+v", spec)
		}
	}
}

func TestResolver_ResultKeyOverride(t *testing.T) {
	source := &recordingSource{}
	resolver := &Resolver{Source: source}

	data := Context{
		KeyAPIs: map[string]any{
			"products": map[string]any{"url": "https://x/products", "result": "catalog"},
		},
	}

	merged, err := resolver.Resolve(context.Background(), data)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if merged["catalog"] != "products-value" {
		t.Fatalf("value not merged under override key: %v", merged)
	}
	if _, ok := merged["products"]; ok {
		t.Fatalf("original key should not be populated: %v", merged)
	}
}

func TestResolver_FirstFailureAborts(t *testing.T) {
	boom := errors.New("boom")
	source := &recordingSource{fn: func(spec ResolveSpec) (any, error) {
		if spec.Key == "bad" {
			return nil, NewFetchError(spec.Call.URL, boom)
		}
		return "ok", nil
	}}
	resolver := &Resolver{Source: source, Concurrency: 1}

	data := Context{
		KeyAPIs: map[string]any{
			"bad":  map[string]any{"url": "https://x/bad"},
			"good": map[string]any{"url": "https://x/good"},
		},
	}

	_, err := resolver.Resolve(context.Background(), data)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if KindFromError(err) != KindFetch {
		t.Fatalf("expected fetch kind, got %q", KindFromError(err))
	}
}

func TestResolver_NoCallsPassthrough(t *testing.T) {
	resolver := &Resolver{Source: &recordingSource{}}
	merged, err := resolver.Resolve(context.Background(), Context{"title": "x"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if merged["title"] != "x" {
		t.Fatalf("unexpected merged context %v", merged)
	}
}

func TestResolver_RequiresSource(t *testing.T) {
	resolver := &Resolver{}
	if _, err := resolver.Resolve(context.Background(), Context{}); err == nil {
		t.Fatal("expected error for missing source")
	}
}
