package e2w

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	errorslib "github.com/goliatone/go-errors"
)

func TestNewFetchError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewFetchError("https://api.example.com/products", cause)

	if err.Kind != KindFetch {
		t.Fatalf("expected fetch kind, got %q", err.Kind)
	}
	if !strings.Contains(err.Error(), "https://api.example.com/products") {
		t.Fatalf("URL missing from message: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause not wrapped")
	}
}

func TestNewRenderError(t *testing.T) {
	err := NewRenderError("report.html", errors.New("bad tag"))
	if err.Kind != KindRender {
		t.Fatalf("expected render kind, got %q", err.Kind)
	}
	if !strings.Contains(err.Error(), "report.html") {
		t.Fatalf("template missing from message: %q", err.Error())
	}
}

func TestAsGoError_Categories(t *testing.T) {
	cases := []struct {
		kind     ErrorKind
		category errorslib.Category
	}{
		{KindValidation, errorslib.CategoryValidation},
		{KindFetch, errorslib.CategoryOperation},
		{KindRender, errorslib.CategoryOperation},
		{KindNotFound, errorslib.CategoryNotFound},
		{KindInternal, errorslib.CategoryInternal},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			ge := AsGoError(NewError(tc.kind, "boom", nil))
			if ge.Category != tc.category {
				t.Fatalf("kind %q mapped to %q, want %q", tc.kind, ge.Category, tc.category)
			}
		})
	}
}

func TestAsGoError_Passthrough(t *testing.T) {
	original := errorslib.New("already mapped", errorslib.CategoryValidation)
	if got := AsGoError(original); got != original {
		t.Fatal("existing go-errors value should pass through")
	}
	if AsGoError(nil) != nil {
		t.Fatal("nil should map to nil")
	}
}

func TestKindFromError(t *testing.T) {
	if kind := KindFromError(NewFetchError("https://x", nil)); kind != KindFetch {
		t.Fatalf("got %q", kind)
	}
	if kind := KindFromError(fmt.Errorf("wrap: %w", context.DeadlineExceeded)); kind != KindTimeout {
		t.Fatalf("got %q", kind)
	}
	if kind := KindFromError(context.Canceled); kind != KindCanceled {
		t.Fatalf("got %q", kind)
	}
	if kind := KindFromError(errors.New("plain")); kind != KindInternal {
		t.Fatalf("got %q", kind)
	}
	if kind := KindFromError(nil); kind != "" {
		t.Fatalf("got %q", kind)
	}
}
