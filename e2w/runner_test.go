package e2w

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type stubRenderer struct {
	payload []byte
	err     error
	lastCtx Context
}

func (r *stubRenderer) Render(ctx context.Context, template string, data Context, w io.Writer, opts RenderOptions) (RenderStats, error) {
	_ = ctx
	_ = template
	_ = opts
	r.lastCtx = data
	if r.err != nil {
		return RenderStats{}, r.err
	}
	n, err := w.Write(r.payload)
	return RenderStats{Bytes: int64(n)}, err
}

type stubGuard struct {
	err   error
	calls int
}

func (g *stubGuard) AuthorizeRender(ctx context.Context, actor Actor, req RenderRequest) error {
	_ = ctx
	_ = actor
	_ = req
	g.calls++
	return g.err
}

type stubEmitter struct {
	events []ChangeEvent
}

func (e *stubEmitter) Emit(ctx context.Context, evt ChangeEvent) error {
	_ = ctx
	e.events = append(e.events, evt)
	return nil
}

func newTestRunner(t *testing.T, renderer Renderer, source ValueSource) (*Runner, string) {
	t.Helper()
	runner := NewRunner()
	runner.Tracker = NewMemoryTracker()
	if err := runner.Renderers.Register(FormatDOCX, renderer); err != nil {
		t.Fatalf("register renderer: %v", err)
	}
	if source != nil {
		if err := runner.Sources.Register(SourceAPI, source); err != nil {
			t.Fatalf("register source: %v", err)
		}
	}
	template := filepath.Join(t.TempDir(), "report.html")
	if err := os.WriteFile(template, []byte("<h1>Report</h1>"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	return runner, template
}

func TestRunner_RunToWriter(t *testing.T) {
	renderer := &stubRenderer{payload: []byte("docx-bytes")}
	runner, template := newTestRunner(t, renderer, nil)

	var out bytes.Buffer
	result, err := runner.Run(context.Background(), Actor{ID: "tester"}, RenderRequest{
		TemplatePath: template,
		Context:      Context{"title": "Report"},
		Output:       &out,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "docx-bytes" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if result.Bytes != int64(len("docx-bytes")) {
		t.Fatalf("unexpected bytes %d", result.Bytes)
	}
	if result.Artifact != nil {
		t.Fatal("writer output should not produce an artifact ref")
	}

	record, err := runner.Tracker.Status(context.Background(), result.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if record.State != StateCompleted {
		t.Fatalf("expected completed, got %q", record.State)
	}
	if record.BytesWritten != result.Bytes {
		t.Fatalf("tracker bytes mismatch: %d", record.BytesWritten)
	}
}

func TestRunner_RunToStore(t *testing.T) {
	renderer := &stubRenderer{payload: []byte("stored")}
	runner, template := newTestRunner(t, renderer, nil)
	store := NewMemoryStore()
	runner.Store = store

	result, err := runner.Run(context.Background(), Actor{ID: "tester"}, RenderRequest{
		TemplatePath: template,
		OutputPath:   "weekly.docx",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Artifact == nil {
		t.Fatal("expected artifact ref")
	}
	if result.Artifact.Key != "weekly.docx" {
		t.Fatalf("unexpected key %q", result.Artifact.Key)
	}
	if result.Artifact.Meta.ContentType != DOCXContentType {
		t.Fatalf("unexpected content type %q", result.Artifact.Meta.ContentType)
	}

	rc, _, err := store.Open(context.Background(), "weekly.docx")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "stored" {
		t.Fatalf("unexpected artifact contents %q", data)
	}
}

func TestRunner_ResolvesAPIsBeforeRender(t *testing.T) {
	renderer := &stubRenderer{payload: []byte("x")}
	source := ValueSourceFunc(func(ctx context.Context, spec ResolveSpec) (any, error) {
		_ = ctx
		return map[string]any{"rows": spec.Key}, nil
	})
	runner, template := newTestRunner(t, renderer, source)

	var out bytes.Buffer
	_, err := runner.Run(context.Background(), Actor{ID: "tester"}, RenderRequest{
		TemplatePath: template,
		Context: Context{
			"title": "Report",
			KeyAPIs: map[string]any{
				"products": map[string]any{"url": "https://x/products"},
			},
		},
		Output: &out,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := renderer.lastCtx["products"]; !ok {
		t.Fatalf("resolved entry not passed to renderer: %v", renderer.lastCtx)
	}
	if _, ok := renderer.lastCtx[KeyAPIs]; ok {
		t.Fatal("apis key leaked into renderer context")
	}
}

func TestRunner_MissingSourceWithAPIs(t *testing.T) {
	renderer := &stubRenderer{payload: []byte("x")}
	runner, template := newTestRunner(t, renderer, nil)

	var out bytes.Buffer
	_, err := runner.Run(context.Background(), Actor{ID: "tester"}, RenderRequest{
		TemplatePath: template,
		Context: Context{
			KeyAPIs: map[string]any{"p": map[string]any{"url": "https://x"}},
		},
		Output: &out,
	})
	if err == nil {
		t.Fatal("expected error when apis present without a source")
	}
}

func TestRunner_GuardRejection(t *testing.T) {
	renderer := &stubRenderer{payload: []byte("x")}
	runner, template := newTestRunner(t, renderer, nil)
	guard := &stubGuard{err: errors.New("nope")}
	runner.Guard = guard

	var out bytes.Buffer
	_, err := runner.Run(context.Background(), Actor{ID: "tester"}, RenderRequest{
		TemplatePath: template,
		Output:       &out,
	})
	if err == nil {
		t.Fatal("expected guard error")
	}
	if guard.calls != 1 {
		t.Fatalf("guard called %d times", guard.calls)
	}
	if out.Len() != 0 {
		t.Fatal("rejected run must not write output")
	}
}

func TestRunner_RenderFailureMarksFailed(t *testing.T) {
	renderer := &stubRenderer{err: NewRenderError("report.html", errors.New("bad tag"))}
	runner, template := newTestRunner(t, renderer, nil)
	emitter := &stubEmitter{}
	runner.Emitter = emitter

	var out bytes.Buffer
	_, err := runner.Run(context.Background(), Actor{ID: "tester"}, RenderRequest{
		TemplatePath: template,
		Output:       &out,
	})
	if err == nil {
		t.Fatal("expected render error")
	}
	if out.Len() != 0 {
		t.Fatal("failed render must leave no output")
	}

	records, _ := runner.Tracker.List(context.Background(), ProgressFilter{})
	if len(records) != 1 || records[0].State != StateFailed {
		t.Fatalf("unexpected tracker records %+v", records)
	}
	if !strings.Contains(records[0].Error, "bad tag") {
		t.Fatalf("failure cause not recorded: %q", records[0].Error)
	}

	last := emitter.events[len(emitter.events)-1]
	if last.Name != "export.failed" {
		t.Fatalf("expected export.failed event, got %q", last.Name)
	}
}

func TestRunner_EmitsLifecycleEvents(t *testing.T) {
	renderer := &stubRenderer{payload: []byte("x")}
	runner, template := newTestRunner(t, renderer, nil)
	emitter := &stubEmitter{}
	runner.Emitter = emitter

	var out bytes.Buffer
	if _, err := runner.Run(context.Background(), Actor{ID: "tester"}, RenderRequest{
		TemplatePath: template,
		Output:       &out,
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(emitter.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(emitter.events))
	}
	if emitter.events[0].Name != "export.started" || emitter.events[1].Name != "export.completed" {
		t.Fatalf("unexpected event sequence %v", emitter.events)
	}
}

func TestRunner_RequiresOutputOrStore(t *testing.T) {
	renderer := &stubRenderer{payload: []byte("x")}
	runner, template := newTestRunner(t, renderer, nil)

	_, err := runner.Run(context.Background(), Actor{ID: "tester"}, RenderRequest{
		TemplatePath: template,
	})
	if err == nil {
		t.Fatal("expected error without output writer or store")
	}
}

func TestRunner_CanceledContext(t *testing.T) {
	renderer := &stubRenderer{payload: []byte("x")}
	source := ValueSourceFunc(func(ctx context.Context, spec ResolveSpec) (any, error) {
		_ = spec
		<-ctx.Done()
		return nil, ctx.Err()
	})
	runner, template := newTestRunner(t, renderer, source)
	emitter := &stubEmitter{}
	runner.Emitter = emitter

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	var out bytes.Buffer
	_, err := runner.Run(ctx, Actor{ID: "tester"}, RenderRequest{
		TemplatePath: template,
		Context: Context{
			KeyAPIs: map[string]any{"slow": map[string]any{"url": "https://x"}},
		},
		Output: &out,
	})
	if err == nil {
		t.Fatal("expected cancellation error")
	}

	last := emitter.events[len(emitter.events)-1]
	if last.Name != "export.canceled" {
		t.Fatalf("expected export.canceled, got %q", last.Name)
	}
}
