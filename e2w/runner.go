package e2w

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Runner orchestrates one export: resolve API entries, merge the context,
// render the document, write the artifact.
type Runner struct {
	Sources     *SourceRegistry
	Renderers   *RendererRegistry
	Store       ArtifactStore
	Tracker     ProgressTracker
	Guard       Guard
	Logger      Logger
	Emitter     ChangeEmitter
	Metrics     MetricsHook
	Concurrency int
	Timeout     time.Duration
	Now         func() time.Time
	IDGenerator func() string
}

// NewRunner creates a runner with default registries.
func NewRunner() *Runner {
	return &Runner{
		Sources:     NewSourceRegistry(),
		Renderers:   NewRendererRegistry(),
		Logger:      NopLogger{},
		Now:         time.Now,
		IDGenerator: defaultIDGenerator(),
	}
}

type runInfo struct {
	exportID  string
	resolved  ResolvedRender
	actor     Actor
	startedAt time.Time
	baseMeta  map[string]any
}

// Run executes a render request.
func (r *Runner) Run(ctx context.Context, actor Actor, req RenderRequest) (ExportResult, error) {
	if r == nil {
		return ExportResult{}, AsGoError(NewError(KindInternal, "runner is nil", nil))
	}
	if r.Sources == nil || r.Renderers == nil {
		return ExportResult{}, AsGoError(NewError(KindInternal, "runner registries are not configured", nil))
	}
	if r.Now == nil {
		r.Now = time.Now
	}
	if r.Logger == nil {
		r.Logger = NopLogger{}
	}
	if r.IDGenerator == nil {
		r.IDGenerator = defaultIDGenerator()
	}

	resolved, err := ResolveRender(req, r.Now())
	if err != nil {
		return ExportResult{}, AsGoError(err)
	}

	if resolved.Request.Output == nil && r.Store == nil {
		return ExportResult{}, AsGoError(NewError(KindValidation, "output writer or artifact store is required", nil))
	}

	if r.Guard != nil {
		if err := r.Guard.AuthorizeRender(ctx, actor, resolved.Request); err != nil {
			return ExportResult{}, AsGoError(NewError(KindValidation, "render not authorized", err))
		}
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	exportID := r.IDGenerator()
	if r.Tracker != nil {
		record := ExportRecord{
			ID:          exportID,
			Template:    resolved.Request.TemplatePath,
			State:       StateRunning,
			RequestedBy: actor,
			Request:     resolved.Request,
			CreatedAt:   r.Now(),
		}
		id, err := r.Tracker.Start(ctx, record)
		if err != nil {
			return ExportResult{}, AsGoError(err)
		}
		if id != "" {
			exportID = id
		}
	}

	info := runInfo{
		exportID:  exportID,
		resolved:  resolved,
		actor:     actor,
		startedAt: r.Now(),
		baseMeta: map[string]any{
			"template": resolved.Request.TemplatePath,
			"filename": resolved.Filename,
		},
	}
	r.emit(ctx, info, "export.started", nil)

	source, ok := r.Sources.Resolve(SourceAPI)
	if !ok {
		calls, _ := resolved.Request.Context.APICalls()
		if len(calls) > 0 {
			err := NewError(KindNotFound, fmt.Sprintf("value source %q not registered", SourceAPI), nil)
			r.fail(ctx, info, err)
			return ExportResult{}, AsGoError(err)
		}
		source = ValueSourceFunc(func(context.Context, ResolveSpec) (any, error) {
			return nil, NewError(KindInternal, "no value source configured", nil)
		})
	}

	resolver := &Resolver{Source: source, Concurrency: r.Concurrency, Logger: r.Logger}
	merged, err := resolver.Resolve(ctx, resolved.Request.Context)
	if err != nil {
		r.fail(ctx, info, err)
		return ExportResult{}, AsGoError(err)
	}

	template, err := os.ReadFile(resolved.Request.TemplatePath)
	if err != nil {
		err = NewRenderError(resolved.Request.TemplatePath, err)
		r.fail(ctx, info, err)
		return ExportResult{}, AsGoError(err)
	}

	renderer, ok := r.Renderers.Resolve(FormatDOCX)
	if !ok {
		err := NewError(KindNotFound, fmt.Sprintf("renderer %q not registered", FormatDOCX), nil)
		r.fail(ctx, info, err)
		return ExportResult{}, AsGoError(err)
	}

	// Rendering goes through a buffer so a failed render leaves nothing
	// at the output path.
	var buf bytes.Buffer
	stats, err := renderer.Render(ctx, string(template), merged, &buf, resolved.Request.Options)
	if err != nil {
		r.fail(ctx, info, err)
		return ExportResult{}, AsGoError(err)
	}
	if stats.Bytes == 0 {
		stats.Bytes = int64(buf.Len())
	}

	result := ExportResult{
		ID:       exportID,
		Bytes:    stats.Bytes,
		Filename: resolved.Filename,
	}

	if resolved.Request.Output != nil {
		if _, err := resolved.Request.Output.Write(buf.Bytes()); err != nil {
			err = NewError(KindInternal, "write output failed", err)
			r.fail(ctx, info, err)
			return ExportResult{}, AsGoError(err)
		}
	} else {
		ref, err := r.Store.Put(ctx, resolved.Filename, bytes.NewReader(buf.Bytes()), ArtifactMeta{
			ContentType: DOCXContentType,
			Filename:    resolved.Filename,
			CreatedAt:   r.Now(),
		})
		if err != nil {
			r.fail(ctx, info, err)
			return ExportResult{}, AsGoError(err)
		}
		result.Artifact = &ref
	}

	if r.Tracker != nil {
		record := ExportRecord{
			ID:           exportID,
			Template:     resolved.Request.TemplatePath,
			State:        StateCompleted,
			RequestedBy:  actor,
			BytesWritten: stats.Bytes,
			CompletedAt:  r.Now(),
		}
		if result.Artifact != nil {
			record.Artifact = *result.Artifact
		}
		_ = r.Tracker.Complete(ctx, exportID, record)
	}

	r.emit(ctx, info, "export.completed", map[string]any{
		"bytes":    stats.Bytes,
		"duration": r.Now().Sub(info.startedAt),
	})
	r.emitMetrics(ctx, info, "export.completed", stats, nil)

	return result, nil
}

func (r *Runner) fail(ctx context.Context, info runInfo, err error) {
	if info.exportID == "" {
		return
	}

	if errors.Is(err, context.Canceled) {
		if r.Tracker != nil {
			_ = r.Tracker.Fail(ctx, info.exportID, err)
		}
		r.emit(ctx, info, "export.canceled", map[string]any{
			"duration": r.Now().Sub(info.startedAt),
		})
		r.emitMetrics(ctx, info, "export.canceled", RenderStats{}, err)
		return
	}

	if r.Tracker != nil {
		_ = r.Tracker.Fail(ctx, info.exportID, err)
	}
	r.emit(ctx, info, "export.failed", map[string]any{
		"error":      err.Error(),
		"error_kind": KindFromError(err),
		"duration":   r.Now().Sub(info.startedAt),
	})
	r.emitMetrics(ctx, info, "export.failed", RenderStats{}, err)
}

func (r *Runner) emit(ctx context.Context, info runInfo, name string, meta map[string]any) {
	if r.Emitter == nil {
		return
	}
	_ = r.Emitter.Emit(ctx, ChangeEvent{
		Name:      name,
		ExportID:  info.exportID,
		Template:  info.resolved.Request.TemplatePath,
		Actor:     info.actor,
		Timestamp: r.Now(),
		Metadata:  mergeMetadata(info.baseMeta, meta),
	})
}

func (r *Runner) emitMetrics(ctx context.Context, info runInfo, name string, stats RenderStats, err error) {
	if r.Metrics == nil {
		return
	}
	kind := ErrorKind("")
	if err != nil {
		kind = KindFromError(err)
	}
	_ = r.Metrics.Emit(ctx, MetricsEvent{
		Name:      name,
		ExportID:  info.exportID,
		Template:  info.resolved.Request.TemplatePath,
		Bytes:     stats.Bytes,
		Duration:  r.Now().Sub(info.startedAt),
		ErrorKind: kind,
		Timestamp: r.Now(),
	})
}

func mergeMetadata(base, extra map[string]any) map[string]any {
	if len(base) == 0 && len(extra) == 0 {
		return nil
	}
	merged := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func defaultIDGenerator() func() string {
	return func() string {
		return "exp-" + uuid.NewString()
	}
}

// DOCXContentType is the MIME type for rendered documents.
const DOCXContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
