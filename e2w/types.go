package e2w

import (
	"context"
	"io"
	"time"
)

// Context carries the data supplied to a render: literal scalars, nested
// maps, plus the reserved "apis" and "api_headers" keys.
type Context map[string]any

// Reserved context keys.
const (
	KeyAPIs       = "apis"
	KeyAPIHeaders = "api_headers"
)

// APIHeaders are applied to every API call in the batch.
type APIHeaders map[string]string

// APICall describes one HTTP call whose response is merged into the context.
type APICall struct {
	URL     string
	Method  string
	Params  map[string]any
	Headers map[string]string
	// Result overrides the context key the response is merged under.
	Result string
}

// Orientation is the page orientation.
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// PageSize names a paper size.
type PageSize string

const (
	PageA3      PageSize = "A3"
	PageA4      PageSize = "A4"
	PageA5      PageSize = "A5"
	PageLetter  PageSize = "letter"
	PageLegal   PageSize = "legal"
	PageTabloid PageSize = "tabloid"
)

// PageLayout configures page geometry.
type PageLayout struct {
	Orientation Orientation
	Size        PageSize
}

// FontStyle names a font style.
type FontStyle string

const (
	FontNormal FontStyle = "normal"
	FontItalic FontStyle = "italic"
	FontBold   FontStyle = "bold"
)

// FontFamily configures a document font.
type FontFamily struct {
	Name  string
	Size  int
	Style FontStyle
	Color string
}

// TableFormat configures table rendering.
type TableFormat struct {
	Style string
}

// RenderOptions configures renderer behavior.
type RenderOptions struct {
	Layout        PageLayout
	Font          FontFamily
	ErrorFont     FontFamily
	Table         TableFormat
	HeadingLevels int
}

// RenderRequest captures one export invocation.
type RenderRequest struct {
	TemplatePath    string
	Context         Context
	OutputPath      string
	FilenamePattern string
	Options         RenderOptions
	Output          io.Writer
}

// RenderStats capture renderer output.
type RenderStats struct {
	Bytes int64
}

// ExportState captures progress states.
type ExportState string

const (
	StateRunning   ExportState = "running"
	StateCompleted ExportState = "completed"
	StateFailed    ExportState = "failed"
	StateDeleted   ExportState = "deleted"
)

// Actor identifies the requesting principal.
type Actor struct {
	ID      string
	Details map[string]any
}

// ExportRecord captures tracker state for an export.
type ExportRecord struct {
	ID           string
	Template     string
	State        ExportState
	RequestedBy  Actor
	Request      RenderRequest `json:"-"`
	BytesWritten int64
	Artifact     ArtifactRef
	Error        string
	CreatedAt    time.Time
	CompletedAt  time.Time
}

// ExportResult captures a completed export.
type ExportResult struct {
	ID       string
	Bytes    int64
	Filename string
	Artifact *ArtifactRef
}

// ResolveSpec is passed to ValueSource.Resolve for one context entry.
type ResolveSpec struct {
	Key     string
	Call    APICall
	Headers APIHeaders
}

// ValueSource resolves a context entry into its value.
type ValueSource interface {
	Resolve(ctx context.Context, spec ResolveSpec) (any, error)
}

// ValueSourceFunc adapts a function to a ValueSource.
type ValueSourceFunc func(ctx context.Context, spec ResolveSpec) (any, error)

func (f ValueSourceFunc) Resolve(ctx context.Context, spec ResolveSpec) (any, error) {
	if f == nil {
		return nil, NewError(KindInternal, "value source func is nil", nil)
	}
	return f(ctx, spec)
}

// Renderer writes the rendered document to the destination.
type Renderer interface {
	Render(ctx context.Context, template string, data Context, w io.Writer, opts RenderOptions) (RenderStats, error)
}

// TableData is tabular data rendered into a document table.
type TableData struct {
	Columns []string
	Rows    [][]string
}

// Empty reports whether the table has no rows.
func (t TableData) Empty() bool { return len(t.Rows) == 0 }

// ArtifactMeta captures stored artifact metadata.
type ArtifactMeta struct {
	ContentType string
	Size        int64
	Filename    string
	CreatedAt   time.Time
}

// ArtifactRef references a stored artifact.
type ArtifactRef struct {
	Key  string
	Meta ArtifactMeta
}

// ArtifactStore stores export artifacts.
type ArtifactStore interface {
	Put(ctx context.Context, key string, r io.Reader, meta ArtifactMeta) (ArtifactRef, error)
	Open(ctx context.Context, key string) (io.ReadCloser, ArtifactMeta, error)
	Delete(ctx context.Context, key string) error
}

// ProgressTracker tracks export progress.
type ProgressTracker interface {
	Start(ctx context.Context, record ExportRecord) (string, error)
	Fail(ctx context.Context, id string, err error) error
	Complete(ctx context.Context, id string, record ExportRecord) error
	Status(ctx context.Context, id string) (ExportRecord, error)
	List(ctx context.Context, filter ProgressFilter) ([]ExportRecord, error)
	Delete(ctx context.Context, id string) error
}

// ProgressFilter filters tracker lists.
type ProgressFilter struct {
	Template string
	State    ExportState
	Since    time.Time
	Until    time.Time
}

// Guard enforces authorization.
type Guard interface {
	AuthorizeRender(ctx context.Context, actor Actor, req RenderRequest) error
}

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards all log output.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// ChangeEvent describes lifecycle events.
type ChangeEvent struct {
	Name      string
	ExportID  string
	Template  string
	Actor     Actor
	Timestamp time.Time
	Metadata  map[string]any
}

// ChangeEmitter emits lifecycle events.
type ChangeEmitter interface {
	Emit(ctx context.Context, evt ChangeEvent) error
}

// MetricsEvent describes lifecycle metrics.
type MetricsEvent struct {
	Name      string
	ExportID  string
	Template  string
	Bytes     int64
	Duration  time.Duration
	ErrorKind ErrorKind
	Timestamp time.Time
}

// MetricsHook emits metrics-friendly lifecycle observations.
type MetricsHook interface {
	Emit(ctx context.Context, evt MetricsEvent) error
}
