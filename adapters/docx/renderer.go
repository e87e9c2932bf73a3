// Package docxrender renders HTML-tagged templates into Word documents.
package docxrender

import (
	"context"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-e2w/docx"
	"github.com/goliatone/go-e2w/e2w"
)

// TemplateExecutor substitutes placeholders in template source.
type TemplateExecutor interface {
	Execute(source string, data e2w.Context) (string, error)
}

// TableLoader loads tabular data from a file path.
type TableLoader interface {
	Load(path string) (e2w.TableData, error)
}

// Renderer implements e2w.Renderer for DOCX output.
type Renderer struct {
	Templates TemplateExecutor
	Tables    TableLoader
	Logger    e2w.Logger
}

// Render parses the tagged template and writes the document.
func (r *Renderer) Render(ctx context.Context, template string, data e2w.Context, w io.Writer, opts e2w.RenderOptions) (e2w.RenderStats, error) {
	if r == nil {
		return e2w.RenderStats{}, e2w.NewError(e2w.KindInternal, "renderer is nil", nil)
	}
	if r.Templates == nil {
		return e2w.RenderStats{}, e2w.NewError(e2w.KindValidation, "renderer requires a template executor", nil)
	}
	if err := ctx.Err(); err != nil {
		return e2w.RenderStats{}, err
	}

	source := stripComments(template)
	source = replaceLegacyPlaceholders(source, data)

	substituted, err := r.Templates.Execute(source, data)
	if err != nil {
		return e2w.RenderStats{}, e2w.NewError(e2w.KindRender, "placeholder substitution failed", err)
	}

	root, err := html.Parse(strings.NewReader(substituted))
	if err != nil {
		return e2w.RenderStats{}, e2w.NewError(e2w.KindRender, "template is not parseable HTML", err)
	}

	doc := newDocument(opts)
	st := &state{
		renderer: r,
		doc:      doc,
		data:     data,
		opts:     opts,
	}
	if err := st.walk(ctx, root); err != nil {
		return e2w.RenderStats{}, err
	}

	n, err := doc.WriteTo(w)
	if err != nil {
		return e2w.RenderStats{}, e2w.NewError(e2w.KindRender, "document serialization failed", err)
	}
	return e2w.RenderStats{Bytes: n}, nil
}

func newDocument(opts e2w.RenderOptions) *docx.Document {
	width, height, ok := docx.PaperSize(string(opts.Layout.Size))
	if !ok {
		width, height, _ = docx.PaperSize("A4")
	}
	landscape := opts.Layout.Orientation == e2w.OrientationLandscape

	font := docx.Font{
		Name:   opts.Font.Name,
		Size:   opts.Font.Size,
		Color:  opts.Font.Color,
		Bold:   opts.Font.Style == e2w.FontBold,
		Italic: opts.Font.Style == e2w.FontItalic,
	}
	return docx.New(
		docx.WithPage(width, height, landscape),
		docx.WithDefaultFont(font),
	)
}

// stripComments drops template lines starting with #.
func stripComments(source string) string {
	lines := strings.Split(source, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// replaceLegacyPlaceholders substitutes the self-closing <key/> form for
// scalar context values.
func replaceLegacyPlaceholders(source string, data e2w.Context) string {
	for _, key := range data.ScalarKeys() {
		placeholder := "<" + key + "/>"
		if !strings.Contains(source, placeholder) {
			continue
		}
		source = strings.ReplaceAll(source, placeholder, formatValue(data[key]))
	}
	return source
}
