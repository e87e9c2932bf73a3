package docxrender

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"sort"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/net/html"

	"github.com/goliatone/go-e2w/docx"
	"github.com/goliatone/go-e2w/e2w"
)

// Fraction of the page width an auto-sized image occupies.
const imageWidthRatio = 0.6

const headerImageHeightIn = 0.5

type state struct {
	renderer *Renderer
	doc      *docx.Document
	data     e2w.Context
	opts     e2w.RenderOptions
}

func (st *state) walk(ctx context.Context, n *html.Node) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := st.handleNode(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (st *state) handleNode(ctx context.Context, n *html.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch n.Type {
	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text != "" {
			st.doc.AddParagraph().AddRun(text)
		}
		return nil
	case html.ElementNode:
	default:
		return st.walk(ctx, n)
	}

	tag := strings.ToLower(n.Data)
	switch tag {
	case "html", "head", "body":
		return st.walk(ctx, n)
	case "title":
		st.handleTitle(n)
		return nil
	case "header":
		return st.handleHeaderFooter(n, true)
	case "footer":
		return st.handleHeaderFooter(n, false)
	case "image", "img":
		return st.handleImage(n)
	case "base64-image":
		return st.handleBase64Image(n)
	case "table", "dataframe":
		return st.handleTable(n)
	}

	if level, ok := headingLevel(tag); ok && level <= st.opts.HeadingLevels {
		heading := st.doc.AddHeading(level)
		heading.Align(docx.AlignLeft)
		heading.AddRun(nodeText(n))
		return nil
	}

	// Unknown tags become plain paragraphs when they carry only text;
	// containers are walked so nested handled tags still render.
	if hasElementChildren(n) {
		return st.walk(ctx, n)
	}
	if text := nodeText(n); text != "" {
		st.doc.AddParagraph().AddRun(text)
	}
	return nil
}

func (st *state) handleTitle(n *html.Node) {
	p := st.doc.AddParagraph()
	p.Align(docx.AlignCenter)
	p.AddRun(strings.ToUpper(nodeText(n))).Bold().Size(16)
}

func (st *state) handleHeaderFooter(n *html.Node, isHeader bool) error {
	cols := 1
	section := st.doc.Footer()
	if isHeader {
		cols = 3
		section = st.doc.Header()
	}

	table := section.AddTable(1, cols)
	table.Width(st.doc.PageWidth())

	text := directText(n)
	table.Cell(0, 0).SetText(text)

	img := findChild(n, "image", "img")
	if img == nil {
		return nil
	}
	src := attr(img, "src")
	if src == "" {
		return nil
	}

	// Headers carry the image in the rightmost cell; footers have a
	// single cell shared with the text.
	cell := table.Cell(0, cols-1)
	para := cell.AddParagraph()
	if isHeader {
		para.Align(docx.AlignRight)
	}
	return st.placeImage(para, src, headerImageHeightIn)
}

func (st *state) handleImage(n *html.Node) error {
	src := attr(n, "src")
	if src == "" {
		return nil
	}
	para := st.doc.AddParagraph()
	para.Align(docx.AlignCenter)
	return st.placeImage(para, src, 0)
}

// placeImage embeds the image scaled to the target height, or to a fraction
// of the page width when no height is given. A missing file renders an
// inline error note instead of failing the export.
func (st *state) placeImage(para *docx.Paragraph, src string, targetHeightIn float64) error {
	data, err := os.ReadFile(src)
	if err != nil {
		run := para.AddRun(fmt.Sprintf("[Missing image: %s]", src))
		st.applyErrorFont(run)
		return nil
	}

	widthIn, heightIn, ext, err := st.imageSize(data, targetHeightIn)
	if err != nil {
		run := para.AddRun(fmt.Sprintf("[Invalid image: %s]", src))
		st.applyErrorFont(run)
		return nil
	}
	return para.AddImage(data, ext, widthIn, heightIn)
}

func (st *state) handleBase64Image(n *html.Node) error {
	payload := strings.TrimSpace(nodeText(n))
	if !strings.HasPrefix(payload, "data:image/") {
		return e2w.NewError(e2w.KindRender, "base64-image payload is not a data URI", nil)
	}

	idx := strings.Index(payload, ",")
	if idx < 0 {
		return e2w.NewError(e2w.KindRender, "base64-image payload has no data segment", nil)
	}

	data, err := base64.StdEncoding.DecodeString(payload[idx+1:])
	if err != nil {
		para := st.doc.AddParagraph()
		run := para.AddRun(fmt.Sprintf("[Error loading image: %v]", err))
		st.applyErrorFont(run)
		return nil
	}

	cfg, ext, err := decodeConfig(data)
	if err != nil {
		para := st.doc.AddParagraph()
		run := para.AddRun(fmt.Sprintf("[Error loading image: %v]", err))
		st.applyErrorFont(run)
		return nil
	}

	widthIn := 4.0
	heightIn := widthIn * float64(cfg.Height) / float64(cfg.Width)
	_, err = st.doc.AddImage(data, ext, widthIn, heightIn)
	return err
}

func (st *state) handleTable(n *html.Node) error {
	var table e2w.TableData
	var err error

	switch {
	case attr(n, "src") != "":
		if st.renderer.Tables == nil {
			return e2w.NewError(e2w.KindValidation, "renderer has no table loader", nil)
		}
		table, err = st.renderer.Tables.Load(attr(n, "src"))
		if err != nil {
			return err
		}
	case attr(n, "api") != "":
		table = tableFromContext(st.data, attr(n, "api"))
	}

	if table.Empty() {
		para := st.doc.AddParagraph()
		note := strings.TrimSpace(nodeText(n) + " No data available.")
		run := para.AddRun(note)
		st.applyErrorFont(run)
		return nil
	}

	out := st.doc.AddTable(1+len(table.Rows), len(table.Columns))
	if st.opts.Table.Style != "" {
		out.Style(st.opts.Table.Style)
	}
	for i, column := range table.Columns {
		out.Cell(0, i).SetText(column).Bold()
	}
	for r, row := range table.Rows {
		for c := 0; c < len(table.Columns); c++ {
			if c < len(row) {
				out.Cell(r+1, c).SetText(row[c])
			}
		}
	}
	return nil
}

func (st *state) applyErrorFont(run *docx.Run) {
	font := st.opts.ErrorFont
	if font.Name != "" {
		run.Font(font.Name)
	}
	if font.Size > 0 {
		run.Size(font.Size)
	}
	if font.Color != "" {
		run.Color(font.Color)
	}
	switch font.Style {
	case e2w.FontItalic:
		run.Italic()
	case e2w.FontBold:
		run.Bold()
	}
}

func (st *state) imageSize(data []byte, targetHeightIn float64) (float64, float64, string, error) {
	cfg, ext, err := decodeConfig(data)
	if err != nil {
		return 0, 0, "", err
	}
	aspect := float64(cfg.Width) / float64(cfg.Height)
	if targetHeightIn > 0 {
		return targetHeightIn * aspect, targetHeightIn, ext, nil
	}
	widthIn := st.doc.PageWidth() * imageWidthRatio
	return widthIn, widthIn / aspect, ext, nil
}

func decodeConfig(data []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", err
	}
	ext := format
	if ext == "jpeg" {
		ext = "jpg"
	}
	if !docx.ImageExtensionSupported(ext) {
		return image.Config{}, "", fmt.Errorf("unsupported image format %q", format)
	}
	return cfg, ext, nil
}

// tableFromContext pulls tabular data from a resolved API entry. Responses
// are either a list of records or a map carrying the list under "data".
func tableFromContext(data e2w.Context, key string) e2w.TableData {
	value, ok := data[key]
	if !ok {
		return e2w.TableData{}
	}
	return tableFromValue(value)
}

func tableFromValue(value any) e2w.TableData {
	switch v := value.(type) {
	case e2w.TableData:
		return v
	case map[string]any:
		if inner, ok := v["data"]; ok {
			return tableFromValue(inner)
		}
		return e2w.TableData{}
	case []map[string]any:
		records := make([]any, len(v))
		for i, rec := range v {
			records[i] = rec
		}
		return tableFromRecords(records)
	case []any:
		return tableFromRecords(v)
	default:
		return e2w.TableData{}
	}
}

func tableFromRecords(records []any) e2w.TableData {
	columnSet := map[string]bool{}
	maps := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		m, ok := rec.(map[string]any)
		if !ok {
			continue
		}
		maps = append(maps, m)
		for key := range m {
			columnSet[key] = true
		}
	}
	if len(maps) == 0 {
		return e2w.TableData{}
	}

	columns := make([]string, 0, len(columnSet))
	for key := range columnSet {
		columns = append(columns, key)
	}
	sort.Strings(columns)

	rows := make([][]string, 0, len(maps))
	for _, m := range maps {
		row := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := m[col]; ok && v != nil {
				row[i] = formatValue(v)
			}
		}
		rows = append(rows, row)
	}
	return e2w.TableData{Columns: columns, Rows: rows}
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func headingLevel(tag string) (int, bool) {
	if len(tag) != 2 || tag[0] != 'h' {
		return 0, false
	}
	level := int(tag[1] - '0')
	if level < 1 || level > 9 {
		return 0, false
	}
	return level, true
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return strings.TrimSpace(b.String())
}

// directText collects only the immediate text children, skipping nested tags.
func directText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(b.String())
}

func hasElementChildren(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return true
		}
	}
	return false
}

func findChild(n *html.Node, names ...string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		for _, name := range names {
			if strings.EqualFold(c.Data, name) {
				return c
			}
		}
	}
	return nil
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}
