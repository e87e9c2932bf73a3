package docx

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"
	"strings"
	"testing"
)

func writeDoc(t *testing.T, d *Document) map[string]string {
	t.Helper()
	var buf bytes.Buffer
	n, err := d.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Fatalf("WriteTo reported %d bytes, wrote %d", n, buf.Len())
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}
	parts := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		parts[f.Name] = string(data)
	}
	return parts
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestDocument_RequiredParts(t *testing.T) {
	d := New()
	d.AddParagraph().AddRun("hello")
	parts := writeDoc(t, d)

	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/document.xml",
		"word/styles.xml",
		"word/_rels/document.xml.rels",
	} {
		if _, ok := parts[name]; !ok {
			t.Fatalf("missing part %s", name)
		}
	}
	if !strings.Contains(parts["word/document.xml"], "<w:t xml:space=\"preserve\">hello</w:t>") {
		t.Fatalf("run text missing:\n%s", parts["word/document.xml"])
	}
	if !strings.HasPrefix(parts["word/document.xml"], "<?xml") {
		t.Fatal("document.xml missing XML declaration")
	}
}

func TestDocument_PageGeometry(t *testing.T) {
	d := New(WithPage(8.27, 11.69, true))
	d.AddParagraph().AddRun("x")
	parts := writeDoc(t, d)

	doc := parts["word/document.xml"]
	// landscape swaps the page dimensions
	wIn, hIn := 11.69, 8.27
	wantW := strconv.Itoa(int(wIn * 1440))
	wantH := strconv.Itoa(int(hIn * 1440))
	if !strings.Contains(doc, "w:w=\""+wantW+"\"") || !strings.Contains(doc, "w:h=\""+wantH+"\"") {
		t.Fatalf("unexpected page size:\n%s", doc)
	}
	if !strings.Contains(doc, "w:orient=\"landscape\"") {
		t.Fatal("orientation attribute missing")
	}
	if d.PageWidth() <= d.PageHeight() {
		t.Fatalf("landscape width %f should exceed height %f", d.PageWidth(), d.PageHeight())
	}
}

func TestDocument_HeadingStyles(t *testing.T) {
	d := New()
	d.AddHeading(1).AddRun("Title")
	d.AddHeading(3).AddRun("Sub")
	d.AddHeading(9).AddRun("Clamped")
	parts := writeDoc(t, d)

	doc := parts["word/document.xml"]
	if !strings.Contains(doc, "w:val=\"Heading1\"") {
		t.Fatal("Heading1 style missing")
	}
	if !strings.Contains(doc, "w:val=\"Heading3\"") {
		t.Fatal("Heading3 style missing")
	}
	if strings.Contains(doc, "Heading9") {
		t.Fatal("heading level should clamp at 6")
	}
	styles := parts["word/styles.xml"]
	for _, id := range []string{"Heading1", "Heading6", "Normal", "TableGrid"} {
		if !strings.Contains(styles, "w:styleId=\""+id+"\"") {
			t.Fatalf("style %s missing:\n%s", id, styles)
		}
	}
}

func TestDocument_RunFormatting(t *testing.T) {
	d := New()
	p := d.AddParagraph().Align(AlignCenter)
	p.AddRun("warn").Font("Arial").Italic().Size(8).Color("FF0000")
	parts := writeDoc(t, d)

	doc := parts["word/document.xml"]
	if !strings.Contains(doc, "w:ascii=\"Arial\"") {
		t.Fatal("font missing")
	}
	if !strings.Contains(doc, "<w:i></w:i>") {
		t.Fatal("italic missing")
	}
	// 8pt = 16 half-points
	if !strings.Contains(doc, "w:val=\"16\"") {
		t.Fatal("size missing")
	}
	if !strings.Contains(doc, "w:val=\"FF0000\"") {
		t.Fatal("color missing")
	}
	if !strings.Contains(doc, "w:val=\"center\"") {
		t.Fatal("alignment missing")
	}
}

func TestDocument_Table(t *testing.T) {
	d := New()
	tbl := d.AddTable(2, 3)
	tbl.Cell(0, 0).SetText("ID").Bold()
	tbl.Cell(1, 2).SetText("val")
	parts := writeDoc(t, d)

	doc := parts["word/document.xml"]
	if strings.Count(doc, "<w:tr>") != 2 {
		t.Fatalf("expected 2 rows:\n%s", doc)
	}
	if strings.Count(doc, "<w:tc>") != 6 {
		t.Fatalf("expected 6 cells:\n%s", doc)
	}
	if !strings.Contains(doc, "w:val=\"TableGrid\"") {
		t.Fatal("table style missing")
	}
	if !strings.Contains(doc, ">ID</w:t>") {
		t.Fatal("cell text missing")
	}
}

func TestDocument_Image(t *testing.T) {
	d := New()
	if _, err := d.AddImage(pngBytes(t, 4, 4), "png", 2.0, 1.0); err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	parts := writeDoc(t, d)

	if _, ok := parts["word/media/image1.png"]; !ok {
		t.Fatal("media part missing")
	}
	doc := parts["word/document.xml"]
	if !strings.Contains(doc, "<wp:inline") {
		t.Fatal("inline drawing missing")
	}
	// 2in x 1in in EMU
	if !strings.Contains(doc, "cx=\"1828800\"") || !strings.Contains(doc, "cy=\"914400\"") {
		t.Fatalf("extent missing:\n%s", doc)
	}
	rels := parts["word/_rels/document.xml.rels"]
	if !strings.Contains(rels, "media/image1.png") {
		t.Fatalf("image relationship missing:\n%s", rels)
	}
	ct := parts["[Content_Types].xml"]
	if !strings.Contains(ct, "Extension=\"png\"") {
		t.Fatalf("png content type missing:\n%s", ct)
	}
}

func TestDocument_HeaderFooter(t *testing.T) {
	d := New()
	d.Header().AddParagraph().AddRun("Company")
	d.Footer().AddParagraph().AddRun("page")
	d.AddParagraph().AddRun("body")
	parts := writeDoc(t, d)

	if !strings.Contains(parts["word/header1.xml"], ">Company</w:t>") {
		t.Fatalf("header text missing:\n%s", parts["word/header1.xml"])
	}
	if !strings.Contains(parts["word/footer1.xml"], ">page</w:t>") {
		t.Fatalf("footer text missing:\n%s", parts["word/footer1.xml"])
	}
	doc := parts["word/document.xml"]
	if !strings.Contains(doc, "<w:headerReference") || !strings.Contains(doc, "<w:footerReference") {
		t.Fatalf("section references missing:\n%s", doc)
	}
	ct := parts["[Content_Types].xml"]
	if !strings.Contains(ct, "header1.xml") || !strings.Contains(ct, "footer1.xml") {
		t.Fatalf("header/footer overrides missing:\n%s", ct)
	}
}

func TestPaperSize(t *testing.T) {
	w, h, ok := PaperSize("letter")
	if !ok || w != 8.5 || h != 11.0 {
		t.Fatalf("letter lookup failed: %f x %f %v", w, h, ok)
	}
	if _, _, ok := PaperSize("A4"); !ok {
		t.Fatal("lookup should be case-insensitive")
	}
	if _, _, ok := PaperSize("nope"); ok {
		t.Fatal("unknown size should fail")
	}
}

func TestImageExtensionSupported(t *testing.T) {
	for _, ext := range []string{"png", "jpg", "jpeg", "gif", "bmp"} {
		if !ImageExtensionSupported(ext) {
			t.Fatalf("%s should be supported", ext)
		}
	}
	if ImageExtensionSupported("svg") {
		t.Fatal("svg should not be supported")
	}
}
