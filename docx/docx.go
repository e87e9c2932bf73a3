// Package docx builds Word documents from scratch: typed OOXML elements
// marshaled with encoding/xml and packaged with archive/zip. It covers the
// subset the exporter needs: paragraphs, runs, headings, tables, inline
// images, headers/footers and section geometry.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Measurement conversions.
const (
	emuPerInch   = 914400
	twipsPerInch = 1440
)

// Alignment values for paragraphs.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Document is a Word document under construction.
type Document struct {
	pageWidthIn  float64
	pageHeightIn float64
	landscape    bool
	defaultFont  Font

	body   *part
	header *HeaderFooter
	footer *HeaderFooter

	media []mediaFile
}

type mediaFile struct {
	name string
	data []byte
}

// Option customizes a new document.
type Option func(*Document)

// WithPage sets the page size in inches. Landscape swaps width and height.
func WithPage(widthIn, heightIn float64, landscape bool) Option {
	return func(d *Document) {
		if landscape {
			widthIn, heightIn = heightIn, widthIn
		}
		d.pageWidthIn = widthIn
		d.pageHeightIn = heightIn
		d.landscape = landscape
	}
}

// WithDefaultFont sets the document default font.
func WithDefaultFont(f Font) Option {
	return func(d *Document) {
		d.defaultFont = f
	}
}

// New creates an empty document. Defaults: portrait A4, Segoe UI 10pt.
func New(opts ...Option) *Document {
	d := &Document{
		pageWidthIn:  8.27,
		pageHeightIn: 11.69,
		defaultFont:  Font{Name: "Segoe UI", Size: 10, Color: "000000"},
	}
	d.body = &part{doc: d, name: "document"}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// PageWidth returns the usable page width in inches.
func (d *Document) PageWidth() float64 { return d.pageWidthIn }

// PageHeight returns the page height in inches.
func (d *Document) PageHeight() float64 { return d.pageHeightIn }

// AddParagraph appends a paragraph to the body.
func (d *Document) AddParagraph() *Paragraph {
	return d.body.addParagraph()
}

// AddHeading appends a paragraph styled HeadingN.
func (d *Document) AddHeading(level int) *Paragraph {
	if level < 1 {
		level = 1
	}
	if level > maxHeadingLevel {
		level = maxHeadingLevel
	}
	p := d.body.addParagraph()
	p.style = fmt.Sprintf("Heading%d", level)
	return p
}

// AddTable appends a table with the given dimensions to the body.
func (d *Document) AddTable(rows, cols int) *Table {
	return d.body.addTable(rows, cols)
}

// AddImage appends a paragraph containing an inline image.
func (d *Document) AddImage(data []byte, ext string, widthIn, heightIn float64) (*Paragraph, error) {
	p := d.body.addParagraph()
	if err := p.AddImage(data, ext, widthIn, heightIn); err != nil {
		return nil, err
	}
	return p, nil
}

// Header returns the page header, creating it on first use.
func (d *Document) Header() *HeaderFooter {
	if d.header == nil {
		d.header = &HeaderFooter{part: &part{doc: d, name: "header1"}}
	}
	return d.header
}

// Footer returns the page footer, creating it on first use.
func (d *Document) Footer() *HeaderFooter {
	if d.footer == nil {
		d.footer = &HeaderFooter{part: &part{doc: d, name: "footer1"}}
	}
	return d.footer
}

func (d *Document) addMedia(data []byte, ext string) string {
	name := fmt.Sprintf("image%d.%s", len(d.media)+1, ext)
	d.media = append(d.media, mediaFile{name: name, data: data})
	return "media/" + name
}

// WriteTo serializes the document package.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content []byte
	}{
		{"[Content_Types].xml", d.contentTypes()},
		{"_rels/.rels", rootRels()},
		{"word/document.xml", nil},
		{"word/styles.xml", stylesXML(d.defaultFont)},
	}

	docXML, err := d.documentXML()
	if err != nil {
		return 0, err
	}
	parts[2].content = docXML

	for _, p := range parts {
		if err := writeZipFile(zw, p.name, p.content); err != nil {
			return 0, err
		}
	}

	if rels := d.body.relsXML(); rels != nil {
		if err := writeZipFile(zw, "word/_rels/document.xml.rels", rels); err != nil {
			return 0, err
		}
	}

	if d.header != nil {
		content, err := d.header.partXML("w:hdr")
		if err != nil {
			return 0, err
		}
		if err := writeZipFile(zw, "word/header1.xml", content); err != nil {
			return 0, err
		}
		if rels := d.header.part.relsXML(); rels != nil {
			if err := writeZipFile(zw, "word/_rels/header1.xml.rels", rels); err != nil {
				return 0, err
			}
		}
	}
	if d.footer != nil {
		content, err := d.footer.partXML("w:ftr")
		if err != nil {
			return 0, err
		}
		if err := writeZipFile(zw, "word/footer1.xml", content); err != nil {
			return 0, err
		}
		if rels := d.footer.part.relsXML(); rels != nil {
			if err := writeZipFile(zw, "word/_rels/footer1.xml.rels", rels); err != nil {
				return 0, err
			}
		}
	}

	for _, m := range d.media {
		if err := writeZipFile(zw, "word/media/"+m.name, m.data); err != nil {
			return 0, err
		}
	}

	if err := zw.Close(); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

func writeZipFile(zw *zip.Writer, name string, content []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (d *Document) documentXML() ([]byte, error) {
	d.body.addRel(relTypeStyles, "styles.xml")
	doc := documentXML{
		XMLNSW:   nsMain,
		XMLNSR:   nsRelationships,
		XMLNSWP:  nsDrawingWP,
		XMLNSA:   nsDrawingMain,
		XMLNSPic: nsDrawingPic,
		Body: bodyXML{
			Elements: d.body.xmlElements(),
			SectPr:   d.sectPr(),
		},
	}
	return marshalPart(doc)
}

func marshalPart(v any) ([]byte, error) {
	raw, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xmlDeclaration)+len(raw))
	out = append(out, xmlDeclaration...)
	out = append(out, raw...)
	return out, nil
}

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// OOXML namespaces.
const (
	nsMain          = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsDrawingWP     = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsDrawingMain   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsDrawingPic    = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsPackageRels   = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// Relationship type URIs.
const (
	relTypeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeStyles   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeHeader   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relTypeFooter   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	relTypeImage    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)
