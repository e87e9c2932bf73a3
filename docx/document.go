package docx

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

// part is one package part that owns content and relationships
// (document body, header, footer).
type part struct {
	doc      *Document
	name     string
	elements []any
	rels     []relationship
}

type relationship struct {
	id     string
	relTyp string
	target string
}

func (p *part) addRel(relTyp, target string) string {
	id := fmt.Sprintf("rId%d", len(p.rels)+1)
	p.rels = append(p.rels, relationship{id: id, relTyp: relTyp, target: target})
	return id
}

func (p *part) addParagraph() *Paragraph {
	para := &Paragraph{part: p}
	p.elements = append(p.elements, para)
	return para
}

func (p *part) addTable(rows, cols int) *Table {
	t := newTable(p, rows, cols)
	p.elements = append(p.elements, t)
	return t
}

func (p *part) xmlElements() []any {
	out := make([]any, 0, len(p.elements))
	for _, el := range p.elements {
		switch v := el.(type) {
		case *Paragraph:
			out = append(out, v.xml())
		case *Table:
			out = append(out, v.xml())
		}
	}
	return out
}

func (p *part) relsXML() []byte {
	if len(p.rels) == 0 {
		return nil
	}
	rels := relationshipsXML{Namespace: nsPackageRels}
	for _, r := range p.rels {
		rels.Relationship = append(rels.Relationship, relationshipXML{
			ID:     r.id,
			Type:   r.relTyp,
			Target: r.target,
		})
	}
	raw, err := marshalPart(rels)
	if err != nil {
		return nil
	}
	return raw
}

// Paragraph is a body paragraph under construction.
type Paragraph struct {
	part  *part
	style string
	align Alignment
	runs  []*Run
}

// Style sets the paragraph style id (e.g. Heading1).
func (p *Paragraph) Style(name string) *Paragraph {
	p.style = name
	return p
}

// Align sets the paragraph justification.
func (p *Paragraph) Align(a Alignment) *Paragraph {
	p.align = a
	return p
}

// AddRun appends a text run.
func (p *Paragraph) AddRun(text string) *Run {
	r := &Run{text: text}
	p.runs = append(p.runs, r)
	return r
}

// AddImage appends a run holding an inline image sized in inches.
func (p *Paragraph) AddImage(data []byte, ext string, widthIn, heightIn float64) error {
	if len(data) == 0 {
		return fmt.Errorf("image data is empty")
	}
	if ext == "" {
		return fmt.Errorf("image extension is required")
	}
	target := p.part.doc.addMedia(data, ext)
	relID := p.part.addRel(relTypeImage, target)
	r := &Run{drawing: inlineDrawing(relID, len(p.part.doc.media), widthIn, heightIn)}
	p.runs = append(p.runs, r)
	return nil
}

// Run is a text run with formatting.
type Run struct {
	text    string
	font    string
	bold    bool
	italic  bool
	size    int // points
	color   string
	drawing string
}

// Font sets the run font family.
func (r *Run) Font(name string) *Run {
	r.font = name
	return r
}

// Bold makes the run bold.
func (r *Run) Bold() *Run {
	r.bold = true
	return r
}

// Italic makes the run italic.
func (r *Run) Italic() *Run {
	r.italic = true
	return r
}

// Size sets the run size in points.
func (r *Run) Size(points int) *Run {
	r.size = points
	return r
}

// Color sets the run color as RRGGBB hex.
func (r *Run) Color(hex string) *Run {
	r.color = hex
	return r
}

func (p *Paragraph) xml() paragraphXML {
	out := paragraphXML{}
	if p.style != "" || p.align != "" {
		props := &paragraphPropsXML{}
		if p.style != "" {
			props.Style = &valAttrXML{Val: p.style}
		}
		if p.align != "" {
			props.Justify = &valAttrXML{Val: string(p.align)}
		}
		out.Props = props
	}
	for _, r := range p.runs {
		out.Runs = append(out.Runs, r.xml())
	}
	return out
}

func (r *Run) xml() runXML {
	out := runXML{}
	if r.font != "" || r.bold || r.italic || r.size > 0 || r.color != "" {
		props := &runPropsXML{}
		if r.font != "" {
			props.Fonts = &fontsAttrXML{ASCII: r.font, HANSI: r.font}
		}
		if r.bold {
			props.Bold = &emptyXML{}
		}
		if r.italic {
			props.Italic = &emptyXML{}
		}
		if r.color != "" {
			props.Color = &valAttrXML{Val: r.color}
		}
		if r.size > 0 {
			half := strconv.Itoa(r.size * 2)
			props.Size = &valAttrXML{Val: half}
			props.SizeCs = &valAttrXML{Val: half}
		}
		out.Props = props
	}
	if r.drawing != "" {
		out.Drawing = &drawingXML{Inner: r.drawing}
		return out
	}
	out.Text = &textXML{Space: "preserve", Value: r.text}
	return out
}

// XML payload types. Element names carry the conventional OOXML prefixes;
// the namespaces are declared once on each part root.

type documentXML struct {
	XMLName  xml.Name `xml:"w:document"`
	XMLNSW   string   `xml:"xmlns:w,attr"`
	XMLNSR   string   `xml:"xmlns:r,attr"`
	XMLNSWP  string   `xml:"xmlns:wp,attr"`
	XMLNSA   string   `xml:"xmlns:a,attr"`
	XMLNSPic string   `xml:"xmlns:pic,attr"`
	Body     bodyXML  `xml:"w:body"`
}

type bodyXML struct {
	Elements []any
	SectPr   *sectPrXML
}

type paragraphXML struct {
	XMLName xml.Name           `xml:"w:p"`
	Props   *paragraphPropsXML `xml:"w:pPr,omitempty"`
	Runs    []runXML
}

type paragraphPropsXML struct {
	Style   *valAttrXML `xml:"w:pStyle,omitempty"`
	Justify *valAttrXML `xml:"w:jc,omitempty"`
}

type runXML struct {
	XMLName xml.Name     `xml:"w:r"`
	Props   *runPropsXML `xml:"w:rPr,omitempty"`
	Text    *textXML     `xml:"w:t,omitempty"`
	Drawing *drawingXML  `xml:"w:drawing,omitempty"`
}

type runPropsXML struct {
	Fonts  *fontsAttrXML `xml:"w:rFonts,omitempty"`
	Bold   *emptyXML     `xml:"w:b,omitempty"`
	Italic *emptyXML     `xml:"w:i,omitempty"`
	Color  *valAttrXML   `xml:"w:color,omitempty"`
	Size   *valAttrXML   `xml:"w:sz,omitempty"`
	SizeCs *valAttrXML   `xml:"w:szCs,omitempty"`
}

type textXML struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

type valAttrXML struct {
	Val string `xml:"w:val,attr"`
}

type fontsAttrXML struct {
	ASCII string `xml:"w:ascii,attr"`
	HANSI string `xml:"w:hAnsi,attr"`
}

type emptyXML struct{}

type drawingXML struct {
	Inner string `xml:",innerxml"`
}

type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Namespace    string            `xml:"xmlns,attr"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}
