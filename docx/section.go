package docx

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Paper sizes in inches, portrait orientation.
var paperSizes = map[string][2]float64{
	"a3":      {11.69, 16.54},
	"a4":      {8.27, 11.69},
	"a5":      {5.83, 8.27},
	"letter":  {8.5, 11},
	"legal":   {8.5, 14},
	"tabloid": {11, 17},
}

// PaperSize returns the portrait dimensions in inches for a named size.
func PaperSize(name string) (width, height float64, ok bool) {
	dims, ok := paperSizes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, 0, false
	}
	return dims[0], dims[1], true
}

// HeaderFooter builds a page header or footer.
type HeaderFooter struct {
	part *part
}

// AddParagraph appends a paragraph to the header/footer.
func (h *HeaderFooter) AddParagraph() *Paragraph {
	return h.part.addParagraph()
}

// AddTable appends a table to the header/footer.
func (h *HeaderFooter) AddTable(rows, cols int) *Table {
	return h.part.addTable(rows, cols)
}

func (h *HeaderFooter) partXML(rootTag string) ([]byte, error) {
	root := headerFooterXML{
		XMLName:  xml.Name{Local: rootTag},
		XMLNSW:   nsMain,
		XMLNSR:   nsRelationships,
		XMLNSWP:  nsDrawingWP,
		XMLNSA:   nsDrawingMain,
		XMLNSPic: nsDrawingPic,
		Elements: h.part.xmlElements(),
	}
	return marshalPart(root)
}

func (d *Document) sectPr() *sectPrXML {
	sect := &sectPrXML{
		PageSize: pageSizeXML{
			W: strconv.Itoa(int(d.pageWidthIn * twipsPerInch)),
			H: strconv.Itoa(int(d.pageHeightIn * twipsPerInch)),
		},
		Margins: pageMarginsXML{
			Top:    "1440",
			Right:  "1440",
			Bottom: "1440",
			Left:   "1440",
			Header: "720",
			Footer: "720",
			Gutter: "0",
		},
	}
	if d.landscape {
		sect.PageSize.Orient = "landscape"
	}
	if d.header != nil {
		id := d.body.addRel(relTypeHeader, "header1.xml")
		sect.HeaderRef = &headerFooterRefXML{Type: "default", ID: id}
	}
	if d.footer != nil {
		id := d.body.addRel(relTypeFooter, "footer1.xml")
		sect.FooterRef = &headerFooterRefXML{Type: "default", ID: id}
	}
	return sect
}

type headerFooterXML struct {
	XMLName  xml.Name
	XMLNSW   string `xml:"xmlns:w,attr"`
	XMLNSR   string `xml:"xmlns:r,attr"`
	XMLNSWP  string `xml:"xmlns:wp,attr"`
	XMLNSA   string `xml:"xmlns:a,attr"`
	XMLNSPic string `xml:"xmlns:pic,attr"`
	Elements []any
}

type sectPrXML struct {
	XMLName   xml.Name            `xml:"w:sectPr"`
	HeaderRef *headerFooterRefXML `xml:"w:headerReference,omitempty"`
	FooterRef *headerFooterRefXML `xml:"w:footerReference,omitempty"`
	PageSize  pageSizeXML         `xml:"w:pgSz"`
	Margins   pageMarginsXML      `xml:"w:pgMar"`
}

type headerFooterRefXML struct {
	Type string `xml:"w:type,attr"`
	ID   string `xml:"r:id,attr"`
}

type pageSizeXML struct {
	W      string `xml:"w:w,attr"`
	H      string `xml:"w:h,attr"`
	Orient string `xml:"w:orient,attr,omitempty"`
}

type pageMarginsXML struct {
	Top    string `xml:"w:top,attr"`
	Right  string `xml:"w:right,attr"`
	Bottom string `xml:"w:bottom,attr"`
	Left   string `xml:"w:left,attr"`
	Header string `xml:"w:header,attr"`
	Footer string `xml:"w:footer,attr"`
	Gutter string `xml:"w:gutter,attr"`
}
