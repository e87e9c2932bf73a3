package docx

import (
	"fmt"
	"strings"
)

// Font describes a font family applied to runs or document defaults.
type Font struct {
	Name   string
	Size   int // points
	Bold   bool
	Italic bool
	Color  string // RRGGBB hex
}

const maxHeadingLevel = 6

// Heading sizes in points, index 0 unused.
var headingSizes = [maxHeadingLevel + 1]int{0, 16, 14, 13, 12, 11, 10}

// stylesXML builds word/styles.xml: document defaults plus Heading1..6 and
// the TableGrid style the tables reference.
func stylesXML(def Font) []byte {
	if def.Name == "" {
		def.Name = "Segoe UI"
	}
	if def.Size <= 0 {
		def.Size = 10
	}
	if def.Color == "" {
		def.Color = "000000"
	}

	var b strings.Builder
	b.WriteString(xmlDeclaration)
	fmt.Fprintf(&b, `<w:styles xmlns:w=%q>`, nsMain)

	fmt.Fprintf(&b,
		`<w:docDefaults><w:rPrDefault><w:rPr>`+
			`<w:rFonts w:ascii=%q w:hAnsi=%q/>`+
			`<w:color w:val=%q/>`+
			`<w:sz w:val="%d"/><w:szCs w:val="%d"/>`+
			`</w:rPr></w:rPrDefault></w:docDefaults>`,
		def.Name, def.Name, def.Color, def.Size*2, def.Size*2)

	b.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal">` +
		`<w:name w:val="Normal"/></w:style>`)

	for level := 1; level <= maxHeadingLevel; level++ {
		fmt.Fprintf(&b,
			`<w:style w:type="paragraph" w:styleId="Heading%d">`+
				`<w:name w:val="heading %d"/>`+
				`<w:basedOn w:val="Normal"/>`+
				`<w:pPr><w:outlineLvl w:val="%d"/></w:pPr>`+
				`<w:rPr><w:b/><w:sz w:val="%d"/><w:szCs w:val="%d"/></w:rPr>`+
				`</w:style>`,
			level, level, level-1, headingSizes[level]*2, headingSizes[level]*2)
	}

	b.WriteString(`<w:style w:type="table" w:styleId="TableGrid">` +
		`<w:name w:val="Table Grid"/>` +
		`<w:tblPr><w:tblBorders>` +
		`<w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`</w:tblBorders></w:tblPr></w:style>`)

	b.WriteString(`</w:styles>`)
	return []byte(b.String())
}
