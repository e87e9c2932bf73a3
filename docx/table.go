package docx

import (
	"encoding/xml"
	"strconv"
)

// Table is a table under construction.
type Table struct {
	part       *part
	style      string
	widthTwips int
	cells      [][]*Cell
}

func newTable(p *part, rows, cols int) *Table {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	t := &Table{part: p, style: "TableGrid"}
	t.cells = make([][]*Cell, rows)
	for r := range t.cells {
		t.cells[r] = make([]*Cell, cols)
		for c := range t.cells[r] {
			t.cells[r][c] = &Cell{part: p}
		}
	}
	return t
}

// Style sets the table style id.
func (t *Table) Style(name string) *Table {
	t.style = name
	return t
}

// Width sets the fixed table width in inches.
func (t *Table) Width(inches float64) *Table {
	t.widthTwips = int(inches * twipsPerInch)
	return t
}

// Rows returns the current row count.
func (t *Table) Rows() int { return len(t.cells) }

// Cols returns the column count.
func (t *Table) Cols() int {
	if len(t.cells) == 0 {
		return 0
	}
	return len(t.cells[0])
}

// Cell returns the cell at the given position.
func (t *Table) Cell(row, col int) *Cell {
	return t.cells[row][col]
}

// AddRow appends a row and returns its cells.
func (t *Table) AddRow() []*Cell {
	row := make([]*Cell, t.Cols())
	for c := range row {
		row[c] = &Cell{part: t.part}
	}
	t.cells = append(t.cells, row)
	return row
}

// Cell is one table cell.
type Cell struct {
	part  *part
	paras []*Paragraph
}

// AddParagraph appends a paragraph to the cell.
func (c *Cell) AddParagraph() *Paragraph {
	p := &Paragraph{part: c.part}
	c.paras = append(c.paras, p)
	return p
}

// SetText replaces the cell content with a single plain run.
func (c *Cell) SetText(text string) *Run {
	p := &Paragraph{part: c.part}
	c.paras = []*Paragraph{p}
	return p.AddRun(text)
}

func (t *Table) xml() tableXML {
	out := tableXML{
		Props: tablePropsXML{
			Style:   &valAttrXML{Val: t.style},
			Borders: defaultBorders(),
		},
	}
	if t.widthTwips > 0 {
		out.Props.Width = &tableWidthXML{W: strconv.Itoa(t.widthTwips), Type: "dxa"}
	} else {
		out.Props.Width = &tableWidthXML{W: "0", Type: "auto"}
	}

	cols := t.Cols()
	colWidth := 0
	if t.widthTwips > 0 && cols > 0 {
		colWidth = t.widthTwips / cols
	}
	for i := 0; i < cols; i++ {
		col := gridColXML{}
		if colWidth > 0 {
			col.W = strconv.Itoa(colWidth)
		}
		out.Grid.Cols = append(out.Grid.Cols, col)
	}

	for _, row := range t.cells {
		tr := tableRowXML{}
		for _, cell := range row {
			tc := tableCellXML{}
			if colWidth > 0 {
				tc.Props = &tableCellPropsXML{Width: &tableWidthXML{W: strconv.Itoa(colWidth), Type: "dxa"}}
			}
			if len(cell.paras) == 0 {
				tc.Paragraphs = append(tc.Paragraphs, paragraphXML{})
			}
			for _, p := range cell.paras {
				tc.Paragraphs = append(tc.Paragraphs, p.xml())
			}
			tr.Cells = append(tr.Cells, tc)
		}
		out.Rows = append(out.Rows, tr)
	}
	return out
}

func defaultBorders() *tableBordersXML {
	border := borderXML{Val: "single", Size: "4", Space: "0", Color: "auto"}
	return &tableBordersXML{
		Top:     border,
		Left:    border,
		Bottom:  border,
		Right:   border,
		InsideH: border,
		InsideV: border,
	}
}

type tableXML struct {
	XMLName xml.Name      `xml:"w:tbl"`
	Props   tablePropsXML `xml:"w:tblPr"`
	Grid    tableGridXML  `xml:"w:tblGrid"`
	Rows    []tableRowXML
}

type tablePropsXML struct {
	Style   *valAttrXML      `xml:"w:tblStyle,omitempty"`
	Width   *tableWidthXML   `xml:"w:tblW,omitempty"`
	Borders *tableBordersXML `xml:"w:tblBorders,omitempty"`
}

type tableWidthXML struct {
	W    string `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type tableBordersXML struct {
	Top     borderXML `xml:"w:top"`
	Left    borderXML `xml:"w:left"`
	Bottom  borderXML `xml:"w:bottom"`
	Right   borderXML `xml:"w:right"`
	InsideH borderXML `xml:"w:insideH"`
	InsideV borderXML `xml:"w:insideV"`
}

type borderXML struct {
	Val   string `xml:"w:val,attr"`
	Size  string `xml:"w:sz,attr"`
	Space string `xml:"w:space,attr"`
	Color string `xml:"w:color,attr"`
}

type tableGridXML struct {
	Cols []gridColXML `xml:"w:gridCol"`
}

type gridColXML struct {
	W string `xml:"w:w,attr,omitempty"`
}

type tableRowXML struct {
	XMLName xml.Name       `xml:"w:tr"`
	Cells   []tableCellXML `xml:"w:tc"`
}

type tableCellXML struct {
	Props      *tableCellPropsXML `xml:"w:tcPr,omitempty"`
	Paragraphs []paragraphXML
}

type tableCellPropsXML struct {
	Width *tableWidthXML `xml:"w:tcW,omitempty"`
}
