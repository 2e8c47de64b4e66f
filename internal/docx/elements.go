package docx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Alignment is a paragraph's horizontal alignment.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Property elements that the schema places after w:jc in w:pPr and after
// w:szCs in w:rPr. New children are inserted before the first of them.
var (
	afterJc = map[string]bool{
		"textDirection": true, "textAlignment": true, "textboxTightWrap": true,
		"outlineLvl": true, "divId": true, "cnfStyle": true, "rPr": true,
		"sectPr": true, "pPrChange": true,
	}
	afterSz = map[string]bool{
		"highlight": true, "u": true, "effect": true, "bdr": true, "shd": true,
		"fitText": true, "vertAlign": true, "rtl": true, "cs": true, "em": true,
		"lang": true, "eastAsianLayout": true, "specVanish": true, "oMath": true,
		"rPrChange": true,
	}
)

// insertOrdered creates tag under parent, before the first child whose
// local name is in followers.
func insertOrdered(parent *etree.Element, tag string, followers map[string]bool) *etree.Element {
	el := etree.NewElement(tag)
	for _, child := range parent.ChildElements() {
		if followers[child.Tag] {
			parent.InsertChildAt(child.Index(), el)
			return el
		}
	}
	parent.AddChild(el)
	return el
}

// =============================================================================
// PARAGRAPHS
// =============================================================================

// Paragraph wraps a w:p element.
type Paragraph struct {
	el *etree.Element
}

func wrapParagraphs(els []*etree.Element) []Paragraph {
	paragraphs := make([]Paragraph, len(els))
	for i, el := range els {
		paragraphs[i] = Paragraph{el: el}
	}
	return paragraphs
}

// Text returns the paragraph's text. Breaks read as "\n" and tabs as "\t".
func (p Paragraph) Text() string {
	var b strings.Builder
	collectText(p.el, &b)
	return b.String()
}

func collectText(el *etree.Element, b *strings.Builder) {
	for _, child := range el.ChildElements() {
		if child.Space != "w" {
			continue
		}
		switch child.Tag {
		case "t":
			b.WriteString(child.Text())
		case "tab":
			b.WriteString("\t")
		case "br", "cr":
			b.WriteString("\n")
		case "pPr", "rPr", "delText":
		default:
			collectText(child, b)
		}
	}
}

// SetText replaces the paragraph's text with s. The text goes into the
// first run, which keeps its formatting; every other run is emptied. A
// paragraph without runs gets a new plain run.
func (p Paragraph) SetText(s string) {
	runs := p.el.FindElements(".//w:r")
	if len(runs) == 0 {
		runs = []*etree.Element{p.el.CreateElement("w:r")}
	}

	for _, r := range runs {
		clearRunContent(r)
	}
	writeRunText(runs[0], s)
}

// SetAlignment sets w:pPr/w:jc.
func (p Paragraph) SetAlignment(a Alignment) {
	pPr := p.el.SelectElement("w:pPr")
	if pPr == nil {
		pPr = etree.NewElement("w:pPr")
		p.el.InsertChildAt(0, pPr)
	}
	jc := pPr.SelectElement("w:jc")
	if jc == nil {
		jc = insertOrdered(pPr, "w:jc", afterJc)
	}
	jc.CreateAttr("w:val", string(a))
}

// Alignment returns the w:jc value, or "" when none is set.
func (p Paragraph) Alignment() Alignment {
	jc := p.el.FindElement("./w:pPr/w:jc")
	if jc == nil {
		return ""
	}
	return Alignment(jc.SelectAttrValue("w:val", ""))
}

// clearRunContent removes the text, tab and break children of a run.
func clearRunContent(r *etree.Element) {
	for _, child := range r.ChildElements() {
		if child.Space == "w" && (child.Tag == "t" || child.Tag == "tab" || child.Tag == "br" || child.Tag == "cr") {
			r.RemoveChild(child)
		}
	}
}

// writeRunText appends s to run r as w:t elements, turning "\n" into w:br
// and "\t" into w:tab.
func writeRunText(r *etree.Element, s string) {
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			r.CreateElement("w:br")
		}
		for j, chunk := range strings.Split(line, "\t") {
			if j > 0 {
				r.CreateElement("w:tab")
			}
			if chunk == "" {
				continue
			}
			t := r.CreateElement("w:t")
			t.CreateAttr("xml:space", "preserve")
			t.SetText(chunk)
		}
	}
}

// =============================================================================
// TABLES
// =============================================================================

// Table wraps a w:tbl element.
type Table struct {
	el *etree.Element
}

// Row wraps a w:tr element.
type Row struct {
	el *etree.Element
}

// Cell wraps a w:tc element.
type Cell struct {
	el *etree.Element
}

// Rows returns the rows of the table.
func (t Table) Rows() []Row {
	var rows []Row
	for _, el := range t.el.SelectElements("w:tr") {
		rows = append(rows, Row{el: el})
	}
	return rows
}

// HeaderLabels returns the trimmed text of the cells of the first row.
func (t Table) HeaderLabels() []string {
	rows := t.Rows()
	if len(rows) == 0 {
		return nil
	}
	var labels []string
	for _, c := range rows[0].Cells() {
		labels = append(labels, strings.TrimSpace(c.Text()))
	}
	return labels
}

// AddRow appends an empty row with one cell per grid column. Each cell gets
// the grid column's width and one empty paragraph. A table without a grid
// uses the cell count of its first row.
func (t Table) AddRow() Row {
	var widths []string
	if grid := t.el.SelectElement("w:tblGrid"); grid != nil {
		for _, col := range grid.SelectElements("w:gridCol") {
			widths = append(widths, col.SelectAttrValue("w:w", ""))
		}
	}
	if len(widths) == 0 {
		if rows := t.Rows(); len(rows) > 0 {
			widths = make([]string, len(rows[0].Cells()))
		}
	}

	tr := t.el.CreateElement("w:tr")
	for _, w := range widths {
		tc := tr.CreateElement("w:tc")
		if w != "" {
			tcW := tc.CreateElement("w:tcPr").CreateElement("w:tcW")
			tcW.CreateAttr("w:w", w)
			tcW.CreateAttr("w:type", "dxa")
		}
		tc.CreateElement("w:p")
	}
	return Row{el: tr}
}

// SetFontSize sets the size of every run in the table, in points.
func (t Table) SetFontSize(points int) {
	halfPoints := strconv.Itoa(points * 2)
	for _, r := range t.el.FindElements(".//w:r") {
		rPr := r.SelectElement("w:rPr")
		if rPr == nil {
			rPr = etree.NewElement("w:rPr")
			r.InsertChildAt(0, rPr)
		}
		for _, tag := range []string{"w:sz", "w:szCs"} {
			sz := rPr.SelectElement(tag)
			if sz == nil {
				sz = insertOrdered(rPr, tag, afterSz)
			}
			sz.CreateAttr("w:val", halfPoints)
		}
	}
}

// Paragraphs returns every paragraph in every cell of the table.
func (t Table) Paragraphs() []Paragraph {
	return wrapParagraphs(t.el.FindElements(".//w:p"))
}

// Cells returns the cells of the row.
func (r Row) Cells() []Cell {
	var cells []Cell
	for _, el := range r.el.SelectElements("w:tc") {
		cells = append(cells, Cell{el: el})
	}
	return cells
}

// Paragraphs returns the paragraphs of the cell.
func (c Cell) Paragraphs() []Paragraph {
	return wrapParagraphs(c.el.SelectElements("w:p"))
}

// Text returns the cell's paragraphs joined by newlines.
func (c Cell) Text() string {
	var lines []string
	for _, p := range c.Paragraphs() {
		lines = append(lines, p.Text())
	}
	return strings.Join(lines, "\n")
}

// SetText replaces the cell's content with a single paragraph holding s.
// Cell properties are kept.
func (c Cell) SetText(s string) {
	for _, child := range c.el.ChildElements() {
		if child.Space == "w" && child.Tag != "tcPr" {
			c.el.RemoveChild(child)
		}
	}
	p := Paragraph{el: c.el.CreateElement("w:p")}
	p.SetText(s)
}
