// Package docxtest builds small .docx packages for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Template describes a one-table document. Each paragraph is given as its
// runs; a run is bold when it starts with "*".
type Template struct {
	// Before are the body paragraphs above the table.
	Before [][]string

	// Table holds the table rows; the first row is the header. A nil
	// Table produces a document without a table.
	Table [][]string

	// GridWidths sets the w:tblGrid column widths in twips. Empty means
	// no grid.
	GridWidths []int

	// After are the body paragraphs below the table.
	After [][]string

	// Header are the paragraphs of word/header1.xml. Empty means no
	// header part.
	Header [][]string
}

// Build returns the package bytes.
func Build(tpl Template) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	add := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			panic(err)
		}
	}

	add("[Content_Types].xml", contentTypes(len(tpl.Header) > 0))
	add("_rels/.rels", rootRels)
	add("word/document.xml", documentXML(tpl))
	if len(tpl.Header) > 0 {
		add("word/_rels/document.xml.rels", documentRels)
		add("word/header1.xml", headerXML(tpl.Header))
	}
	add("word/styles.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<w:styles xmlns:w="`+wordNS+`"/>`)

	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Write builds tpl and stores it as dir/name.
func Write(tb testing.TB, dir, name string, tpl Template) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Build(tpl), 0o644); err != nil {
		tb.Fatalf("write fixture: %v", err)
	}
	return path
}

func documentXML(tpl Template) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:document xmlns:w="` + wordNS + `"><w:body>`)
	for _, p := range tpl.Before {
		writeParagraph(&b, p)
	}
	if tpl.Table != nil {
		b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/></w:tblPr>`)
		if len(tpl.GridWidths) > 0 {
			b.WriteString(`<w:tblGrid>`)
			for _, w := range tpl.GridWidths {
				b.WriteString(`<w:gridCol w:w="` + strconv.Itoa(w) + `"/>`)
			}
			b.WriteString(`</w:tblGrid>`)
		}
		for _, row := range tpl.Table {
			b.WriteString(`<w:tr>`)
			for _, cell := range row {
				b.WriteString(`<w:tc>`)
				writeParagraph(&b, []string{cell})
				b.WriteString(`</w:tc>`)
			}
			b.WriteString(`</w:tr>`)
		}
		b.WriteString(`</w:tbl>`)
	}
	for _, p := range tpl.After {
		writeParagraph(&b, p)
	}
	b.WriteString(`<w:sectPr/></w:body></w:document>`)
	return b.String()
}

func headerXML(paragraphs [][]string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:hdr xmlns:w="` + wordNS + `">`)
	for _, p := range paragraphs {
		writeParagraph(&b, p)
	}
	b.WriteString(`</w:hdr>`)
	return b.String()
}

func writeParagraph(b *strings.Builder, runs []string) {
	b.WriteString(`<w:p>`)
	for _, run := range runs {
		b.WriteString(`<w:r>`)
		if strings.HasPrefix(run, "*") {
			run = run[1:]
			b.WriteString(`<w:rPr><w:b/></w:rPr>`)
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		xml.EscapeText(b, []byte(run))
		b.WriteString(`</w:t></w:r>`)
	}
	b.WriteString(`</w:p>`)
}

func contentTypes(withHeader bool) string {
	header := ""
	if withHeader {
		header = `<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>`
	}
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		header +
		`</Types>`
}

const rootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>` +
	`</Relationships>`
