// =============================================================================
// Invoice Automation - DOCX Document
// =============================================================================
//
// This module loads a WordprocessingML package (.docx), exposes the parts
// the invoice engine edits and writes the package back out.
//
// PACKAGE LAYOUT:
//   A .docx file is a zip archive. Only these parts are parsed:
//     - word/document.xml   (the body: paragraphs and tables)
//     - word/header*.xml    (page headers)
//     - word/footer*.xml    (page footers)
//   Every other entry (styles, images, relationships) is carried through
//   byte for byte, in its original order.
//
// COPY SEMANTICS:
//   Clone returns an independent deep copy. The assembler fills a clone so
//   the loaded template is never changed.
//
// =============================================================================

package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/beevik/etree"
)

const (
	mainPart = "word/document.xml"
)

// entry is one file of the zip package.
type entry struct {
	header zip.FileHeader
	data   []byte
}

// Document is an opened .docx package.
type Document struct {
	entries []entry
	parts   map[string]*etree.Document
}

// =============================================================================
// LOADING
// =============================================================================

// Open reads the .docx file at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Read(bytes.NewReader(data), int64(len(data)))
}

// Read parses a .docx package from r.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("document is not a zip package: %w", err)
	}

	doc := &Document{parts: make(map[string]*etree.Document)}
	for _, f := range zr.File {
		data, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		doc.entries = append(doc.entries, entry{header: f.FileHeader, data: data})

		if !isEditablePart(f.Name) {
			continue
		}
		xmlDoc := etree.NewDocument()
		if err := xmlDoc.ReadFromBytes(data); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f.Name, err)
		}
		doc.parts[f.Name] = xmlDoc
	}

	if doc.body() == nil {
		return nil, fmt.Errorf("document has no %s body", mainPart)
	}
	return doc, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	return data, nil
}

// isEditablePart reports whether name is the main body, a header or a
// footer.
func isEditablePart(name string) bool {
	if name == mainPart {
		return true
	}
	dir, file := path.Split(name)
	if dir != "word/" || !strings.HasSuffix(file, ".xml") {
		return false
	}
	return strings.HasPrefix(file, "header") || strings.HasPrefix(file, "footer")
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the package to path, replacing any existing file.
func (d *Document) Save(path string) error {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// Write serializes the package to w.
func (d *Document) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, e := range d.entries {
		data := e.data
		if part, ok := d.parts[e.header.Name]; ok {
			b, err := part.WriteToBytes()
			if err != nil {
				return fmt.Errorf("failed to serialize %s: %w", e.header.Name, err)
			}
			data = b
		}

		header := e.header
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     header.Name,
			Method:   header.Method,
			Modified: header.Modified,
		})
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", header.Name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("failed to write %s: %w", header.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish document: %w", err)
	}
	return nil
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := &Document{
		entries: append([]entry(nil), d.entries...),
		parts:   make(map[string]*etree.Document, len(d.parts)),
	}
	for name, part := range d.parts {
		c.parts[name] = part.Copy()
	}
	return c
}

// =============================================================================
// CONTENT ACCESS
// =============================================================================

// body returns the w:body element, or nil.
func (d *Document) body() *etree.Element {
	part, ok := d.parts[mainPart]
	if !ok || part.Root() == nil {
		return nil
	}
	return part.Root().SelectElement("w:body")
}

// Paragraphs returns the top-level paragraphs of the body, in order.
func (d *Document) Paragraphs() []Paragraph {
	return wrapParagraphs(d.body().SelectElements("w:p"))
}

// Tables returns the top-level tables of the body, in order.
func (d *Document) Tables() []Table {
	var tables []Table
	for _, el := range d.body().SelectElements("w:tbl") {
		tables = append(tables, Table{el: el})
	}
	return tables
}

// HeaderFooterParagraphs returns every paragraph of every header and footer
// part, in package order.
func (d *Document) HeaderFooterParagraphs() []Paragraph {
	var paragraphs []Paragraph
	for _, e := range d.entries {
		name := e.header.Name
		if name == mainPart {
			continue
		}
		part, ok := d.parts[name]
		if !ok || part.Root() == nil {
			continue
		}
		paragraphs = append(paragraphs, wrapParagraphs(part.Root().FindElements(".//w:p"))...)
	}
	return paragraphs
}

// AllParagraphs returns every paragraph of the document: body paragraphs,
// paragraphs nested in tables, then headers and footers.
func (d *Document) AllParagraphs() []Paragraph {
	paragraphs := wrapParagraphs(d.body().FindElements(".//w:p"))
	return append(paragraphs, d.HeaderFooterParagraphs()...)
}

// Text returns the text of every paragraph joined by newlines.
func (d *Document) Text() string {
	var lines []string
	for _, p := range d.AllParagraphs() {
		lines = append(lines, p.Text())
	}
	return strings.Join(lines, "\n")
}
