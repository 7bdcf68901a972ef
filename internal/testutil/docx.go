// Package testutil builds schedule documents for tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const documentFooter = `<w:sectPr/></w:body></w:document>`

// DocumentXML renders tables as a minimal word/document.xml body. Newlines in
// a cell become separate paragraphs.
func DocumentXML(tables ...[][]string) string {
	var sb strings.Builder
	sb.WriteString(documentHeader)
	sb.WriteString(`<w:p><w:r><w:t>Turni settimanali</w:t></w:r></w:p>`)
	for _, table := range tables {
		sb.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/></w:tblPr><w:tblGrid/>`)
		for _, row := range table {
			sb.WriteString(`<w:tr>`)
			for _, cell := range row {
				sb.WriteString(`<w:tc><w:tcPr><w:tcW w:w="1000" w:type="dxa"/></w:tcPr>`)
				for _, para := range strings.Split(cell, "\n") {
					sb.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
					xml.EscapeText(&sb, []byte(para))
					sb.WriteString(`</w:t></w:r></w:p>`)
				}
				sb.WriteString(`</w:tc>`)
			}
			sb.WriteString(`</w:tr>`)
		}
		sb.WriteString(`</w:tbl>`)
	}
	sb.WriteString(documentFooter)
	return sb.String()
}

// PackageDocx wraps a document.xml body into a .docx zip package.
func PackageDocx(t testing.TB, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`,
		"word/document.xml":   documentXML,
	}
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close docx: %v", err)
	}
	return buf.Bytes()
}

// BuildDocx returns a .docx package holding tables.
func BuildDocx(t testing.TB, tables ...[][]string) []byte {
	t.Helper()
	return PackageDocx(t, DocumentXML(tables...))
}

// WriteDocx writes a .docx holding tables to dir/name and returns its path.
func WriteDocx(t testing.TB, dir, name string, tables ...[][]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, BuildDocx(t, tables...), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WeekHeader is the header row of the Italian weekly schedules.
var WeekHeader = []string{"Turno", "Lunedì", "Martedì", "Mercoledì", "Giovedì", "Venerdì"}
