package parser

import (
	"archive/zip"
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ukaji3/turni-go/internal/testutil"
	"github.com/ukaji3/turni-go/pkg/turni/models"
)

const wNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func docxBody(inner string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><w:document ` + wNS + `><w:body>` + inner + `</w:body></w:document>`
}

func readDocx(t *testing.T, data []byte) []models.Table {
	t.Helper()
	tables, err := ReadTablesBytes("week.docx", data)
	if err != nil {
		t.Fatalf("ReadTablesBytes failed: %v", err)
	}
	return tables
}

func TestExtractDocxTables(t *testing.T) {
	data := testutil.BuildDocx(t,
		[][]string{
			testutil.WeekHeader,
			{"Mattina", " Rossi ", "Bianchi\nVerdi", "", "Neri", "Rossi"},
			{"Assenti", "Gialli", "", "", "", ""},
		},
		[][]string{
			{"Reperibilità", "Lun"},
			{"Guardia", "Rossi"},
		},
	)

	expected := []models.Table{
		{
			Header: testutil.WeekHeader,
			Rows: []models.Row{
				{Label: "Mattina", Cells: []string{"Rossi", "Bianchi\nVerdi", "", "Neri", "Rossi"}},
				{Label: "Assenti", Cells: []string{"Gialli", "", "", "", ""}},
			},
		},
		{
			Header: []string{"Reperibilità", "Lun"},
			Rows:   []models.Row{{Label: "Guardia", Cells: []string{"Rossi"}}},
		},
	}

	if diff := cmp.Diff(expected, readDocx(t, data)); diff != "" {
		t.Errorf("tables mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractDocxMergedCells(t *testing.T) {
	xml := docxBody(`<w:tbl><w:tblPr/><w:tblGrid><w:gridCol/><w:gridCol/><w:gridCol/></w:tblGrid>
<w:tr>
  <w:tc><w:p><w:r><w:t>Turno</w:t></w:r></w:p></w:tc>
  <w:tc><w:p><w:r><w:t>Lunedì</w:t></w:r></w:p></w:tc>
  <w:tc><w:p><w:r><w:t>Martedì</w:t></w:r></w:p></w:tc>
</w:tr>
<w:tr>
  <w:tc><w:tcPr><w:vMerge w:val="restart"/></w:tcPr><w:p><w:r><w:t>Mattina</w:t></w:r></w:p></w:tc>
  <w:tc><w:tcPr><w:gridSpan w:val="2"/></w:tcPr><w:p><w:r><w:t>Rossi</w:t></w:r></w:p></w:tc>
</w:tr>
<w:tr>
  <w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc>
  <w:tc><w:p><w:r><w:t>Bianchi</w:t><w:tab/><w:t>8-14</w:t></w:r></w:p></w:tc>
  <w:tc><w:p><w:r><w:t>Verdi</w:t><w:br/><w:t>Neri</w:t></w:r></w:p></w:tc>
</w:tr>
</w:tbl>`)

	expected := []models.Table{{
		Header: []string{"Turno", "Lunedì", "Martedì"},
		Rows: []models.Row{
			{Label: "Mattina", Cells: []string{"Rossi", "Rossi"}},
			{Label: "Mattina", Cells: []string{"Bianchi\t8-14", "Verdi\nNeri"}},
		},
	}}

	got := readDocx(t, testutil.PackageDocx(t, xml))
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("tables mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractDocxIgnoresNestedTablesAndRevisions(t *testing.T) {
	xml := docxBody(`<w:p><w:r><w:t>Settimana</w:t></w:r></w:p>
<w:tbl>
<w:tr>
  <w:tc><w:p><w:r><w:t>Turno</w:t></w:r></w:p></w:tc>
  <w:tc><w:p><w:r><w:t>Lunedì</w:t></w:r></w:p></w:tc>
</w:tr>
<w:tr>
  <w:tc><w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:rPr><w:b/></w:rPr><w:t>Pomeriggio</w:t></w:r></w:p></w:tc>
  <w:tc>
    <w:p><w:r><w:t>Rossi</w:t></w:r><w:del><w:r><w:delText>Gialli</w:delText></w:r></w:del></w:p>
    <w:tbl><w:tr><w:tc><w:p><w:r><w:t>Interno</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
  </w:tc>
</w:tr>
</w:tbl>`)

	expected := []models.Table{{
		Header: []string{"Turno", "Lunedì"},
		Rows:   []models.Row{{Label: "Pomeriggio", Cells: []string{"Rossi"}}},
	}}

	got := readDocx(t, testutil.PackageDocx(t, xml))
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("tables mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractDocxWithoutTables(t *testing.T) {
	got := readDocx(t, testutil.PackageDocx(t, docxBody(`<w:p><w:r><w:t>Nessun turno</w:t></w:r></w:p>`)))
	if len(got) != 0 {
		t.Errorf("expected no tables, got %d", len(got))
	}
}

func TestExtractDocxMissingBody(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("[Content_Types].xml")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte(`<Types/>`))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	_, err = ReadTablesBytes("week.docx", buf.Bytes())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractDocxMalformedXML(t *testing.T) {
	data := testutil.PackageDocx(t, docxBody(`<w:tbl><w:tr><w:tc><w:p>`))
	if _, err := ReadTablesBytes("week.docx", data); err == nil {
		t.Error("expected an error for truncated document.xml")
	}
}

func TestReadTablesBytesUnsupported(t *testing.T) {
	if _, err := ReadTablesBytes("week.doc", []byte("binary")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := ReadTablesBytes("week.docx", []byte("not a zip")); err == nil {
		t.Error("expected an error for a corrupt package")
	}
}

func TestReadDocument(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteDocx(t, dir, "week_1.docx", [][]string{
		testutil.WeekHeader,
		{"Mattina", "Rossi", "", "", "", ""},
	})

	doc, err := ReadDocument(path, "57. 25:11 - 29:11.docx")
	if err != nil {
		t.Fatalf("ReadDocument failed: %v", err)
	}
	if doc.OriginalName != "57. 25:11 - 29:11.docx" {
		t.Errorf("OriginalName = %q", doc.OriginalName)
	}
	if doc.StorageName != "week_1.docx" {
		t.Errorf("StorageName = %q", doc.StorageName)
	}
	if doc.ModTime.IsZero() {
		t.Error("ModTime not set")
	}
	if len(doc.Tables) != 1 || len(doc.Tables[0].Rows) != 1 {
		t.Fatalf("unexpected tables: %+v", doc.Tables)
	}

	doc, err = ReadDocument(path, "")
	if err != nil {
		t.Fatalf("ReadDocument failed: %v", err)
	}
	if doc.OriginalName != "week_1.docx" {
		t.Errorf("OriginalName defaults to the base name, got %q", doc.OriginalName)
	}

	if _, err := ReadDocument(filepath.Join(dir, "missing.docx"), ""); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"week.docx", true},
		{"WEEK.DOCX", true},
		{"week.xlsx", true},
		{"week.doc", false},
		{"week.pdf", false},
		{"docx", false},
	}
	for _, tt := range tests {
		if got := IsSupported(tt.name); got != tt.expected {
			t.Errorf("IsSupported(%q) = %v, expected %v", tt.name, got, tt.expected)
		}
	}
}
