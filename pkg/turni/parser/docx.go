package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ukaji3/turni-go/pkg/turni/models"
)

// docxBodyPart is the main document part of a WordprocessingML package.
const docxBodyPart = "word/document.xml"

// docxCell is a table cell as laid out on the table grid.
type docxCell struct {
	text   string
	span   int
	merged bool
}

// ExtractDocxTables reads the top-level tables of a .docx package.
func ExtractDocxTables(r *zip.Reader) ([]models.Table, error) {
	data, err := readZipFile(r, docxBodyPart)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrUnsupportedFormat, docxBodyPart)
	}
	grids, err := parseDocumentXML(data)
	if err != nil {
		return nil, err
	}

	var tables []models.Table
	for _, grid := range grids {
		if t, ok := normalizeGrid(grid); ok {
			tables = append(tables, t)
		}
	}
	return tables, nil
}

// parseDocumentXML returns every top-level table as rows of grid-aligned cell texts.
func parseDocumentXML(data []byte) ([][][]string, error) {
	var grids [][][]string

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", docxBodyPart, err)
		}

		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "tbl" {
			rows, err := parseTable(decoder)
			if err != nil {
				return nil, fmt.Errorf("parse table %d: %w", len(grids)+1, err)
			}
			grids = append(grids, layoutRows(rows))
		}
	}

	return grids, nil
}

// parseTable consumes a w:tbl element and returns its rows.
func parseTable(decoder *xml.Decoder) ([][]docxCell, error) {
	var rows [][]docxCell
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tr":
				row, err := parseTableRow(decoder)
				if err != nil {
					return nil, err
				}
				rows = append(rows, row)
			case "tblPr", "tblGrid":
				if err := decoder.Skip(); err != nil {
					return nil, err
				}
			default:
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}
	return rows, nil
}

// parseTableRow consumes a w:tr element.
func parseTableRow(decoder *xml.Decoder) ([]docxCell, error) {
	var cells []docxCell
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tc":
				cell, err := parseTableCell(decoder)
				if err != nil {
					return nil, err
				}
				cells = append(cells, cell)
			case "trPr", "tblPrEx":
				if err := decoder.Skip(); err != nil {
					return nil, err
				}
			default:
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}
	return cells, nil
}

// parseTableCell consumes a w:tc element. Nested tables are not part of the cell text.
func parseTableCell(decoder *xml.Decoder) (docxCell, error) {
	cell := docxCell{span: 1}
	var paragraphs []string
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return cell, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tcPr":
				if err := parseCellProperties(decoder, &cell); err != nil {
					return cell, err
				}
			case "p":
				text, err := parseParagraph(decoder)
				if err != nil {
					return cell, err
				}
				paragraphs = append(paragraphs, text)
			case "tbl":
				if err := decoder.Skip(); err != nil {
					return cell, err
				}
			default:
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}
	cell.text = strings.Join(paragraphs, "\n")
	return cell, nil
}

// parseCellProperties reads w:gridSpan and w:vMerge from a w:tcPr element.
func parseCellProperties(decoder *xml.Decoder, cell *docxCell) error {
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "gridSpan":
				if v, ok := attrValue(t, "val"); ok {
					if n, err := strconv.Atoi(v); err == nil && n > 1 {
						cell.span = n
					}
				}
			case "vMerge":
				// A bare w:vMerge (or val="continue") continues the cell above.
				v, _ := attrValue(t, "val")
				cell.merged = v != "restart"
			}
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

// parseParagraph returns the visible text of a w:p element.
func parseParagraph(decoder *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return sb.String(), err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				text, err := readElementText(decoder)
				if err != nil {
					return sb.String(), err
				}
				sb.WriteString(text)
			case "tab":
				sb.WriteByte('\t')
				depth++
			case "br", "cr":
				sb.WriteByte('\n')
				depth++
			case "pPr", "rPr", "delText", "instrText":
				if err := decoder.Skip(); err != nil {
					return sb.String(), err
				}
			default:
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}
	return sb.String(), nil
}

// layoutRows expands merged cells onto the table grid: a gridSpan cell fills every
// column it spans and a vMerge continuation repeats the text of the cell above.
func layoutRows(rows [][]docxCell) [][]string {
	grid := make([][]string, 0, len(rows))
	for r, row := range rows {
		var line []string
		for _, cell := range row {
			for s := 0; s < cell.span; s++ {
				col := len(line)
				text := cell.text
				if cell.merged && r > 0 && col < len(grid[r-1]) {
					text = grid[r-1][col]
				}
				line = append(line, text)
			}
		}
		grid = append(grid, line)
	}
	return grid
}
