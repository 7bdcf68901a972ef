package parser

import (
	"strings"

	"github.com/ukaji3/turni-go/pkg/turni/models"
	"github.com/xuri/excelize/v2"
)

// ExtractXlsxTables reads one table per sheet: the bounding box of non-empty cells.
func ExtractXlsxTables(f *excelize.File) ([]models.Table, error) {
	var tables []models.Table
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, err
		}
		if t, ok := normalizeGrid(cropToData(rows)); ok {
			tables = append(tables, t)
		}
	}
	return tables, nil
}

// cropToData cuts rows down to the bounding box of non-empty cells.
func cropToData(rows [][]string) [][]string {
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return nil
	}

	grid := make([][]string, 0, maxRow-minRow+1)
	for rowIdx := minRow; rowIdx <= maxRow; rowIdx++ {
		row := rows[rowIdx]
		line := make([]string, 0, maxCol-minCol+1)
		for colIdx := minCol; colIdx <= maxCol; colIdx++ {
			if colIdx < len(row) {
				line = append(line, row[colIdx])
			} else {
				line = append(line, "")
			}
		}
		grid = append(grid, line)
	}
	return grid
}

// findDataBounds finds the bounding box of non-blank cells. All bounds are -1 when there is none.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if maxRow < 0 || rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if maxCol < 0 || colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}
