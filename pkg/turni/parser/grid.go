// Package parser reads schedule grids out of office documents and decodes
// the date ranges carried by their file names.
package parser

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/turni-go/pkg/turni/models"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat indicates a file that is neither a .docx nor a .xlsx package.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Document formats by file extension.
const (
	ExtDocx = ".docx"
	ExtXlsx = ".xlsx"
)

// IsSupported reports whether name has an extension the grid reader understands.
func IsSupported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ExtDocx, ExtXlsx:
		return true
	}
	return false
}

// ReadTables opens the file at path and returns its schedule tables.
func ReadTables(path string) ([]models.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtDocx:
		r, err := zip.OpenReader(path)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return ExtractDocxTables(&r.Reader)
	case ExtXlsx:
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ExtractXlsxTables(f)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
}

// ReadTablesBytes parses in-memory content; name only selects the format.
func ReadTablesBytes(name string, data []byte) ([]models.Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ExtDocx:
		r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, err
		}
		return ExtractDocxTables(r)
	case ExtXlsx:
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ExtractXlsxTables(f)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// ReadDocument loads the document stored at path. originalName carries the
// date range; when empty the base name of path is used.
func ReadDocument(path, originalName string) (*models.ScheduleDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	tables, err := ReadTables(path)
	if err != nil {
		return nil, err
	}
	if originalName == "" {
		originalName = filepath.Base(path)
	}
	return &models.ScheduleDocument{
		OriginalName: originalName,
		StorageName:  filepath.Base(path),
		Path:         path,
		ModTime:      info.ModTime(),
		Tables:       tables,
	}, nil
}

// normalizeGrid turns raw rows into a header plus labelled body rows.
// Rows with no cells are dropped; a grid without any row yields no table.
func normalizeGrid(grid [][]string) (models.Table, bool) {
	var nonEmpty [][]string
	for _, row := range grid {
		if len(row) == 0 {
			continue
		}
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.TrimSpace(c)
		}
		nonEmpty = append(nonEmpty, cells)
	}
	if len(nonEmpty) == 0 {
		return models.Table{}, false
	}

	t := models.Table{Header: nonEmpty[0]}
	for _, cells := range nonEmpty[1:] {
		t.Rows = append(t.Rows, models.Row{
			Label: cells[0],
			Cells: cells[1:],
		})
	}
	return t, true
}
