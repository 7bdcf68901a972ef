// Package output serializes analysis results to workbooks and JSON.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/turni-go/pkg/turni/models"
)

// Labels names the sheets and columns of the workbook.
type Labels struct {
	EventsSheet string
	CountsSheet string
	DatesSheet  string
	MatrixSheet string
	File        string
	Date        string
	Day         string
	Shift       string
	Employee    string
	ShiftType   string
	Occurrences string
}

// DefaultLabels returns the Italian labels used by the schedule office.
func DefaultLabels() Labels {
	return Labels{
		EventsSheet: "Tutti i Turni",
		CountsSheet: "Riepilogo per Turno",
		DatesSheet:  "Date per Turno",
		MatrixSheet: "Matrice",
		File:        "File",
		Date:        "Data",
		Day:         "Giorno",
		Shift:       "Turno",
		Employee:    "Dipendente",
		ShiftType:   "Tipo di Turno",
		Occurrences: "Numero di Volte",
	}
}

// WorkbookOptions configures workbook generation.
type WorkbookOptions struct {
	// IncludeEmployee adds the employee column to the events sheet (roster-wide runs).
	IncludeEmployee bool
	// Matrix, when set, is written to an extra sheet.
	Matrix models.ShiftCountMatrix
	// Labels overrides the default sheet and column names.
	Labels *Labels
}

func (o WorkbookOptions) labels() Labels {
	if o.Labels != nil {
		return *o.Labels
	}
	return DefaultLabels()
}

// SortEvents returns a copy of events in report order: ascending date, then
// source file, otherwise in production order. Empty dates come first.
func SortEvents(events []models.ShiftEvent) []models.ShiftEvent {
	sorted := make([]models.ShiftEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].SourceFile < sorted[j].SourceFile
	})
	return sorted
}

// CountByShiftType counts events per shift type.
func CountByShiftType(events []models.ShiftEvent) map[string]int {
	counts := make(map[string]int)
	for _, ev := range events {
		counts[ev.ShiftType]++
	}
	return counts
}

// DatesByShiftType returns, per shift type, the distinct non-empty dates in ascending order.
func DatesByShiftType(events []models.ShiftEvent) map[string][]string {
	sets := make(map[string]map[string]struct{})
	for _, ev := range events {
		set, ok := sets[ev.ShiftType]
		if !ok {
			set = make(map[string]struct{})
			sets[ev.ShiftType] = set
		}
		if ev.Date != "" {
			set[ev.Date] = struct{}{}
		}
	}

	out := make(map[string][]string, len(sets))
	for st, set := range sets {
		dates := make([]string, 0, len(set))
		for d := range set {
			dates = append(dates, d)
		}
		sort.Strings(dates)
		out[st] = dates
	}
	return out
}

// BuildWorkbook lays out events (and optionally a matrix) as a workbook.
func BuildWorkbook(events []models.ShiftEvent, opts WorkbookOptions) (*excelize.File, error) {
	labels := opts.labels()
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", labels.EventsSheet); err != nil {
		f.Close()
		return nil, err
	}
	steps := []func() error{
		func() error { return writeEvents(f, labels, SortEvents(events), opts.IncludeEmployee, headerStyle) },
		func() error { return writeCounts(f, labels, events, headerStyle) },
		func() error { return writeDates(f, labels, events, headerStyle) },
	}
	if opts.Matrix != nil {
		steps = append(steps, func() error { return writeMatrix(f, labels, opts.Matrix, headerStyle) })
	}
	for _, step := range steps {
		if err := step(); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteWorkbook builds the workbook and saves it to path. The file is written
// next to path first and renamed into place, so path never holds a partial workbook.
func WriteWorkbook(path string, events []models.ShiftEvent, opts WorkbookOptions) error {
	f, err := BuildWorkbook(events, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := filepath.Join(filepath.Dir(path), ".tmp-"+filepath.Base(path))
	if err := f.SaveAs(tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("save workbook: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func writeEvents(f *excelize.File, l Labels, events []models.ShiftEvent, withEmployee bool, style int) error {
	sheet := l.EventsSheet
	header := []interface{}{l.File, l.Date, l.Day, l.Shift}
	if withEmployee {
		header = append(header, l.Employee)
	}
	if err := writeHeader(f, sheet, header, style); err != nil {
		return err
	}

	for i, ev := range events {
		row := []interface{}{ev.SourceFile, ev.Date, ev.DayLabel, ev.ShiftType}
		if withEmployee {
			row = append(row, ev.EmployeeName)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "E", 15)
	return nil
}

func writeCounts(f *excelize.File, l Labels, events []models.ShiftEvent, style int) error {
	sheet := l.CountsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, []interface{}{l.ShiftType, l.Occurrences}, style); err != nil {
		return err
	}

	counts := CountByShiftType(events)
	for i, st := range sortedKeys(counts) {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{st, counts[st]}); err != nil {
			return err
		}
	}

	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "B", 18)
	return nil
}

// writeDates lays out one column per shift type with its dates underneath; columns are ragged.
func writeDates(f *excelize.File, l Labels, events []models.ShiftEvent, style int) error {
	sheet := l.DatesSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	byType := DatesByShiftType(events)
	types := make([]string, 0, len(byType))
	for st := range byType {
		types = append(types, st)
	}
	sort.Strings(types)

	header := make([]interface{}, len(types))
	for i, st := range types {
		header[i] = st
	}
	if err := writeHeader(f, sheet, header, style); err != nil {
		return err
	}

	for col, st := range types {
		for row, date := range byType[st] {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, date); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeMatrix(f *excelize.File, l Labels, m models.ShiftCountMatrix, style int) error {
	sheet := l.MatrixSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	types := m.ShiftTypes()
	header := []interface{}{l.Employee}
	for _, st := range types {
		header = append(header, st)
	}
	if err := writeHeader(f, sheet, header, style); err != nil {
		return err
	}

	for i, name := range m.Employees() {
		row := []interface{}{name}
		for _, st := range types {
			row = append(row, m[name][st])
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	f.SetColWidth(sheet, "A", "A", 30)
	return nil
}

func writeHeader(f *excelize.File, sheet string, header []interface{}, style int) error {
	if len(header) == 0 {
		return nil
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	return f.SetRowStyle(sheet, 1, 1, style)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
