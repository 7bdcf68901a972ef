package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/turni-go/pkg/turni/models"
)

func sampleEvents() []models.ShiftEvent {
	return []models.ShiftEvent{
		{SourceFile: "b.docx", Date: "2024-11-26", DayLabel: "Martedì", ShiftType: "Mattina", EmployeeName: "Rossi"},
		{SourceFile: "a.docx", Date: "2024-11-26", DayLabel: "Martedì", ShiftType: "Notte", EmployeeName: "Bianchi"},
		{SourceFile: "a.docx", Date: "2024-11-25", DayLabel: "Lunedì", ShiftType: "Mattina", EmployeeName: "Rossi"},
		{SourceFile: "a.docx", Date: "", DayLabel: "Day6", ShiftType: "Notte", EmployeeName: "Neri"},
		{SourceFile: "a.docx", Date: "2024-11-25", DayLabel: "Lunedì", ShiftType: "Mattina", EmployeeName: "Verdi"},
	}
}

func openRows(t *testing.T, path, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows(%s) failed: %v", sheet, err)
	}
	return rows
}

func TestSortEvents(t *testing.T) {
	events := sampleEvents()
	sorted := SortEvents(events)

	var got []string
	for _, ev := range sorted {
		got = append(got, ev.Date+"|"+ev.SourceFile+"|"+ev.EmployeeName)
	}
	expected := []string{
		"|a.docx|Neri",
		"2024-11-25|a.docx|Rossi",
		"2024-11-25|a.docx|Verdi",
		"2024-11-26|a.docx|Bianchi",
		"2024-11-26|b.docx|Rossi",
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("SortEvents mismatch (-want +got):\n%s", diff)
	}
	if events[0].SourceFile != "b.docx" {
		t.Error("SortEvents modified its input")
	}
}

func TestWriteWorkbookRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "roster_shifts.xlsx")
	if err := WriteWorkbook(path, sampleEvents(), WorkbookOptions{IncludeEmployee: true}); err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(path), ".tmp-roster_shifts.xlsx")); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	sheets := f.GetSheetList()
	f.Close()
	if diff := cmp.Diff([]string{"Tutti i Turni", "Riepilogo per Turno", "Date per Turno"}, sheets); diff != "" {
		t.Errorf("sheets mismatch (-want +got):\n%s", diff)
	}

	events := [][]string{
		{"File", "Data", "Giorno", "Turno", "Dipendente"},
		{"a.docx", "", "Day6", "Notte", "Neri"},
		{"a.docx", "2024-11-25", "Lunedì", "Mattina", "Rossi"},
		{"a.docx", "2024-11-25", "Lunedì", "Mattina", "Verdi"},
		{"a.docx", "2024-11-26", "Martedì", "Notte", "Bianchi"},
		{"b.docx", "2024-11-26", "Martedì", "Mattina", "Rossi"},
	}
	if diff := cmp.Diff(events, openRows(t, path, "Tutti i Turni")); diff != "" {
		t.Errorf("events sheet mismatch (-want +got):\n%s", diff)
	}

	counts := [][]string{
		{"Tipo di Turno", "Numero di Volte"},
		{"Mattina", "3"},
		{"Notte", "2"},
	}
	if diff := cmp.Diff(counts, openRows(t, path, "Riepilogo per Turno")); diff != "" {
		t.Errorf("counts sheet mismatch (-want +got):\n%s", diff)
	}

	dates := [][]string{
		{"Mattina", "Notte"},
		{"2024-11-25", "2024-11-26"},
		{"2024-11-26"},
	}
	if diff := cmp.Diff(dates, openRows(t, path, "Date per Turno")); diff != "" {
		t.Errorf("dates sheet mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteWorkbookEmployee(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Rossi_shifts.xlsx")
	if err := WriteWorkbook(path, sampleEvents()[:1], WorkbookOptions{}); err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}

	rows := openRows(t, path, "Tutti i Turni")
	expected := [][]string{
		{"File", "Data", "Giorno", "Turno"},
		{"b.docx", "2024-11-26", "Martedì", "Mattina"},
	}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Errorf("events sheet mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteWorkbookMatrix(t *testing.T) {
	m := models.ShiftCountMatrix{}
	m.Add("Rossi", "Guardia", 3)
	m.Add("Rossi", "Mattina", 2)
	m.Add("Bianchi", "Mattina", 1)

	path := filepath.Join(t.TempDir(), "roster_shifts.xlsx")
	if err := WriteWorkbook(path, nil, WorkbookOptions{IncludeEmployee: true, Matrix: m}); err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}

	expected := [][]string{
		{"Dipendente", "Guardia", "Mattina"},
		{"Bianchi", "0", "1"},
		{"Rossi", "3", "2"},
	}
	if diff := cmp.Diff(expected, openRows(t, path, "Matrice")); diff != "" {
		t.Errorf("matrix sheet mismatch (-want +got):\n%s", diff)
	}
}

func TestCountsMatchEvents(t *testing.T) {
	events := sampleEvents()
	total := 0
	for _, n := range CountByShiftType(events) {
		total += n
	}
	if total != len(events) {
		t.Errorf("counts sum to %d, expected %d", total, len(events))
	}
}

func TestCustomLabels(t *testing.T) {
	labels := DefaultLabels()
	labels.EventsSheet = "Shifts"
	f, err := BuildWorkbook(sampleEvents(), WorkbookOptions{Labels: &labels})
	if err != nil {
		t.Fatalf("BuildWorkbook failed: %v", err)
	}
	defer f.Close()
	if idx, _ := f.GetSheetIndex("Shifts"); idx < 0 {
		t.Error("custom events sheet name not used")
	}
}

func TestToJSON(t *testing.T) {
	ev := sampleEvents()[0]
	compact, err := ToJSON(ev, false)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if strings.Contains(string(compact), "\n") {
		t.Errorf("compact JSON contains newlines: %s", compact)
	}
	if !strings.Contains(string(compact), `"shift_type":"Mattina"`) {
		t.Errorf("unexpected JSON: %s", compact)
	}

	pretty, err := ToJSON(ev, true)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !strings.Contains(string(pretty), "\n  \"date\"") {
		t.Errorf("pretty JSON not indented: %s", pretty)
	}
}
