package models

// DateLayout is the ISO layout used for every date string in events.
const DateLayout = "2006-01-02"

// ShiftEvent is one employee presence on one shift. Events are never
// de-duplicated: a name listed twice in a row yields two events.
type ShiftEvent struct {
	// SourceFile is the original file name of the schedule.
	SourceFile string `json:"source_file"`
	// Date is the ISO date, or empty when the column has no date.
	Date string `json:"date"`
	// DayLabel is the header day name, or Day{n} for columns beyond the header.
	DayLabel string `json:"day_label"`
	// ShiftType is the row label.
	ShiftType string `json:"shift_type"`
	// EmployeeName is the resolved employee.
	EmployeeName string `json:"employee_name,omitempty"`
	// Inferred marks weekend events derived from a Friday on-call shift.
	Inferred bool `json:"inferred,omitempty"`
}
