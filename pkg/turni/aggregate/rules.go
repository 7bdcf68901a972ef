// Package aggregate walks schedule grids and turns resolved names into shift
// events or per-employee shift counts.
package aggregate

import (
	"github.com/ukaji3/turni-go/pkg/turni/names"
	"github.com/ukaji3/turni-go/pkg/turni/parser"
)

// Rules holds the schedule conventions the aggregator relies on.
type Rules struct {
	// OnCallMarker identifies on-call rows; a Friday on-call covers the weekend.
	OnCallMarker string
	// AbsenceMarker identifies rows listing absent employees.
	AbsenceMarker string
	// FridayLabels are the header day names treated as Friday.
	FridayLabels []string
	// SaturdayLabel and SundayLabel label the inferred weekend events.
	SaturdayLabel string
	SundayLabel   string
	// Years resolves file name ranges that carry no year.
	Years parser.YearPolicy
}

// DefaultRules returns the conventions of the Italian weekly schedules.
func DefaultRules() Rules {
	return Rules{
		OnCallMarker:  "guardia",
		AbsenceMarker: "assenti",
		FridayLabels:  []string{"venerdì", "venerdi", "friday"},
		SaturdayLabel: "Sabato",
		SundayLabel:   "Domenica",
		Years:         parser.DefaultYearPolicy(),
	}
}

// IsAbsence reports whether a shift-type label marks an absence row.
func (r Rules) IsAbsence(label string) bool {
	return r.AbsenceMarker != "" && names.ContainsFold(label, r.AbsenceMarker)
}

// IsOnCall reports whether a shift-type label marks an on-call row.
func (r Rules) IsOnCall(label string) bool {
	return r.OnCallMarker != "" && names.ContainsFold(label, r.OnCallMarker)
}

// IsFriday reports whether a header day name is Friday.
func (r Rules) IsFriday(day string) bool {
	for _, label := range r.FridayLabels {
		if names.EqualFold(day, label) {
			return true
		}
	}
	return false
}
