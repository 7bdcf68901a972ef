package aggregate

import (
	"github.com/ukaji3/turni-go/pkg/turni/models"
	"github.com/ukaji3/turni-go/pkg/turni/parser"
)

// Mode selects what a run produces.
type Mode string

const (
	// ModeEvents produces one ShiftEvent per presence, weekend events included.
	ModeEvents Mode = "events"
	// ModeMatrix produces per-employee counts by shift type.
	ModeMatrix Mode = "matrix"
)

// Accumulator collects the output of a run across documents.
type Accumulator struct {
	mode        Mode
	rules       Rules
	Events      []models.ShiftEvent
	Matrix      models.ShiftCountMatrix
	Ambiguities []models.Ambiguity
	seen        map[string]struct{}
}

// NewAccumulator returns an empty accumulator for mode.
func NewAccumulator(mode Mode, rules Rules) *Accumulator {
	acc := &Accumulator{
		mode:  mode,
		rules: rules,
		seen:  make(map[string]struct{}),
	}
	if mode == ModeMatrix {
		acc.Matrix = make(models.ShiftCountMatrix)
	}
	return acc
}

// Mode returns the accumulator's mode.
func (acc *Accumulator) Mode() Mode {
	return acc.mode
}

// Empty reports whether nothing was collected.
func (acc *Accumulator) Empty() bool {
	if acc.mode == ModeMatrix {
		return acc.Matrix.Total() == 0
	}
	return len(acc.Events) == 0
}

// shift records one presence and returns the number of events or increments added.
func (acc *Accumulator) shift(ev models.ShiftEvent) int {
	if acc.mode == ModeMatrix {
		acc.Matrix.Add(ev.EmployeeName, ev.ShiftType, 1)
		return 1
	}
	acc.Events = append(acc.Events, ev)
	return 1
}

// weekend records the Saturday and Sunday implied by a Friday on-call presence.
func (acc *Accumulator) weekend(friday models.ShiftEvent) int {
	if acc.mode == ModeMatrix {
		acc.Matrix.Add(friday.EmployeeName, friday.ShiftType, 2)
		return 2
	}

	sat := friday
	sat.Date = parser.ShiftDate(friday.Date, 1)
	sat.DayLabel = acc.rules.SaturdayLabel
	sat.Inferred = true

	sun := friday
	sun.Date = parser.ShiftDate(friday.Date, 2)
	sun.DayLabel = acc.rules.SundayLabel
	sun.Inferred = true

	acc.Events = append(acc.Events, sat, sun)
	return 2
}

func (acc *Accumulator) ambiguous(list []models.Ambiguity) {
	for _, a := range list {
		key := a.Candidate + "\x00" + a.Chosen
		if _, ok := acc.seen[key]; ok {
			continue
		}
		acc.seen[key] = struct{}{}
		acc.Ambiguities = append(acc.Ambiguities, a)
	}
}

