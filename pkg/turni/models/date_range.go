package models

import (
	"fmt"
	"time"
)

// DateRange is the start/end calendar range encoded in a schedule file name.
// A zero year means the file name did not carry one.
type DateRange struct {
	StartDay   int `json:"start_day"`
	StartMonth int `json:"start_month"`
	StartYear  int `json:"start_year,omitempty"`
	EndDay     int `json:"end_day"`
	EndMonth   int `json:"end_month"`
	EndYear    int `json:"end_year,omitempty"`
}

// HasYears reports whether both ends carry an explicit year.
func (r DateRange) HasYears() bool {
	return r.StartYear != 0 && r.EndYear != 0
}

// Start returns the first day of the range. Years must be resolved.
func (r DateRange) Start() time.Time {
	return time.Date(r.StartYear, time.Month(r.StartMonth), r.StartDay, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the range. Years must be resolved.
func (r DateRange) End() time.Time {
	return time.Date(r.EndYear, time.Month(r.EndMonth), r.EndDay, 0, 0, 0, 0, time.UTC)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%02d/%02d/%04d - %02d/%02d/%04d",
		r.StartDay, r.StartMonth, r.StartYear, r.EndDay, r.EndMonth, r.EndYear)
}
