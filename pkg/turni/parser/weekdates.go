package parser

import (
	"time"

	"github.com/ukaji3/turni-go/pkg/turni/models"
)

// WeekDates lists the Monday to Friday dates of a resolved range as ISO strings.
// It returns nil when the range is reversed or covers only a weekend.
func WeekDates(r models.DateRange) []string {
	start, end := r.Start(), r.End()
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if isWeekday(d) {
			dates = append(dates, d.Format(models.DateLayout))
		}
	}
	return dates
}

func isWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// ShiftDate returns the ISO date days after date. An empty date stays empty.
func ShiftDate(date string, days int) string {
	if date == "" {
		return ""
	}
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, days).Format(models.DateLayout)
}
