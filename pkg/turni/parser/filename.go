package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/ukaji3/turni-go/pkg/turni/models"
)

// ErrInvalidDate indicates a file name range that does not name a real calendar day.
var ErrInvalidDate = errors.New("invalid calendar date")

// Filename conventions, tried in order. Later patterns are legacy forms.
var (
	slashRangePattern = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{2,4})\s*-\s*(\d{1,2})/(\d{1,2})/(\d{2,4})`)
	colonRangePattern = regexp.MustCompile(`(\d{1,2}):(\d{1,2}):(\d{2,4})\s*-\s*(\d{1,2}):(\d{1,2}):(\d{2,4})`)
	shortRangePattern = regexp.MustCompile(`(\d{1,2}):(\d{1,2})\s*-\s*(\d{1,2}):(\d{1,2})`)
)

// YearPolicy decides the year of a month when the file name has none.
// Months at or after RolloverMonth belong to BaseYear, earlier months to BaseYear+1.
type YearPolicy struct {
	RolloverMonth int
	BaseYear      int
}

// DefaultYearPolicy returns the policy for the November 2024 to October 2025 schedule period.
func DefaultYearPolicy() YearPolicy {
	return YearPolicy{
		RolloverMonth: 11,
		BaseYear:      2024,
	}
}

// YearFor returns the inferred year for month.
func (p YearPolicy) YearFor(month int) int {
	if month >= p.RolloverMonth {
		return p.BaseYear
	}
	return p.BaseYear + 1
}

// ParseDateRange extracts the date range encoded in a schedule file name.
// The second return value is false when no convention matches.
func ParseDateRange(filename string) (models.DateRange, bool) {
	if m := slashRangePattern.FindStringSubmatch(filename); m != nil {
		return rangeWithYears(m), true
	}
	if m := colonRangePattern.FindStringSubmatch(filename); m != nil {
		return rangeWithYears(m), true
	}
	if m := shortRangePattern.FindStringSubmatch(filename); m != nil {
		return models.DateRange{
			StartDay:   atoi(m[1]),
			StartMonth: atoi(m[2]),
			EndDay:     atoi(m[3]),
			EndMonth:   atoi(m[4]),
		}, true
	}
	return models.DateRange{}, false
}

// ResolveDateRange fills missing years using policy and checks both ends are real dates.
func ResolveDateRange(r models.DateRange, policy YearPolicy) (models.DateRange, error) {
	if r.StartYear == 0 {
		r.StartYear = policy.YearFor(r.StartMonth)
	}
	if r.EndYear == 0 {
		r.EndYear = policy.YearFor(r.EndMonth)
	}
	if !validDay(r.StartYear, r.StartMonth, r.StartDay) {
		return r, fmt.Errorf("%w: start %02d/%02d/%04d", ErrInvalidDate, r.StartDay, r.StartMonth, r.StartYear)
	}
	if !validDay(r.EndYear, r.EndMonth, r.EndDay) {
		return r, fmt.Errorf("%w: end %02d/%02d/%04d", ErrInvalidDate, r.EndDay, r.EndMonth, r.EndYear)
	}
	return r, nil
}

func rangeWithYears(m []string) models.DateRange {
	return models.DateRange{
		StartDay:   atoi(m[1]),
		StartMonth: atoi(m[2]),
		StartYear:  promoteYear(atoi(m[3])),
		EndDay:     atoi(m[4]),
		EndMonth:   atoi(m[5]),
		EndYear:    promoteYear(atoi(m[6])),
	}
}

// promoteYear turns two-digit years into 20xx.
func promoteYear(y int) int {
	if y < 100 {
		return y + 2000
	}
	return y
}

func validDay(year, month, day int) bool {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
