package models

import "sort"

// ShiftCountMatrix maps employee name to shift type to occurrence count.
type ShiftCountMatrix map[string]map[string]int

// Add increments the count of shiftType for employee by n.
func (m ShiftCountMatrix) Add(employee, shiftType string, n int) {
	row, ok := m[employee]
	if !ok {
		row = make(map[string]int)
		m[employee] = row
	}
	row[shiftType] += n
}

// Employees returns the employee names in lexicographic order.
func (m ShiftCountMatrix) Employees() []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ShiftTypes returns every shift type seen for any employee, sorted.
func (m ShiftCountMatrix) ShiftTypes() []string {
	seen := make(map[string]struct{})
	for _, row := range m {
		for st := range row {
			seen[st] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for st := range seen {
		out = append(out, st)
	}
	sort.Strings(out)
	return out
}

// Total returns the sum of all counts.
func (m ShiftCountMatrix) Total() int {
	total := 0
	for _, row := range m {
		for _, n := range row {
			total += n
		}
	}
	return total
}
