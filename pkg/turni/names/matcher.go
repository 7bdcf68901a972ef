package names

import "strings"

// Matcher finds the employees present in a schedule cell.
type Matcher interface {
	Match(cellText string) Resolution
}

// RosterMatcher resolves every employee of a cell against the corpus.
type RosterMatcher struct {
	Corpus *Corpus
}

// Match implements Matcher.
func (m RosterMatcher) Match(cellText string) Resolution {
	return m.Corpus.Resolve(cellText)
}

// EmployeeMatcher resolves a cell against the corpus and keeps only the names
// that contain Target, ignoring case.
type EmployeeMatcher struct {
	Corpus *Corpus
	Target string
}

// Match implements Matcher.
func (m EmployeeMatcher) Match(cellText string) Resolution {
	res := m.Corpus.Resolve(cellText)
	kept := res.Names[:0]
	for _, name := range res.Names {
		if ContainsFold(name, m.Target) {
			kept = append(kept, name)
		}
	}
	res.Names = kept
	return res
}

// SubstringMatcher tests the raw cell text for Target, ignoring case, without
// resolving names. It exists for compatibility with the earliest reports:
// "Rossi" also matches "Rossini", and the reported name is Target itself.
type SubstringMatcher struct {
	Target string
}

// Match implements Matcher.
func (m SubstringMatcher) Match(cellText string) Resolution {
	target := strings.TrimSpace(m.Target)
	if target == "" || !ContainsFold(cellText, target) {
		return Resolution{}
	}
	return Resolution{Names: []string{target}}
}
