// Package names extracts employee names from schedule cells and resolves
// them against the corpus of names seen across a run.
package names

import (
	"regexp"
	"strings"
)

var (
	parenGroupPattern = regexp.MustCompile(`\(([^()]*)\)`)
	annotationPattern = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(?:turno|shift|ore|h)(?:$|[^\p{L}\p{N}])|[:0-9]`)
	romanPattern      = regexp.MustCompile(`^M{0,4}(?:CM|CD|D?C{0,3})(?:XC|XL|L?X{0,3})(?:IX|IV|V?I{0,3})$`)
	timeOnlyPattern   = regexp.MustCompile(`^[0-9\s:.,\-/]+$`)
	spacePattern      = regexp.MustCompile(`\s+`)
)

// Candidate is a name-like string found in a cell.
type Candidate struct {
	// Text is the trimmed candidate.
	Text string
	// Secondary is set for names found inside parentheses.
	Secondary bool
}

// Candidates runs the extraction steps over a cell and returns the main and
// secondary name candidates of every fragment, in cell order.
func Candidates(cellText string) []Candidate {
	var out []Candidate
	for _, fragment := range SplitFragments(cellText) {
		main, secondary := fragmentCandidates(fragment)
		if main != "" {
			out = append(out, Candidate{Text: main})
		}
		for _, s := range secondary {
			out = append(out, Candidate{Text: s, Secondary: true})
		}
	}
	return out
}

// SplitFragments splits cell text on newlines and on commas outside parentheses,
// trimming whitespace and dropping empty fragments.
func SplitFragments(cellText string) []string {
	var fragments []string
	var sb strings.Builder
	depth := 0
	flush := func() {
		if f := strings.TrimSpace(sb.String()); f != "" {
			fragments = append(fragments, f)
		}
		sb.Reset()
	}

	for _, r := range cellText {
		switch {
		case r == '\n' || r == '\r':
			flush()
			depth = 0
		case r == ',' && depth == 0:
			flush()
		default:
			if r == '(' {
				depth++
			} else if r == ')' && depth > 0 {
				depth--
			}
			sb.WriteRune(r)
		}
	}
	flush()
	return fragments
}

// fragmentCandidates returns the main name of a fragment and the secondary names
// still in parentheses once annotations are removed.
func fragmentCandidates(fragment string) (string, []string) {
	stripped := parenGroupPattern.ReplaceAllStringFunc(fragment, func(group string) string {
		if IsAnnotation(group[1 : len(group)-1]) {
			return " "
		}
		return group
	})

	var secondary []string
	for _, m := range parenGroupPattern.FindAllStringSubmatch(stripped, -1) {
		for _, inner := range strings.Split(m[1], ",") {
			inner = collapseSpaces(inner)
			if acceptSecondary(inner) {
				secondary = append(secondary, inner)
			}
		}
	}

	main := parenGroupPattern.ReplaceAllString(stripped, " ")
	main = strings.NewReplacer("(", " ", ")", " ").Replace(main)
	main = collapseSpaces(main)
	if !acceptMain(main) {
		main = ""
	}
	return main, secondary
}

// IsAnnotation reports whether parenthesized text is a shift, time or numeric note.
func IsAnnotation(s string) bool {
	return annotationPattern.MatchString(s)
}

// IsRomanNumeral reports whether s is an upper-case Roman numeral such as II or XIV.
func IsRomanNumeral(s string) bool {
	return s != "" && romanPattern.MatchString(s)
}

func acceptMain(s string) bool {
	return runeLen(s) > 1 && !IsRomanNumeral(s)
}

func acceptSecondary(s string) bool {
	if runeLen(s) <= 1 {
		return false
	}
	return !timeOnlyPattern.MatchString(s) && !IsAnnotation(s) && !IsRomanNumeral(s)
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}
