package names

import (
	"sort"
	"strings"

	"github.com/ukaji3/turni-go/pkg/turni/models"
)

// fuzzyMinLength is the candidate length (in runes) above which containment matching applies.
const fuzzyMinLength = 2

// Corpus is the sorted vocabulary of employee names harvested in the first pass
// of a run. It is immutable once built and safe for concurrent use.
type Corpus struct {
	names  []string
	folded []string
	index  map[string]struct{}
}

// Resolution is the outcome of resolving one cell against a corpus.
type Resolution struct {
	// Names is the sorted, de-duplicated set of resolved employee names.
	Names []string
	// Ambiguities lists fuzzy matches where several corpus entries fit.
	Ambiguities []models.Ambiguity
}

// NewCorpus builds a corpus from an explicit list of names.
func NewCorpus(list []string) *Corpus {
	c := &Corpus{index: make(map[string]struct{}, len(list))}
	for _, n := range list {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := c.index[n]; ok {
			continue
		}
		c.index[n] = struct{}{}
		c.names = append(c.names, n)
	}
	sort.Strings(c.names)
	c.folded = make([]string, len(c.names))
	for i, n := range c.names {
		c.folded[i] = Fold(n)
	}
	return c
}

// BuildCorpus harvests every main and secondary candidate from every body cell
// of every document. Absence rows are harvested too: they still name employees.
func BuildCorpus(docs []*models.ScheduleDocument) *Corpus {
	var list []string
	for _, doc := range docs {
		for _, table := range doc.Tables {
			for _, row := range table.Rows {
				for _, cell := range row.Cells {
					for _, c := range Candidates(cell) {
						list = append(list, c.Text)
					}
				}
			}
		}
	}
	return NewCorpus(list)
}

// Names returns the corpus entries in sorted order.
func (c *Corpus) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of names in the corpus.
func (c *Corpus) Len() int {
	return len(c.names)
}

// Contains reports whether name is an exact member of the corpus.
func (c *Corpus) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Match resolves a single candidate. An exact, case-sensitive member wins;
// otherwise the first corpus entry (in sorted order) that contains or is
// contained in the candidate, ignoring case, is chosen. The other entries that
// also matched are returned as alternatives.
func (c *Corpus) Match(candidate string) (string, []string, bool) {
	if c.Contains(candidate) {
		return candidate, nil, true
	}
	if runeLen(candidate) <= fuzzyMinLength {
		return "", nil, false
	}

	fc := Fold(candidate)
	chosen := -1
	var alternatives []string
	for i, fn := range c.folded {
		if !strings.Contains(fn, fc) && !strings.Contains(fc, fn) {
			continue
		}
		if chosen < 0 {
			chosen = i
			continue
		}
		alternatives = append(alternatives, c.names[i])
	}
	if chosen < 0 {
		return "", nil, false
	}
	return c.names[chosen], alternatives, true
}

// Resolve extracts the candidates of a cell and resolves each against the corpus.
func (c *Corpus) Resolve(cellText string) Resolution {
	var res Resolution
	seen := make(map[string]struct{})
	for _, cand := range Candidates(cellText) {
		name, alternatives, ok := c.Match(cand.Text)
		if !ok {
			continue
		}
		if len(alternatives) > 0 {
			res.Ambiguities = append(res.Ambiguities, models.Ambiguity{
				Candidate:    cand.Text,
				Chosen:       name,
				Alternatives: alternatives,
			})
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		res.Names = append(res.Names, name)
	}
	sort.Strings(res.Names)
	return res
}
