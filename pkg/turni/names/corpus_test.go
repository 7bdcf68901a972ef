package names

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/turni-go/pkg/turni/models"
)

func scheduleDoc(cells ...string) *models.ScheduleDocument {
	return &models.ScheduleDocument{
		OriginalName: "57. 25:11 - 29:11.docx",
		Tables: []models.Table{{
			Header: []string{"Turno", "Lunedì"},
			Rows: []models.Row{
				{Label: "Mattina", Cells: cells},
				{Label: "Assenti", Cells: []string{"Gialli Anna"}},
			},
		}},
	}
}

func TestBuildCorpus(t *testing.T) {
	docs := []*models.ScheduleDocument{
		scheduleDoc("Rossi Mario, Bianchi (II)", "Verdi (turno 2)"),
		scheduleDoc("Bianchi\nNeri (Esposito)", ""),
	}

	corpus := BuildCorpus(docs)
	expected := []string{"Bianchi", "Esposito", "Gialli Anna", "Neri", "Rossi Mario", "Verdi"}
	if diff := cmp.Diff(expected, corpus.Names()); diff != "" {
		t.Errorf("corpus mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, len(expected), corpus.Len())
	assert.True(t, corpus.Contains("Neri"))
	assert.False(t, corpus.Contains("neri"))
}

func TestCorpusMatch(t *testing.T) {
	corpus := NewCorpus([]string{"Rossi Mario", "Rossi Luca", "Bianchi", "Bianchi", " ", "Neri"})

	tests := []struct {
		candidate    string
		expected     string
		alternatives []string
		ok           bool
	}{
		{"Bianchi", "Bianchi", nil, true},
		{"bianchi", "Bianchi", nil, true},
		{"Bianchi Anna", "Bianchi", nil, true},
		{"Rossi", "Rossi Luca", []string{"Rossi Mario"}, true},
		{"ROSSI MARIO", "Rossi Mario", nil, true},
		{"Ne", "", nil, false},
		{"Verdi", "", nil, false},
	}

	for _, tt := range tests {
		got, alternatives, ok := corpus.Match(tt.candidate)
		assert.Equal(t, tt.ok, ok, "Match(%q) ok", tt.candidate)
		assert.Equal(t, tt.expected, got, "Match(%q)", tt.candidate)
		assert.Equal(t, tt.alternatives, alternatives, "Match(%q) alternatives", tt.candidate)
	}
}

func TestCorpusResolve(t *testing.T) {
	corpus := NewCorpus([]string{"Bianchi", "Rossi Luca", "Rossi Mario", "Verdi"})

	res := corpus.Resolve("Verdi, rossi mario (turno 2), Bianchi (II), Verdi")
	assert.Equal(t, []string{"Bianchi", "Rossi Mario", "Verdi"}, res.Names)
	assert.Empty(t, res.Ambiguities)

	res = corpus.Resolve("Rossi")
	assert.Equal(t, []string{"Rossi Luca"}, res.Names)
	require.Len(t, res.Ambiguities, 1)
	assert.Equal(t, models.Ambiguity{
		Candidate:    "Rossi",
		Chosen:       "Rossi Luca",
		Alternatives: []string{"Rossi Mario"},
	}, res.Ambiguities[0])

	assert.Empty(t, corpus.Resolve("").Names)
	assert.Empty(t, corpus.Resolve("X (8-14)").Names)
}

func TestCorpusResolveIsIdempotent(t *testing.T) {
	corpus := BuildCorpus([]*models.ScheduleDocument{
		scheduleDoc("Rossi Mario, Bianchi (II)", "De Luca (Esposito)"),
	})
	for _, name := range corpus.Names() {
		res := corpus.Resolve(name)
		assert.Equal(t, []string{name}, res.Names, "Resolve(%q)", name)
	}
}

func TestMatchers(t *testing.T) {
	corpus := NewCorpus([]string{"Bianchi", "Rossi Luca", "Rossini"})
	cell := "Rossi Luca, Bianchi, Rossini"

	tests := []struct {
		name     string
		matcher  Matcher
		expected []string
	}{
		{"roster", RosterMatcher{Corpus: corpus}, []string{"Bianchi", "Rossi Luca", "Rossini"}},
		{"employee", EmployeeMatcher{Corpus: corpus, Target: "rossi luca"}, []string{"Rossi Luca"}},
		{"employee prefix", EmployeeMatcher{Corpus: corpus, Target: "Rossi"}, []string{"Rossi Luca", "Rossini"}},
		{"employee absent", EmployeeMatcher{Corpus: corpus, Target: "Neri"}, nil},
		{"substring", SubstringMatcher{Target: "ROSSI"}, []string{"ROSSI"}},
		{"substring absent", SubstringMatcher{Target: "Neri"}, nil},
		{"substring empty target", SubstringMatcher{Target: " "}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.matcher.Match(cell).Names
			if len(tt.expected) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}
