package models

// OutcomeStatus classifies how a document fared during a run.
type OutcomeStatus string

const (
	// StatusProcessed means the document was dated and walked.
	StatusProcessed OutcomeStatus = "processed"
	// StatusSkipped means the document was left out, e.g. its name carries no date range.
	StatusSkipped OutcomeStatus = "skipped"
	// StatusFailed means the document could not be read.
	StatusFailed OutcomeStatus = "failed"
)

// DocumentOutcome records the result of one document in a run.
type DocumentOutcome struct {
	// Document is the original file name.
	Document string `json:"document"`
	// Status is the outcome class.
	Status OutcomeStatus `json:"status"`
	// Reason explains a skip or failure.
	Reason string `json:"reason,omitempty"`
	// Events is the number of events (or matrix increments) the document produced.
	Events int `json:"events"`
}

// Ambiguity records a fuzzy name match where more than one corpus entry fit.
type Ambiguity struct {
	// Candidate is the text taken from the cell.
	Candidate string `json:"candidate"`
	// Chosen is the corpus entry that was used.
	Chosen string `json:"chosen"`
	// Alternatives are the other corpus entries that also matched.
	Alternatives []string `json:"alternatives"`
}

// Summary aggregates per-document outcomes for a run.
type Summary struct {
	RunID       string            `json:"run_id,omitempty"`
	Documents   int               `json:"documents"`
	Processed   int               `json:"processed"`
	Skipped     int               `json:"skipped"`
	Failed      int               `json:"failed"`
	Outcomes    []DocumentOutcome `json:"outcomes"`
	Ambiguities []Ambiguity       `json:"ambiguities,omitempty"`
}

// Record appends an outcome and updates the counters.
func (s *Summary) Record(o DocumentOutcome) {
	s.Documents++
	switch o.Status {
	case StatusProcessed:
		s.Processed++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
	s.Outcomes = append(s.Outcomes, o)
}
