// Package turni extracts employee shifts from weekly schedule documents.
package turni

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/ukaji3/turni-go/pkg/turni/aggregate"
	"github.com/ukaji3/turni-go/pkg/turni/cache"
	"github.com/ukaji3/turni-go/pkg/turni/metrics"
	"github.com/ukaji3/turni-go/pkg/turni/names"
)

// MatchMode selects how a single employee is found in schedule cells.
type MatchMode string

const (
	// MatchResolver resolves cell names against the run's corpus and keeps the
	// names containing the employee. This is the robust mode.
	MatchResolver MatchMode = "resolver"
	// MatchSubstring tests raw cell text for the employee name. Kept for
	// compatibility with reports produced before name resolution existed.
	MatchSubstring MatchMode = "substring"
)

// Options configures an analysis run.
type Options struct {
	// Mode selects events or a count matrix.
	Mode aggregate.Mode
	// Employee restricts the run to one employee. Empty means the whole roster.
	Employee string
	// Match selects how Employee is matched. Ignored for roster runs.
	Match MatchMode
	// Rules overrides the schedule conventions. If nil, aggregate.DefaultRules is used.
	Rules *aggregate.Rules
	// Concurrency bounds parallel document loading. If zero, defaults to GOMAXPROCS.
	Concurrency int
	// Cache reuses parsed documents across runs. If nil, every run parses every document.
	Cache *cache.Cache
	// Logger receives run diagnostics. If nil, nothing is logged.
	Logger *zap.Logger
	// Metrics records run metrics. May be nil.
	Metrics *metrics.Recorder
}

// DefaultOptions returns options for a roster-wide event run.
func DefaultOptions() Options {
	return Options{
		Mode:  aggregate.ModeEvents,
		Match: MatchResolver,
	}
}

// IsRoster reports whether the run covers every employee.
func (o Options) IsRoster() bool {
	return o.Employee == ""
}

// ShouldResolveNames reports whether cells are resolved against the corpus.
func (o Options) ShouldResolveNames() bool {
	return o.IsRoster() || o.Match != MatchSubstring
}

func (o Options) mode() aggregate.Mode {
	if o.Mode == "" {
		return aggregate.ModeEvents
	}
	return o.Mode
}

func (o Options) rules() aggregate.Rules {
	if o.Rules != nil {
		return *o.Rules
	}
	return aggregate.DefaultRules()
}

func (o Options) concurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o Options) matcher(corpus *names.Corpus) names.Matcher {
	switch {
	case o.IsRoster():
		return names.RosterMatcher{Corpus: corpus}
	case o.Match == MatchSubstring:
		return names.SubstringMatcher{Target: o.Employee}
	default:
		return names.EmployeeMatcher{Corpus: corpus, Target: o.Employee}
	}
}
