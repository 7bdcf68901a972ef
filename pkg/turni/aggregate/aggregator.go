package aggregate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ukaji3/turni-go/pkg/turni/models"
	"github.com/ukaji3/turni-go/pkg/turni/names"
	"github.com/ukaji3/turni-go/pkg/turni/parser"
)

// ReasonNoDateRange is the skip reason for file names without a date range.
const ReasonNoDateRange = "no date range in file name"

// Aggregator turns schedule documents into shift events or counts.
type Aggregator struct {
	rules  Rules
	logger *zap.Logger
}

// New creates an Aggregator. A nil logger disables logging.
func New(rules Rules, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{rules: rules, logger: logger}
}

// Run aggregates docs in order into a fresh accumulator and returns it with
// one outcome per document.
func (a *Aggregator) Run(docs []*models.ScheduleDocument, matcher names.Matcher, mode Mode) (*Accumulator, []models.DocumentOutcome) {
	acc := NewAccumulator(mode, a.rules)
	outcomes := make([]models.DocumentOutcome, 0, len(docs))
	for _, doc := range docs {
		outcomes = append(outcomes, a.Document(doc, matcher, acc))
	}
	return acc, outcomes
}

// Document walks one document's grids into acc. A document whose file name
// cannot be dated is skipped; it never fails the run.
func (a *Aggregator) Document(doc *models.ScheduleDocument, matcher names.Matcher, acc *Accumulator) models.DocumentOutcome {
	outcome := models.DocumentOutcome{Document: doc.OriginalName}
	log := a.logger.With(zap.String("document", doc.OriginalName))

	rng, ok := parser.ParseDateRange(doc.OriginalName)
	if !ok {
		outcome.Status = models.StatusSkipped
		outcome.Reason = ReasonNoDateRange
		log.Info("document skipped", zap.String("reason", outcome.Reason))
		return outcome
	}
	rng, err := parser.ResolveDateRange(rng, a.rules.Years)
	if err != nil {
		outcome.Status = models.StatusSkipped
		outcome.Reason = err.Error()
		log.Info("document skipped", zap.Error(err))
		return outcome
	}
	weekDates := parser.WeekDates(rng)
	log.Debug("document dated",
		zap.Stringer("range", rng),
		zap.Strings("week_dates", weekDates),
		zap.Int("tables", len(doc.Tables)))

	outcome.Status = models.StatusProcessed
	for _, table := range doc.Tables {
		outcome.Events += a.table(doc.OriginalName, table, weekDates, matcher, acc)
	}
	return outcome
}

func (a *Aggregator) table(source string, table models.Table, weekDates []string, matcher names.Matcher, acc *Accumulator) int {
	days := table.Days()
	added := 0
	for _, row := range table.Rows {
		if a.rules.IsAbsence(row.Label) {
			continue
		}
		onCall := a.rules.IsOnCall(row.Label)

		for i, cell := range row.Cells {
			res := matcher.Match(cell)
			acc.ambiguous(res.Ambiguities)
			if len(res.Names) == 0 {
				continue
			}

			ev := models.ShiftEvent{
				SourceFile: source,
				DayLabel:   columnLabel(days, i),
				ShiftType:  row.Label,
			}
			if i < len(weekDates) {
				ev.Date = weekDates[i]
			}
			friday := onCall && a.rules.IsFriday(ev.DayLabel)

			for _, name := range res.Names {
				ev.EmployeeName = name
				added += acc.shift(ev)
				if friday {
					added += acc.weekend(ev)
				}
			}
		}
	}
	return added
}

// columnLabel returns the header day name of column i, or Day{i+1} past the header.
func columnLabel(days []string, i int) string {
	if i < len(days) {
		return days[i]
	}
	return fmt.Sprintf("Day%d", i+1)
}
