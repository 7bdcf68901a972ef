package turni

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ukaji3/turni-go/pkg/turni/aggregate"
	"github.com/ukaji3/turni-go/pkg/turni/metrics"
	"github.com/ukaji3/turni-go/pkg/turni/models"
	"github.com/ukaji3/turni-go/pkg/turni/names"
	"github.com/ukaji3/turni-go/pkg/turni/parser"
)

// Result is the output of an analysis run.
type Result struct {
	// Employee is the employee the run was restricted to, if any.
	Employee string `json:"employee,omitempty"`
	// Mode is the aggregation mode of the run.
	Mode aggregate.Mode `json:"mode"`
	// Events holds the shift events (events mode).
	Events []models.ShiftEvent `json:"events,omitempty"`
	// Matrix holds the counts per employee and shift type (matrix mode).
	Matrix models.ShiftCountMatrix `json:"matrix,omitempty"`
	// CorpusSize is the number of distinct names harvested in the first pass.
	CorpusSize int `json:"corpus_size"`
	// Summary reports what happened to every document.
	Summary models.Summary `json:"summary"`
}

// Extract runs the two-pass analysis over inputs: every document is loaded,
// the name corpus is harvested from all of them, then each document is dated
// and aggregated in input order. Per-document problems end up in the summary;
// only a run without inputs or a cancelled context fails outright.
// When nothing matched, the result is returned along with ErrNoShiftsFound.
func Extract(ctx context.Context, inputs []Input, opts Options) (*Result, error) {
	if len(inputs) == 0 {
		return nil, ErrNoDocuments
	}

	start := time.Now()
	runID := uuid.NewString()
	log := opts.logger().With(zap.String("run_id", runID))
	log.Info("analysis started",
		zap.Int("documents", len(inputs)),
		zap.String("employee", opts.Employee),
		zap.String("mode", string(opts.mode())),
		zap.Bool("resolve_names", opts.ShouldResolveNames()))

	docs, loadErrs, err := loadDocuments(ctx, inputs, opts)
	if err != nil {
		opts.Metrics.ObserveRun(metrics.ResultError, time.Since(start))
		return nil, err
	}

	var loaded []*models.ScheduleDocument
	for _, doc := range docs {
		if doc != nil {
			loaded = append(loaded, doc)
		}
	}
	corpus := names.BuildCorpus(loaded)
	log.Debug("corpus built", zap.Int("size", corpus.Len()), zap.Strings("names", corpus.Names()))

	rules := opts.rules()
	agg := aggregate.New(rules, log)
	acc := aggregate.NewAccumulator(opts.mode(), rules)
	matcher := opts.matcher(corpus)

	summary := models.Summary{RunID: runID}
	for i, in := range inputs {
		var outcome models.DocumentOutcome
		if docs[i] == nil {
			outcome = models.DocumentOutcome{
				Document: in.Name(),
				Status:   models.StatusFailed,
				Reason:   loadErrs[i].Error(),
			}
			log.Warn("document failed", zap.String("document", in.Name()), zap.Error(loadErrs[i]))
		} else {
			outcome = agg.Document(docs[i], matcher, acc)
		}
		summary.Record(outcome)
		opts.Metrics.ObserveDocument(string(outcome.Status))
		opts.Metrics.ObserveEvents(outcome.Events)
	}
	summary.Ambiguities = acc.Ambiguities
	opts.Metrics.ObserveAmbiguities(len(acc.Ambiguities))
	for _, a := range acc.Ambiguities {
		log.Warn("ambiguous name match",
			zap.String("candidate", a.Candidate),
			zap.String("chosen", a.Chosen),
			zap.Strings("alternatives", a.Alternatives))
	}

	result := &Result{
		Employee:   opts.Employee,
		Mode:       acc.Mode(),
		Events:     acc.Events,
		Matrix:     acc.Matrix,
		CorpusSize: corpus.Len(),
		Summary:    summary,
	}

	log.Info("analysis finished",
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("events", len(result.Events)),
		zap.Duration("elapsed", time.Since(start)))

	if acc.Empty() {
		opts.Metrics.ObserveRun(metrics.ResultNotFound, time.Since(start))
		return result, ErrNoShiftsFound
	}
	opts.Metrics.ObserveRun(metrics.ResultOK, time.Since(start))
	return result, nil
}

// loadDocuments reads inputs concurrently. The returned slices are aligned
// with inputs: a nil document has its error at the same index.
func loadDocuments(ctx context.Context, inputs []Input, opts Options) ([]*models.ScheduleDocument, []error, error) {
	docs := make([]*models.ScheduleDocument, len(inputs))
	errs := make([]error, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency())
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			docs[i], errs[i] = loadDocument(in, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return docs, errs, nil
}

// loadDocument reads one input. A panic inside a format decoder is reported
// as a parse error of that document.
func loadDocument(in Input, opts Options) (doc *models.ScheduleDocument, err error) {
	name := in.Name()
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = NewDocumentError(name, "parse", fmt.Errorf("panic: %v", r))
		}
	}()

	if in.Content != nil {
		tables, err := parser.ReadTablesBytes(name, in.Content)
		if err != nil {
			return nil, NewDocumentError(name, "parse", err)
		}
		return &models.ScheduleDocument{
			OriginalName: name,
			StorageName:  storageName(in),
			Path:         in.Path,
			Tables:       tables,
		}, nil
	}

	if opts.Cache != nil {
		doc, hit, err := opts.Cache.Get(in.Path, name)
		if err == nil {
			opts.Metrics.ObserveCache(hit)
			return doc, nil
		}
		return nil, NewDocumentError(name, stageOf(err), err)
	}

	doc, err = parser.ReadDocument(in.Path, name)
	if err != nil {
		return nil, NewDocumentError(name, stageOf(err), err)
	}
	return doc, nil
}

func stageOf(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return "load"
	}
	return "parse"
}

func storageName(in Input) string {
	if in.Path != "" {
		return filepath.Base(in.Path)
	}
	return in.Name()
}
