package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/turni-go/internal/config"
	"github.com/ukaji3/turni-go/internal/server"
	"github.com/ukaji3/turni-go/pkg/turni"
	"github.com/ukaji3/turni-go/pkg/turni/aggregate"
	"github.com/ukaji3/turni-go/pkg/turni/metrics"
	"github.com/ukaji3/turni-go/pkg/turni/output"
)

type extractFlags struct {
	employee    string
	match       string
	mode        string
	output      string
	jsonOut     bool
	pretty      bool
	metricsFile string
	concurrency int
}

func newExtractCmd() *cobra.Command {
	var f extractFlags
	cmd := &cobra.Command{
		Use:   "extract [dir]",
		Short: "Analyze a directory of schedules and write a report",
		Long: `extract reads every schedule in dir (default: input_dir from the config),
and writes a workbook with all shifts, counts per shift type and dates per
shift type. With --employee only that employee's shifts are kept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.InputDir = args[0]
			}
			if err := f.apply(cmd, cfg); err != nil {
				return err
			}
			return runExtract(cmd.Context(), cmd.OutOrStdout(), cfg, f, nil)
		},
	}
	f.register(cmd)
	return cmd
}

func (f *extractFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.employee, "employee", "e", "", "Employee name (default: whole roster)")
	cmd.Flags().StringVar(&f.match, "match", "resolver", "Employee matching: resolver or substring")
	cmd.Flags().StringVar(&f.mode, "mode", "events", "Aggregation: events or matrix")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output path (default: <employee>_shifts.xlsx, or stdout with --json)")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "Write the result as JSON instead of a workbook")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Documents parsed in parallel (default: GOMAXPROCS)")
}

// apply copies the flags set on the command line over the configuration.
func (f *extractFlags) apply(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("employee") {
		c.Employee = f.employee
	}
	if flags.Changed("match") {
		c.Match = f.match
	}
	if flags.Changed("mode") {
		c.Mode = f.mode
	}
	if flags.Changed("output") {
		c.Output = f.output
	}
	if flags.Changed("metrics-file") {
		c.MetricsFile = f.metricsFile
	}
	if flags.Changed("concurrency") {
		c.Concurrency = f.concurrency
	}
	return c.Validate()
}

// runExtract performs one analysis of c.InputDir and writes its report.
// modify, when set, adjusts the engine options before the run.
func runExtract(ctx context.Context, stdout io.Writer, c *config.Config, f extractFlags, modify func(*turni.Options)) error {
	inputs, err := turni.ListDocuments(c.InputDir, reportPath(c, f))
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	var recorder *metrics.Recorder
	if c.MetricsFile != "" {
		recorder = metrics.NewRecorder()
	}

	opts := c.Options()
	opts.Logger = logger
	opts.Metrics = recorder
	if modify != nil {
		modify(&opts)
	}

	result, err := turni.Extract(ctx, inputs, opts)
	if recorder != nil {
		if werr := recorder.WriteTextfile(c.MetricsFile); werr != nil {
			logger.Warn("failed to write metrics", zap.Error(werr))
		}
	}
	switch {
	case errors.Is(err, turni.ErrNoShiftsFound):
		if opts.IsRoster() {
			return errors.New("no shifts found")
		}
		return fmt.Errorf("no shifts found for employee: %s", opts.Employee)
	case err != nil:
		return fmt.Errorf("analysis failed: %w", err)
	}

	if f.jsonOut {
		data, err := output.ToJSON(result, f.pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		if c.Output == "" {
			_, err = fmt.Fprintln(stdout, string(data))
			return err
		}
		if err := os.WriteFile(c.Output, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	path := reportPath(c, f)
	wbOpts := output.WorkbookOptions{IncludeEmployee: opts.IsRoster()}
	if result.Mode == aggregate.ModeMatrix {
		wbOpts.Matrix = result.Matrix
	}
	if err := output.WriteWorkbook(path, result.Events, wbOpts); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	s := result.Summary
	fmt.Fprintf(stdout, "%d documents: %d processed, %d skipped, %d failed\n",
		s.Documents, s.Processed, s.Skipped, s.Failed)
	for _, o := range s.Outcomes {
		if o.Reason != "" {
			fmt.Fprintf(stdout, "  %s: %s (%s)\n", o.Document, o.Status, o.Reason)
		}
	}
	if n := len(s.Ambiguities); n > 0 {
		fmt.Fprintf(stdout, "%d ambiguous name matches (see log)\n", n)
	}
	fmt.Fprintf(stdout, "%d shifts written to %s\n", len(result.Events), path)
	return nil
}

// reportPath returns the file a run writes its report to, or "" when the
// report goes to stdout.
func reportPath(c *config.Config, f extractFlags) string {
	if c.Output != "" || f.jsonOut {
		return c.Output
	}
	return server.ReportName(c.Employee)
}
