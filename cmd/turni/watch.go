package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/turni-go/internal/watch"
	"github.com/ukaji3/turni-go/pkg/turni"
	"github.com/ukaji3/turni-go/pkg/turni/cache"
	"github.com/ukaji3/turni-go/pkg/turni/parser"
)

func newWatchCmd() *cobra.Command {
	var f extractFlags
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-run extract whenever a schedule in dir changes",
		Long: `watch runs extract once, then again after every burst of changes to
the schedules in dir. Unchanged documents are not parsed again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.InputDir = args[0]
			}
			if err := f.apply(cmd, cfg); err != nil {
				return err
			}

			docCache := cache.New(parser.ReadDocument)
			run := func(ctx context.Context) error {
				err := runExtract(ctx, cmd.OutOrStdout(), cfg, f, func(o *turni.Options) {
					o.Cache = docCache
				})
				stats := docCache.Stats()
				logger.Debug("cache", zap.Int("hits", stats.Hits), zap.Int("misses", stats.Misses))
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			if err := run(ctx); err != nil {
				logger.Warn("initial run failed", zap.Error(err))
			}
			report := reportPath(cfg, f)
			return watch.New(cfg.InputDir, cfg.WatchDebounce, run, logger,
				watch.WithIgnore(func(path string) bool { return turni.SamePath(path, report) }),
				watch.WithRemoved(docCache.Invalidate),
			).Run(ctx)
		},
	}
	f.register(cmd)
	return cmd
}
