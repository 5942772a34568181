package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/prismfold/internal/metrics"
	"github.com/dshills/prismfold/internal/review"
	"github.com/dshills/prismfold/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file|glob>...",
	Short: "Keep pages formatted while they change on disk",
	Long: "Watch formats every matched page once, then reformats pages after each burst " +
		"of changes settles for the debounce delay. Stop with Ctrl-C.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		formatter := review.NewFormatter(cfg, logger)
		onScan := func(path string, res review.ScanResult, elapsed time.Duration) {
			metrics.ObserveScan(res, elapsed)
			logger.Debug("scanned page",
				slog.String("file", path),
				slog.Int("formatted", res.Stats.Formatted),
				slog.Duration("elapsed", elapsed),
			)
		}
		w, err := watch.NewFileWatcher(args, formatter, cfg.DebounceDelay(), logger, onScan)
		if err != nil {
			return err
		}
		if store := openDigestStore(cfg, logger); store != nil {
			w.UseStore(store)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := runWatch(ctx, w, flagMetricsAddr, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
		}
		return nil
	},
}

// runWatch runs the watcher and, when addr is set, the metrics endpoint
// until ctx is done or either one fails.
func runWatch(ctx context.Context, w *watch.FileWatcher, addr string, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 2)
	running := 1
	go func() { errc <- w.Run(ctx) }()
	if addr != "" {
		running++
		logger.Info("serving metrics", slog.String("addr", addr))
		go func() { errc <- metrics.Serve(ctx, addr) }()
	}
	logger.Info("watching", slog.Any("patterns", w.Patterns()))

	var first error
	for i := 0; i < running; i++ {
		if err := <-errc; err != nil && first == nil {
			first = err
		}
		cancel()
	}
	return first
}

func init() {
	watchCmd.Flags().IntVar(&flagDelayMs, "delay", 0, "Debounce delay in milliseconds")
	watchCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Ignore the page digest cache")
	watchCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
}
