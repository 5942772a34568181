package cli

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/prismfold/internal/cache"
	"github.com/dshills/prismfold/internal/output"
	"github.com/dshills/prismfold/internal/review"
	"github.com/dshills/prismfold/internal/watch"
	"github.com/spf13/cobra"
)

var formatCmd = &cobra.Command{
	Use:   "format <file|glob>...",
	Short: "Format review comments in saved HTML pages",
	Long: "Format runs one pass over each page, replacing every review comment with a " +
		"collapsible widget. Output goes to stdout, --out, or back to each file with --in-place.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		files, err := watch.ExpandPatterns(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		if len(files) == 0 {
			return fmt.Errorf("no files matched %v", args)
		}
		if !flagInPlace && len(files) > 1 {
			return fmt.Errorf("%d files matched; use --in-place to format more than one file", len(files))
		}
		if flagInPlace && flagOut != "" {
			return fmt.Errorf("--out and --in-place are mutually exclusive")
		}
		if flagReport != "" {
			if _, err := output.GetWriter(flagReport); err != nil {
				return err
			}
		}

		startTime := time.Now()
		formatter := review.NewFormatter(cfg, logger)
		var store *cache.Scope
		// A cached skip would drop the page's comments from the report.
		if flagInPlace && flagReport == "" {
			store = openDigestStore(cfg, logger)
		}
		var stats review.ScanStats
		var comments []review.Comment

		for _, path := range files {
			res, err := formatFile(formatter, store, path, logger)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			stats.Add(res.Stats)
			comments = append(comments, review.WithSource(res.Comments, path)...)
			logger.Info("formatted page",
				slog.String("file", path),
				slog.Int("formatted", res.Stats.Formatted),
				slog.Int("failed", res.Stats.Failed),
			)
		}

		if flagReport == "" {
			return nil
		}
		report := review.BuildReport("format", files, stats, comments, startTime)
		if err := redactReport(cfg, report, logger); err != nil {
			return err
		}
		// The formatted page owns stdout unless it went somewhere else.
		w := os.Stdout
		if !flagInPlace && flagOut == "" {
			w = os.Stderr
		}
		if err := writeReportTo(w, report, flagReport); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			exitCode = ExitRuntimeError
		}
		return nil
	},
}

// formatFile formats one page. With a store, an in-place page whose digest
// matches the one recorded after its last format is not parsed again.
func formatFile(formatter *review.Formatter, store *cache.Scope, path string, logger *slog.Logger) (review.ScanResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return review.ScanResult{}, fmt.Errorf("reading %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return review.ScanResult{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var key string
	if store != nil {
		if key, err = filepath.Abs(path); err != nil {
			return review.ScanResult{}, fmt.Errorf("resolving %s: %w", path, err)
		}
		if d, ok := store.Lookup(key); ok && d == watch.Digest(data) {
			logger.Debug("page unchanged since last format", slog.String("file", path))
			return review.ScanResult{}, nil
		}
	}
	out, res, err := watch.FormatBytes(formatter, data)
	if err != nil {
		return res, fmt.Errorf("formatting %s: %w", path, err)
	}

	switch {
	case flagInPlace:
		// Nothing new: leave the file (and its mtime) alone so watchers stay quiet.
		if !bytes.Equal(out, data) {
			if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
				return res, fmt.Errorf("writing %s: %w", path, err)
			}
		}
		if store != nil {
			if err := store.Remember(key, watch.Digest(out)); err != nil {
				logger.Warn("recording page digest failed", slog.String("file", path), slog.String("error", err.Error()))
			}
		}
	case flagOut != "":
		if err := os.WriteFile(flagOut, out, 0o644); err != nil {
			return res, fmt.Errorf("writing %s: %w", flagOut, err)
		}
	default:
		if _, err := os.Stdout.Write(out); err != nil {
			return res, fmt.Errorf("writing output: %w", err)
		}
	}
	return res, nil
}

func init() {
	formatCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	formatCmd.Flags().BoolVar(&flagInPlace, "in-place", false, "Rewrite each input file")
	formatCmd.Flags().StringVar(&flagReport, "report", "", "Also emit a report of formatted comments (text, json, markdown, sarif)")
	formatCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Ignore the page digest cache")
	formatCmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Keep secrets in report output")
}
