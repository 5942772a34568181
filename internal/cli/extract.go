package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/dshills/prismfold/internal/htmldom"
	"github.com/dshills/prismfold/internal/output"
	"github.com/dshills/prismfold/internal/review"
	"github.com/dshills/prismfold/internal/watch"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file|glob>...",
	Short: "List review comments without changing the pages",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		if _, err := output.GetWriter(cfg.Format); err != nil {
			return err
		}
		files, err := watch.ExpandPatterns(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		startTime := time.Now()
		formatter := review.NewFormatter(cfg, logger)
		var stats review.ScanStats
		var comments []review.Comment

		for _, path := range files {
			res, err := extractFile(formatter, path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			stats.Add(res.Stats)
			comments = append(comments, review.WithSource(res.Comments, path)...)
		}

		report := review.BuildReport("extract", files, stats, comments, startTime)
		if err := redactReport(cfg, report, logger); err != nil {
			return err
		}
		if err := output.WriteReport(report, cfg.Format, flagOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		checkFailOn(report.Comments, cfg.FailOn)
		return nil
	},
}

func extractFile(formatter *review.Formatter, path string) (review.ScanResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return review.ScanResult{}, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()
	doc, err := htmldom.Parse(f)
	if err != nil {
		return review.ScanResult{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	var res review.ScanResult
	candidates := formatter.Candidates(doc)
	res.Comments = formatter.ExtractAll(doc)
	res.Stats.Candidates = len(candidates)
	for _, node := range candidates {
		if review.StateOf(node).Processed() {
			res.Stats.Skipped++
		}
	}
	res.Stats.Ignored = res.Stats.Candidates - res.Stats.Skipped - len(res.Comments)
	return res, nil
}

func init() {
	extractCmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown, sarif)")
	extractCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	extractCmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Fail on severity threshold (none, info, low, medium, high, critical)")
	extractCmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Keep secrets in report output")
}
