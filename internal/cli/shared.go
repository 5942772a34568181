package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dshills/prismfold/internal/cache"
	"github.com/dshills/prismfold/internal/config"
	"github.com/dshills/prismfold/internal/output"
	"github.com/dshills/prismfold/internal/redact"
	"github.com/dshills/prismfold/internal/review"
)

// Command flags. Several commands bind the same variable.
var (
	flagOut         string
	flagFormat      string
	flagFailOn      string
	flagInPlace     bool
	flagReport      string
	flagDelayMs     int
	flagMetricsAddr string
	flagNoCache     bool
	flagNoRedact    bool
)

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagConfig != "" {
		m["config"] = flagConfig
	}
	if flagSelectors != "" {
		m["selectors"] = flagSelectors
	}
	if flagLogLevel != "" {
		m["logLevel"] = flagLogLevel
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagFailOn != "" {
		m["failOn"] = flagFailOn
	}
	if flagDelayMs > 0 {
		m["debounceDelayMs"] = fmt.Sprintf("%d", flagDelayMs)
	}
	if flagNoCache {
		m["noCache"] = "true"
	}
	if flagNoRedact {
		m["noRedact"] = "true"
	}
	return m
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
	return level, nil
}

// newLogger builds the process logger. Log lines always go to w (stderr in
// practice) so they never mix with HTML or report output.
func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// setup loads the effective config and logger for a command run.
func setup() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// openDigestStore returns the page digest cache scoped to cfg, or nil when
// caching is disabled or unavailable.
func openDigestStore(cfg config.Config, logger *slog.Logger) *cache.Scope {
	if !cfg.Cache.Enabled {
		return nil
	}
	c, err := cache.New(true, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		logger.Warn("page cache unavailable", slog.String("error", err.Error()))
		return nil
	}
	return c.For(cfg.Fingerprint())
}

// redactReport strips secrets from report comments unless disabled.
func redactReport(cfg config.Config, report *review.Report, logger *slog.Logger) error {
	if !cfg.Privacy.RedactSecrets {
		return nil
	}
	r, err := redact.New(cfg.Privacy.RedactPatterns)
	if err != nil {
		return err
	}
	if n := r.Report(report); n > 0 {
		logger.Info("redacted secrets from report", slog.Int("count", n))
	}
	return nil
}

func writeReportTo(w io.Writer, report *review.Report, format string) error {
	writer, err := output.GetWriter(format)
	if err != nil {
		return err
	}
	return writer.Write(w, report)
}

func checkFailOn(comments []review.Comment, threshold string) {
	if threshold == "none" || threshold == "" {
		return
	}
	for _, c := range comments {
		if review.MeetsThreshold(c.Severity, threshold) {
			exitCode = ExitFindings
			return
		}
	}
}
