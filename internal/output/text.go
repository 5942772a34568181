package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dshills/prismfold/internal/review"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}

	total := report.Summary.Counts.Total()
	ew.printf("Prismfold (%s)\n", report.Mode)
	if len(report.Sources) > 0 {
		ew.printf("Sources: %s\n", strings.Join(report.Sources, ", "))
	}
	ew.println(strings.Repeat("─", 60))
	ew.printf("Review comments: %d total", total)
	if total > 0 {
		c := report.Summary.Counts
		ew.printf(" (%d critical, %d high, %d medium, %d low, %d info)",
			c.Critical, c.High, c.Medium, c.Low, c.Info)
	}
	ew.println("")
	s := report.Stats
	ew.printf("Candidates: %d (formatted %d, skipped %d, ignored %d, failed %d)\n",
		s.Candidates, s.Formatted, s.Skipped, s.Ignored, s.Failed)
	ew.println(strings.Repeat("─", 60))

	if total == 0 {
		ew.println("\nNo review comments found.")
		return ew.err
	}

	grouped := groupBySeverity(report.Comments)
	for _, sev := range severityOrder {
		comments := grouped[sev]
		if len(comments) == 0 {
			continue
		}

		ew.printf("\n%s %s\n", severityIcon(sev), strings.ToUpper(string(sev)))
		ew.println(strings.Repeat("─", 40))

		sort.SliceStable(comments, func(i, j int) bool {
			return displayPath(comments[i]) < displayPath(comments[j])
		})

		for _, c := range comments {
			ew.printf("\n  %s  %s\n", displayPath(c), c.Heading)
			if c.Source != "" {
				ew.printf("  Source: %s\n", c.Source)
			}
			writeBlock(ew, "Issue", c.Issue)
			writeBlock(ew, "Suggestion", c.Suggestion)
			writeBlock(ew, "Context", c.Context)
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Completed in %dms\n", report.Timing.TotalMs)

	return ew.err
}

func writeBlock(ew *errWriter, label, text string) {
	if text == "" {
		return
	}
	ew.printf("  %s:\n", label)
	for _, line := range wrapText(text, 70) {
		ew.printf("    %s\n", line)
	}
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func severityIcon(s review.Severity) string {
	switch s {
	case review.SeverityCritical:
		return "[!!!]"
	case review.SeverityHigh:
		return "[!!]"
	case review.SeverityMedium:
		return "[!]"
	case review.SeverityLow:
		return "[-]"
	case review.SeverityInfo:
		return "[i]"
	default:
		return "[?]"
	}
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
