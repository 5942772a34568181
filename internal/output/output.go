package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/prismfold/internal/review"
)

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, report *review.Report) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown":
		return &MarkdownWriter{}, nil
	case "sarif":
		return &SARIFWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteReport writes the report to the specified output (file path or stdout).
func WriteReport(report *review.Report, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	return writer.Write(w, report)
}

// severityOrder lists severities most severe first.
var severityOrder = []review.Severity{
	review.SeverityCritical,
	review.SeverityHigh,
	review.SeverityMedium,
	review.SeverityLow,
	review.SeverityInfo,
	review.SeverityUnknown,
}

func groupBySeverity(comments []review.Comment) map[review.Severity][]review.Comment {
	m := make(map[review.Severity][]review.Comment)
	for _, c := range comments {
		sev := c.Severity
		if review.SeverityRank(sev) == 0 {
			sev = review.SeverityUnknown
		}
		m[sev] = append(m[sev], c)
	}
	return m
}

func displayPath(c review.Comment) string {
	if c.FilePath != "" {
		return c.FilePath
	}
	return "unknown"
}
