package review

import (
	"time"

	"github.com/google/uuid"
)

// Tool and Version identify reports produced by this binary.
const (
	Tool    = "prismfold"
	Version = "0.3.0"
)

// BuildReport assembles a report for one command run.
func BuildReport(mode string, sources []string, stats ScanStats, comments []Comment, startTime time.Time) *Report {
	if comments == nil {
		comments = []Comment{}
	}
	return &Report{
		Tool:     Tool,
		Version:  Version,
		RunID:    uuid.NewString(),
		Mode:     mode,
		Sources:  sources,
		Summary:  ComputeSummary(comments),
		Stats:    stats,
		Comments: comments,
		Timing: Timing{
			TotalMs: time.Since(startTime).Milliseconds(),
		},
	}
}

// WithSource stamps every comment with the document it came from.
func WithSource(comments []Comment, source string) []Comment {
	for i := range comments {
		comments[i].Source = source
	}
	return comments
}
