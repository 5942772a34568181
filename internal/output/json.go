package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/prismfold/internal/review"
)

// JSONWriter outputs the full report as indented JSON. Comment text often
// quotes markup, so HTML characters are written as-is rather than escaped.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, report *review.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	return nil
}
