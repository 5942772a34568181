package review

import (
	"strings"

	"github.com/dshills/prismfold/internal/config"
	"github.com/dshills/prismfold/internal/dom"
)

const headingSelector = "h1, h2, h3, h4, h5, h6"

// Detector recognizes machine-generated review comments by their severity
// heading.
type Detector struct {
	marker string
	icons  []string
}

// NewDetector creates a Detector from the configured vocabulary.
func NewDetector(cfg config.Config) *Detector {
	return &Detector{marker: cfg.SeverityMarker, icons: cfg.SeverityIcons}
}

// IsReviewComment reports whether node holds a heading carrying both the
// severity marker and one of the severity icons.
func (d *Detector) IsReviewComment(node dom.Node) bool {
	for _, h := range node.Find(headingSelector) {
		if d.IsSignature(h.Text()) {
			return true
		}
	}
	return false
}

// IsSignature applies the signature rule to a heading's text.
func (d *Detector) IsSignature(text string) bool {
	if !strings.Contains(text, d.marker) {
		return false
	}
	for _, icon := range d.icons {
		if strings.Contains(text, icon) {
			return true
		}
	}
	return false
}
