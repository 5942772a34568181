package review

import (
	"strings"

	"github.com/dshills/prismfold/internal/config"
	"github.com/dshills/prismfold/internal/dom"
)

const emphasisSelector = "strong, b"

// Extractor locates the logical parts of a review comment.
type Extractor struct {
	marker     string
	folderIcon string
	icons      []string
	labels     config.SectionLabels
}

// NewExtractor creates an Extractor from the configured vocabulary.
func NewExtractor(cfg config.Config) *Extractor {
	return &Extractor{
		marker:     cfg.SeverityMarker,
		folderIcon: cfg.FolderIcon,
		icons:      cfg.SeverityIcons,
		labels:     cfg.SectionLabels,
	}
}

// Extract reads every part of comment. Missing parts are left nil.
func (x *Extractor) Extract(comment dom.Node) CommentParts {
	return CommentParts{
		SeverityHeader: x.SeverityHeader(comment),
		FilePathLine:   x.FilePathLine(comment),
		Issue:          x.Section(comment, x.labels.Issue),
		Suggestion:     x.Section(comment, x.labels.Suggestion),
		Context:        x.Section(comment, x.labels.Context),
	}
}

// SeverityHeader returns the first heading of comment.
func (x *Extractor) SeverityHeader(comment dom.Node) dom.Node {
	headings := comment.Find(headingSelector)
	if len(headings) == 0 {
		return nil
	}
	return headings[0]
}

// FilePathLine returns the first paragraph whose own text carries the folder
// icon. Text of nested children does not count: quoted blocks may mention the
// icon literally.
func (x *Extractor) FilePathLine(comment dom.Node) dom.Node {
	for _, p := range comment.Find("p") {
		if insideExcluded(p, comment) {
			continue
		}
		if strings.Contains(p.OwnText(), x.folderIcon) {
			return p
		}
	}
	return nil
}

// insideExcluded reports whether n sits in a heading or an already built
// collapsible container below root.
func insideExcluded(n, root dom.Node) bool {
	for p, ok := n.Parent(); ok && !p.Same(root); p, ok = p.Parent() {
		if p.Matches(headingSelector) || p.HasClass(CollapsibleClass) {
			return true
		}
	}
	return false
}

// Section finds the first emphasis element mentioning label and the quoted
// block that follows it.
func (x *Extractor) Section(comment dom.Node, label string) Section {
	if label == "" {
		return Section{}
	}
	var labelNode dom.Node
	for _, em := range comment.Find(emphasisSelector) {
		if strings.Contains(em.Text(), label) {
			labelNode = em
			break
		}
	}
	if labelNode == nil {
		return Section{}
	}

	// A bare inline label is its own anchor; a wrapped one is anchored on
	// its enclosing block.
	anchor := labelNode
	if p, ok := labelNode.Parent(); ok && !p.Same(comment) {
		anchor = p
	}
	return Section{Header: anchor, Quote: quoteAfter(anchor)}
}

// quoteAfter walks the siblings after anchor up to the next section boundary.
func quoteAfter(anchor dom.Node) dom.Node {
	for sib, ok := anchor.NextSibling(); ok; sib, ok = sib.NextSibling() {
		if sib.Tag() == "blockquote" {
			return sib
		}
		if isBoundary(sib) {
			return nil
		}
	}
	return nil
}

func isBoundary(n dom.Node) bool {
	if n.Tag() == "hr" || n.Matches(emphasisSelector) {
		return true
	}
	return len(n.Find(emphasisSelector)) > 0
}

// Comment projects parts into plain text.
func (x *Extractor) Comment(parts CommentParts) Comment {
	var c Comment
	if parts.SeverityHeader != nil {
		c.Heading = collapse(parts.SeverityHeader.Text())
		c.Severity = ParseSeverity(c.Heading, x.marker, x.icons)
	} else {
		c.Severity = SeverityUnknown
	}
	if parts.FilePathLine != nil {
		c.FilePath = collapse(strings.ReplaceAll(parts.FilePathLine.Text(), x.folderIcon, ""))
	}
	c.Issue = quoteText(parts.Issue)
	c.Suggestion = quoteText(parts.Suggestion)
	c.Context = quoteText(parts.Context)
	return c
}

func quoteText(s Section) string {
	if s.Quote == nil {
		return ""
	}
	return collapse(s.Quote.Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
