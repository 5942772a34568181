package review

import "github.com/dshills/prismfold/internal/dom"

// Class names of the collapsible widget. A companion stylesheet styles them.
const (
	CollapsibleClass = "collapsible-container"
	SummaryClass     = "collapsible-summary"
	BodyClass        = "collapsible-body"
	IndicatorClass   = "expand-indicator"

	indicatorGlyph = "▼"
)

// Builder assembles the collapsible widget that replaces a comment body.
type Builder struct {
	doc dom.Document
}

// NewBuilder creates a Builder creating nodes in doc.
func NewBuilder(doc dom.Document) *Builder {
	return &Builder{doc: doc}
}

// Build returns a closed <details> container: the suggestion is the visible
// summary, the file path, issue and context sit in the hidden body. Only
// clones of parts are inserted.
func (b *Builder) Build(parts CommentParts) dom.Node {
	details := b.element("details", CollapsibleClass)

	summary := b.element("summary", SummaryClass)
	summary.SetAttr("style", "display:flex;align-items:center;justify-content:space-between;cursor:pointer")
	text := b.element("div", SummaryClass+"-text")
	if q := parts.Suggestion.Quote; q != nil {
		if ps := q.Find("p"); len(ps) > 0 {
			for _, c := range ps[0].CloneChildren() {
				text.AppendChild(c)
			}
		} else {
			text.AppendChild(q.Clone())
		}
	}
	summary.AppendChild(text)
	indicator := b.element("span", IndicatorClass)
	indicator.AppendChild(b.doc.CreateText(indicatorGlyph))
	summary.AppendChild(indicator)

	body := b.element("div", BodyClass)
	body.AppendChild(b.doc.CreateElement("hr"))
	appendClone(body, parts.FilePathLine)
	body.AppendChild(b.doc.CreateElement("hr"))
	appendClone(body, parts.Issue.Header)
	appendClone(body, parts.Issue.Quote)
	appendClone(body, parts.Context.Header)
	appendClone(body, parts.Context.Quote)

	details.AppendChild(summary)
	details.AppendChild(body)
	return details
}

func (b *Builder) element(tag, class string) dom.Node {
	n := b.doc.CreateElement(tag)
	n.SetAttr("class", class)
	return n
}

func appendClone(parent, n dom.Node) {
	if n != nil {
		parent.AppendChild(n.Clone())
	}
}
