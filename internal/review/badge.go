package review

import (
	"github.com/dshills/prismfold/internal/config"
	"github.com/dshills/prismfold/internal/dom"
)

// BadgeClass marks the severity indicator placed in the comment chrome.
const BadgeClass = "severity-badge"

// Injector places a compact severity badge into the chrome header that
// surrounds a comment body.
type Injector struct {
	doc    dom.Document
	chrome config.ChromeConfig
	marker string
	icons  []string
}

// NewInjector creates an Injector writing into doc.
func NewInjector(doc dom.Document, cfg config.Config) *Injector {
	return &Injector{doc: doc, chrome: cfg.Chrome, marker: cfg.SeverityMarker, icons: cfg.SeverityIcons}
}

// Inject copies heading's content into a badge right after the chrome
// header's text anchor. It reports whether a badge was added; a nil heading,
// missing chrome, missing anchor or an existing badge all leave the page
// untouched.
func (in *Injector) Inject(body, heading dom.Node) bool {
	if heading == nil {
		return false
	}
	container, ok := in.ChromeContainer(body)
	if !ok {
		return false
	}
	headers := container.Find(in.chrome.HeaderSelector)
	if len(headers) == 0 {
		return false
	}
	header := headers[0]
	if len(header.Find("."+BadgeClass)) > 0 {
		return false
	}
	anchors := header.Find(in.chrome.HeaderTextSelector)
	if len(anchors) == 0 {
		return false
	}

	badge := in.doc.CreateElement("span")
	sev := ParseSeverity(heading.Text(), in.marker, in.icons)
	badge.SetAttr("class", BadgeClass+" severity-"+string(sev))
	badge.SetAttr("style", "margin-left:8px")
	for _, c := range heading.CloneChildren() {
		badge.AppendChild(c)
	}
	anchors[0].InsertAfter(badge)
	return true
}

// ChromeContainer returns the smallest ancestor of body that is the comment
// chrome: first by the preferred class, then by holding a chrome header.
func (in *Injector) ChromeContainer(body dom.Node) (dom.Node, bool) {
	if in.chrome.ContainerClass != "" {
		for p, ok := body.Parent(); ok; p, ok = p.Parent() {
			if p.HasClass(in.chrome.ContainerClass) {
				return p, true
			}
		}
	}
	for p, ok := body.Parent(); ok; p, ok = p.Parent() {
		if len(p.Find(in.chrome.HeaderSelector)) > 0 {
			return p, true
		}
	}
	return nil, false
}
