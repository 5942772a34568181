package htmldom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/dshills/prismfold/internal/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

// Parse reads a complete HTML document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Find implements dom.Document.
func (d *Document) Find(selector string) []dom.Node {
	m, err := compile(selector)
	if err != nil {
		return nil
	}
	return wrapAll(cascadia.QueryAll(d.doc.Get(0), m))
}

// CreateElement implements dom.Document.
func (d *Document) CreateElement(tag string) dom.Node {
	tag = strings.ToLower(tag)
	return &Node{n: &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}}
}

// CreateText implements dom.Document.
func (d *Document) CreateText(text string) dom.Node {
	return &Node{n: &html.Node{Type: html.TextNode, Data: text}}
}

// First returns the first element matching selector.
func (d *Document) First(selector string) (dom.Node, bool) {
	nodes := d.Find(selector)
	if len(nodes) == 0 {
		return nil, false
	}
	return nodes[0], true
}

// HTML renders the whole document, doctype included.
func (d *Document) HTML() (string, error) {
	out, err := goquery.OuterHtml(d.doc.Selection)
	if err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}
	return out, nil
}

// Render writes the whole document to w.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.doc.Get(0)); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	return nil
}

// Node wraps a single *html.Node.
type Node struct {
	n *html.Node
}

// Wrap adapts an existing html node.
func Wrap(n *html.Node) dom.Node {
	return &Node{n: n}
}

// Unwrap returns the html node behind a dom.Node created by this package.
func Unwrap(n dom.Node) (*html.Node, bool) {
	hn, ok := n.(*Node)
	if !ok || hn == nil {
		return nil, false
	}
	return hn.n, true
}

func (e *Node) sel() *goquery.Selection {
	return goquery.NewDocumentFromNode(e.n).Selection
}

func (e *Node) Tag() string {
	if e.n.Type != html.ElementNode {
		return ""
	}
	return e.n.Data
}

func (e *Node) Parent() (dom.Node, bool) {
	p := e.n.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil, false
	}
	return &Node{n: p}, true
}

func (e *Node) Children() []dom.Node {
	var out []dom.Node
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, &Node{n: c})
		}
	}
	return out
}

func (e *Node) NextSibling() (dom.Node, bool) {
	for s := e.n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return &Node{n: s}, true
		}
	}
	return nil, false
}

func (e *Node) Text() string {
	return e.sel().Text()
}

func (e *Node) OwnText() string {
	var b strings.Builder
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func (e *Node) Attr(name string) (string, bool) {
	return e.sel().Attr(name)
}

func (e *Node) SetAttr(name, value string) {
	if e.n.Type != html.ElementNode {
		return
	}
	e.sel().SetAttr(name, value)
}

func (e *Node) HasClass(class string) bool {
	return e.n.Type == html.ElementNode && e.sel().HasClass(class)
}

func (e *Node) Matches(selector string) bool {
	if e.n.Type != html.ElementNode {
		return false
	}
	m, err := compile(selector)
	if err != nil {
		return false
	}
	return m.Match(e.n)
}

func (e *Node) Find(selector string) []dom.Node {
	m, err := compile(selector)
	if err != nil {
		return nil
	}
	return wrapAll(cascadia.QueryAll(e.n, m))
}

func (e *Node) Contains(other dom.Node) bool {
	o, ok := Unwrap(other)
	if !ok || o == e.n {
		return false
	}
	for p := o.Parent; p != nil; p = p.Parent {
		if p == e.n {
			return true
		}
	}
	return false
}

func (e *Node) Same(other dom.Node) bool {
	o, ok := Unwrap(other)
	return ok && o == e.n
}

func (e *Node) Clone() dom.Node {
	return &Node{n: e.sel().Clone().Get(0)}
}

func (e *Node) CloneChildren() []dom.Node {
	var out []dom.Node
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, (&Node{n: c}).Clone())
	}
	return out
}

func (e *Node) AppendChild(child dom.Node) {
	c, ok := Unwrap(child)
	if !ok {
		return
	}
	detach(c)
	e.n.AppendChild(c)
}

func (e *Node) InsertAfter(sibling dom.Node) {
	s, ok := Unwrap(sibling)
	if !ok || e.n.Parent == nil {
		return
	}
	detach(s)
	e.n.Parent.InsertBefore(s, e.n.NextSibling)
}

func (e *Node) ReplaceChildren(children ...dom.Node) {
	e.sel().Empty()
	for _, c := range children {
		e.AppendChild(c)
	}
}

func (e *Node) InnerHTML() string {
	out, err := e.sel().Html()
	if err != nil {
		return ""
	}
	return out
}

// OuterHTML renders the node itself, used mostly by tests and reports.
func (e *Node) OuterHTML() string {
	out, err := goquery.OuterHtml(e.sel())
	if err != nil {
		return ""
	}
	return out
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func wrapAll(nodes []*html.Node) []dom.Node {
	out := make([]dom.Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &Node{n: n})
	}
	return out
}

var selectorCache sync.Map

// compile parses a selector group once and reuses it afterwards.
func compile(selector string) (cascadia.Selector, error) {
	if m, ok := selectorCache.Load(selector); ok {
		return m.(cascadia.Selector), nil
	}
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("compiling selector %q: %w", selector, err)
	}
	selectorCache.Store(selector, m)
	return m, nil
}

// Validate reports whether selector is a well-formed selector group.
func Validate(selector string) error {
	_, err := compile(selector)
	return err
}
