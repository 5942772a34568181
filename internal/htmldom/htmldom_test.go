package htmldom

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<div id="root" class="comment-body">
  text
  <h3 id="h">Severity: <em>High</em></h3>
  <!-- note -->
  <p id="p1">📂 <code>main.go</code></p>
  <p id="p2" class="x y">two</p>
</div>
<div id="other" class="note-text"></div>
</body></html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	require.NoError(t, err)
	return doc
}

func mustFirst(t *testing.T, doc *Document, sel string) *Node {
	t.Helper()
	n, ok := doc.First(sel)
	require.True(t, ok, "no match for %q", sel)
	return n.(*Node)
}

func TestDocumentFind(t *testing.T) {
	doc := mustParse(t, page)

	nodes := doc.Find(".note-text, .comment-body")
	require.Len(t, nodes, 2)
	id0, _ := nodes[0].Attr("id")
	id1, _ := nodes[1].Attr("id")
	assert.Equal(t, "root", id0, "selector groups return document order")
	assert.Equal(t, "other", id1)

	assert.Nil(t, doc.Find("div[["), "invalid selectors match nothing")
	_, ok := doc.First(".missing")
	assert.False(t, ok)
}

func TestNodeNavigation(t *testing.T) {
	doc := mustParse(t, page)
	root := mustFirst(t, doc, "#root")
	h := mustFirst(t, doc, "#h")

	assert.Equal(t, "div", root.Tag())
	kids := root.Children()
	require.Len(t, kids, 3, "children are elements only")
	assert.True(t, kids[0].Same(h))

	next, ok := h.NextSibling()
	require.True(t, ok)
	id, _ := next.Attr("id")
	assert.Equal(t, "p1", id, "NextSibling skips text and comment nodes")

	parent, ok := h.Parent()
	require.True(t, ok)
	assert.True(t, parent.Same(root))

	htmlEl := mustFirst(t, doc, "html")
	_, ok = htmlEl.Parent()
	assert.False(t, ok, "the document node is not an element parent")
}

func TestNodeText(t *testing.T) {
	doc := mustParse(t, page)
	h := mustFirst(t, doc, "#h")
	p1 := mustFirst(t, doc, "#p1")

	assert.Equal(t, "Severity: High", h.Text())
	assert.Equal(t, "Severity: ", h.OwnText())
	assert.Equal(t, "📂 ", p1.OwnText())
	assert.Contains(t, p1.InnerHTML(), "<code>main.go</code>")
	assert.Equal(t, `<p id="p1">📂 <code>main.go</code></p>`, p1.OuterHTML())
}

func TestNodeAttributes(t *testing.T) {
	doc := mustParse(t, page)
	p2 := mustFirst(t, doc, "#p2")

	assert.True(t, p2.HasClass("y"))
	assert.False(t, p2.HasClass("z"))
	assert.True(t, p2.Matches("p.x"))
	assert.False(t, p2.Matches("div"))
	assert.False(t, p2.Matches("p[["))

	_, ok := p2.Attr("data-state")
	assert.False(t, ok)
	p2.SetAttr("data-state", "marked")
	v, ok := p2.Attr("data-state")
	assert.True(t, ok)
	assert.Equal(t, "marked", v)
	assert.Len(t, doc.Find(`[data-state="marked"]`), 1)
}

func TestNodeContains(t *testing.T) {
	doc := mustParse(t, page)
	root := mustFirst(t, doc, "#root")
	code := mustFirst(t, doc, "code")
	other := mustFirst(t, doc, "#other")

	assert.True(t, root.Contains(code))
	assert.False(t, code.Contains(root))
	assert.False(t, root.Contains(root), "Contains is strict")
	assert.False(t, root.Contains(other))
	assert.Len(t, root.Find("div"), 0, "Find never returns the receiver")
}

func TestCloneIsDetached(t *testing.T) {
	doc := mustParse(t, page)
	p1 := mustFirst(t, doc, "#p1")

	c := p1.Clone()
	_, hasParent := c.Parent()
	assert.False(t, hasParent)
	c.SetAttr("id", "copy")
	id, _ := p1.Attr("id")
	assert.Equal(t, "p1", id, "changing a clone leaves the original alone")

	kids := p1.CloneChildren()
	require.Len(t, kids, 2, "text nodes are cloned too")
	assert.Equal(t, "", kids[0].Tag())
	assert.Equal(t, "code", kids[1].Tag())
	assert.Len(t, p1.Children(), 1)
}

func TestMutation(t *testing.T) {
	doc := mustParse(t, page)
	root := mustFirst(t, doc, "#root")
	h := mustFirst(t, doc, "#h")

	badge := doc.CreateElement("SPAN")
	badge.SetAttr("class", "badge")
	badge.AppendChild(doc.CreateText("hi"))
	h.InsertAfter(badge)

	next, ok := h.NextSibling()
	require.True(t, ok)
	assert.True(t, next.HasClass("badge"))
	assert.Equal(t, "span", next.Tag())

	details := doc.CreateElement("details")
	root.ReplaceChildren(details)
	require.Len(t, root.Children(), 1)
	assert.Equal(t, "details", root.Children()[0].Tag())
	assert.Empty(t, strings.TrimSpace(root.OwnText()))

	// Appending an attached node moves it.
	other := mustFirst(t, doc, "#other")
	other.AppendChild(details)
	assert.Len(t, root.Children(), 0)
	assert.Len(t, other.Children(), 1)
}

func TestRender(t *testing.T) {
	doc := mustParse(t, `<p>a</p>`)
	var buf bytes.Buffer
	require.NoError(t, doc.Render(&buf))
	assert.Equal(t, "<html><head></head><body><p>a</p></body></html>", buf.String())

	out, err := doc.HTML()
	require.NoError(t, err)
	assert.Equal(t, buf.String(), out)
}

func TestWrapUnwrap(t *testing.T) {
	doc := mustParse(t, page)
	p1 := mustFirst(t, doc, "#p1")
	hn, ok := Unwrap(p1)
	require.True(t, ok)
	assert.True(t, Wrap(hn).Same(p1))

	_, ok = Unwrap(nil)
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(".comment-body, .note-text"))
	assert.NoError(t, Validate("h1, h2, h3"))
	assert.Error(t, Validate("div[["))
}
