package dom

// Node is one node of a document tree. Element navigation (Parent, Children,
// NextSibling) only ever yields element nodes; text nodes appear only through
// CloneChildren and CreateText.
type Node interface {
	// Tag returns the lower-case element name, or "" for non-element nodes.
	Tag() string
	Parent() (Node, bool)
	Children() []Node
	// NextSibling returns the next element sibling, skipping text and comments.
	NextSibling() (Node, bool)

	// Text returns the concatenated text of the node and all descendants.
	Text() string
	// OwnText returns only the text of direct text-node children.
	OwnText() string

	Attr(name string) (string, bool)
	SetAttr(name, value string)
	HasClass(class string) bool
	Matches(selector string) bool

	// Find returns descendants matching selector in document order. The
	// receiver itself is never part of the result.
	Find(selector string) []Node
	// Contains reports whether other is a strict descendant of the receiver.
	Contains(other Node) bool
	// Same reports whether other is the same underlying node.
	Same(other Node) bool

	// Clone returns a detached deep copy.
	Clone() Node
	// CloneChildren returns detached deep copies of every child node,
	// text nodes included.
	CloneChildren() []Node

	AppendChild(child Node)
	// InsertAfter places sibling directly after the receiver.
	InsertAfter(sibling Node)
	// ReplaceChildren drops every existing child and appends children.
	ReplaceChildren(children ...Node)

	InnerHTML() string
}

// Document is the root of a tree the formatter reads from and writes into.
type Document interface {
	// Find returns every element matching a selector group, in document
	// order, each element at most once.
	Find(selector string) []Node
	CreateElement(tag string) Node
	CreateText(text string) Node
}
