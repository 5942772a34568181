package review

import "github.com/dshills/prismfold/internal/dom"

// Innermost drops every node that contains another node of the same list.
// Overlapping comment selectors can match both a wrapper and the body inside
// it; only the body survives. Input order is preserved.
func Innermost(nodes []dom.Node) []dom.Node {
	out := make([]dom.Node, 0, len(nodes))
	for i, n := range nodes {
		nested := false
		for j, other := range nodes {
			if i != j && n.Contains(other) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, n)
		}
	}
	return out
}
