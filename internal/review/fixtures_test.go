package review

import (
	"testing"

	"github.com/dshills/prismfold/internal/config"
	"github.com/dshills/prismfold/internal/dom"
	"github.com/dshills/prismfold/internal/htmldom"
)

// reviewBody is a complete machine-generated review comment.
const reviewBody = `<div class="comment-body">
<h3>Severity: High 🔴</h3>
<p>📂 <code>internal/server/handler.go</code></p>
<p><strong>🧐 Issue</strong></p>
<blockquote><p>The request body is never closed.</p></blockquote>
<p><strong>💡 Suggestion</strong></p>
<blockquote><p>Add <code>defer r.Body.Close()</code> after reading.</p></blockquote>
<p><strong>📝 Context</strong></p>
<blockquote><p>Leaks a connection per request.</p></blockquote>
</div>`

// thread wraps bodies in the chrome of a review thread.
func thread(bodies ...string) string {
	out := "<html><body>"
	for _, b := range bodies {
		out += `<div class="timeline-comment">
<div class="timeline-comment-header"><span class="timeline-comment-header-text"><strong>review-bot</strong> commented</span></div>
` + b + `</div>`
	}
	return out + "</body></html>"
}

func parse(t *testing.T, s string) *htmldom.Document {
	t.Helper()
	doc, err := htmldom.ParseString(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func first(t *testing.T, doc *htmldom.Document, selector string) dom.Node {
	t.Helper()
	n, ok := doc.First(selector)
	if !ok {
		t.Fatalf("no element matches %q", selector)
	}
	return n
}

func render(t *testing.T, doc *htmldom.Document) string {
	t.Helper()
	out, err := doc.HTML()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func testConfig() config.Config {
	return config.Default()
}
