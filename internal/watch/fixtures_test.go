package watch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/prismfold/internal/config"
	"github.com/dshills/prismfold/internal/review"
	"github.com/stretchr/testify/require"
)

const reviewComment = `<div class="timeline-comment">
<div class="timeline-comment-header"><span class="timeline-comment-header-text">bot</span></div>
<div class="comment-body">
<h3>Severity: Medium 🟠</h3>
<p>📂 cmd/main.go</p>
<p><strong>🧐 Issue</strong></p><blockquote><p>Error is ignored.</p></blockquote>
<p><strong>💡 Suggestion</strong></p><blockquote><p>Check the error.</p></blockquote>
</div></div>`

func page(comments ...string) string {
	out := "<html><head></head><body>"
	for _, c := range comments {
		out += c
	}
	return out + "</body></html>"
}

func newFormatter() *review.Formatter {
	return review.NewFormatter(config.Default(), nil)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
