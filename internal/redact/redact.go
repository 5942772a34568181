package redact

import (
	"fmt"
	"regexp"

	"github.com/dshills/prismfold/internal/review"
)

const placeholder = "[REDACTED]"

type rule struct {
	name string
	re   *regexp.Regexp
}

// builtin rules catch credentials reviewers paste into suggestions.
var builtin = []rule{
	{"private-key", regexp.MustCompile(`-----BEGIN\s+(?:[A-Z]+\s+)?PRIVATE KEY-----`)},
	{"aws-access-key", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"github-token", regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`)},
	{"slack-token", regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`)},
	{"anthropic-key", regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`)},
	{"openai-key", regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`)},
	{"jwt", regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`)},
	{"bearer", regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`)},
	{"key-assignment", regexp.MustCompile(`(?i)(?:api[_-]?key|apikey|api[_-]?secret|aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?[A-Za-z0-9/+=_-]{20,}["']?`)},
	{"secret-assignment", regexp.MustCompile(`(?i)(?:secret|token|password|passwd|credential)\s*[:=]\s*["'][^"']{8,}["']`)},
}

// Redactor replaces secrets in review comment text.
type Redactor struct {
	rules []rule
}

// New returns a Redactor using the built-in rules plus any extra patterns.
func New(extra []string) (*Redactor, error) {
	r := &Redactor{rules: append([]rule(nil), builtin...)}
	for i, p := range extra {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling redact pattern %q: %w", p, err)
		}
		r.rules = append(r.rules, rule{name: fmt.Sprintf("custom-%d", i+1), re: re})
	}
	return r, nil
}

// Text redacts s and returns the result with the number of replacements.
func (r *Redactor) Text(s string) (string, int) {
	n := 0
	for _, ru := range r.rules {
		s = ru.re.ReplaceAllStringFunc(s, func(string) string {
			n++
			return placeholder
		})
	}
	return s, n
}

// Comments returns redacted copies of comments and the total number of
// replacements. The input slice is not modified.
func (r *Redactor) Comments(comments []review.Comment) ([]review.Comment, int) {
	if comments == nil {
		return nil, 0
	}
	out := make([]review.Comment, len(comments))
	total := 0
	for i, c := range comments {
		var n int
		c.Heading, n = r.Text(c.Heading)
		total += n
		c.Issue, n = r.Text(c.Issue)
		total += n
		c.Suggestion, n = r.Text(c.Suggestion)
		total += n
		c.Context, n = r.Text(c.Context)
		total += n
		out[i] = c
	}
	return out, total
}

// Report redacts the report's comments in place.
func (r *Redactor) Report(report *review.Report) int {
	var n int
	report.Comments, n = r.Comments(report.Comments)
	return n
}

// Secrets redacts s with the built-in rules only.
func Secrets(s string) string {
	out, _ := (&Redactor{rules: builtin}).Text(s)
	return out
}
