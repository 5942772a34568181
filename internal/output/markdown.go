package output

import (
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/prismfold/internal/review"
)

// MarkdownWriter outputs a digest of review comments with collapsible
// sections per severity.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}
	c := report.Summary.Counts
	total := c.Total()

	ew.printf("## Review Comment Digest\n\n")

	ew.printf("| Severity | Count |\n")
	ew.printf("|----------|-------|\n")
	ew.printf("| Critical | %d    |\n", c.Critical)
	ew.printf("| High     | %d    |\n", c.High)
	ew.printf("| Medium   | %d    |\n", c.Medium)
	ew.printf("| Low      | %d    |\n", c.Low)
	ew.printf("| Info     | %d    |\n", c.Info)
	ew.printf("| **Total** | **%d** |\n\n", total)

	if total == 0 {
		ew.println("No review comments found. :white_check_mark:")
		return ew.err
	}

	grouped := groupBySeverity(report.Comments)
	for _, sev := range severityOrder {
		comments := grouped[sev]
		if len(comments) == 0 {
			continue
		}

		ew.printf("<details>\n<summary>%s %s (%d)</summary>\n\n",
			mdSeverityIcon(sev), strings.ToUpper(string(sev)), len(comments))

		sort.SliceStable(comments, func(i, j int) bool {
			return displayPath(comments[i]) < displayPath(comments[j])
		})

		for _, cm := range comments {
			ew.printf("### `%s`\n\n", displayPath(cm))
			if cm.Heading != "" {
				ew.printf("*%s*\n\n", cm.Heading)
			}
			if cm.Issue != "" {
				ew.printf("**Issue:** %s\n\n", cm.Issue)
			}
			if cm.Suggestion != "" {
				ew.printf("**Suggestion:**\n\n")
				if looksLikeCode(cm.Suggestion) {
					ew.printf("```%s\n%s\n```\n\n", inferLang(cm.FilePath), cm.Suggestion)
				} else {
					ew.printf("> %s\n\n", strings.ReplaceAll(cm.Suggestion, "\n", "\n> "))
				}
			}
			if cm.Context != "" {
				ew.printf("**Context:** %s\n\n", cm.Context)
			}
			ew.printf("---\n\n")
		}

		ew.printf("</details>\n\n")
	}

	ew.printf("*Processed in %dms*\n", report.Timing.TotalMs)
	return ew.err
}

func mdSeverityIcon(s review.Severity) string {
	switch s {
	case review.SeverityCritical:
		return ":rotating_light:"
	case review.SeverityHigh:
		return ":red_circle:"
	case review.SeverityMedium:
		return ":orange_circle:"
	case review.SeverityLow:
		return ":yellow_circle:"
	case review.SeverityInfo:
		return ":green_circle:"
	default:
		return ":white_circle:"
	}
}

func looksLikeCode(s string) bool {
	codeIndicators := []string{
		"func ", "return ", "var ", "const ", "let ",
		"def ", "class ", "import ",
		"{", "}", "=>", "->", ":=", "==", "<=", ">=",
		"()", "[];",
	}
	for _, indicator := range codeIndicators {
		if strings.Contains(s, indicator) {
			return true
		}
	}
	return false
}

var langByExt = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".ts":   "typescript",
	".tsx":  "tsx",
	".jsx":  "jsx",
	".rs":   "rust",
	".java": "java",
	".rb":   "ruby",
	".cpp":  "cpp",
	".c":    "c",
	".cs":   "csharp",
	".php":  "php",
	".sh":   "bash",
	".sql":  "sql",
	".yaml": "yaml",
	".yml":  "yaml",
	".json": "json",
	".tf":   "hcl",
}

func inferLang(path string) string {
	return langByExt[strings.ToLower(filepath.Ext(path))]
}
