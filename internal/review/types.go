package review

import (
	"strings"

	"github.com/dshills/prismfold/internal/dom"
)

// Severity represents the severity level announced by a review comment.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
	SeverityUnknown  Severity = "unknown"
)

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// MeetsThreshold returns true if severity is at or above the threshold.
func MeetsThreshold(s Severity, threshold string) bool {
	if threshold == "none" || threshold == "" {
		return false
	}
	return SeverityRank(s) >= SeverityRank(Severity(threshold))
}

// knownIcons maps the usual severity glyphs to a level.
var knownIcons = map[string]Severity{
	"🚨": SeverityCritical,
	"🔴": SeverityHigh,
	"🟠": SeverityMedium,
	"🟡": SeverityLow,
	"🟢": SeverityInfo,
	"⚪": SeverityInfo,
}

// byPosition ranks configured icons that are not known glyphs: the first is
// high, then medium, low, and info for the rest.
var byPosition = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

// ParseSeverity reads the level out of a severity heading such as
// "Severity: High 🔴". The first known word after the marker wins. Otherwise
// the first configured icon present decides: a known glyph keeps its usual
// level, any other icon is ranked by its position in icons.
func ParseSeverity(heading, marker string, icons []string) Severity {
	rest := heading
	if marker != "" {
		if i := strings.Index(heading, marker); i >= 0 {
			rest = heading[i+len(marker):]
		}
	}
	for _, word := range strings.Fields(strings.ToLower(rest)) {
		word = strings.Trim(word, ".,:;!()[]")
		switch Severity(word) {
		case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
			return Severity(word)
		}
	}
	for i, icon := range icons {
		if icon == "" || !strings.Contains(heading, icon) {
			continue
		}
		if sev, ok := knownIcons[icon]; ok {
			return sev
		}
		if i < len(byPosition) {
			return byPosition[i]
		}
		return SeverityInfo
	}
	return SeverityUnknown
}

// State is the processing state of one comment node. Every state from
// StateMarked onward is persisted on the node and acts as the processed
// marker for later passes.
type State int

const (
	StateUnseen State = iota
	StateIgnored
	StateMarked
	StateExtracted
	StateHeaderInjected
	StateReplaced
)

var stateNames = [...]string{
	StateUnseen:         "unseen",
	StateIgnored:        "ignored",
	StateMarked:         "marked",
	StateExtracted:      "extracted",
	StateHeaderInjected: "header-injected",
	StateReplaced:       "replaced",
}

func (s State) String() string {
	if int(s) < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Processed reports whether the state carries the processed marker.
func (s State) Processed() bool {
	return s >= StateMarked
}

// ParseState maps a persisted marker value back to a State. Unknown non-empty
// values count as marked so that a foreign marker still blocks reprocessing.
func ParseState(v string) State {
	if v == "" {
		return StateUnseen
	}
	for i, name := range stateNames {
		if name == v {
			return State(i)
		}
	}
	return StateMarked
}

// Section is a labeled header plus the quoted block that follows it. Either
// field may be nil.
type Section struct {
	Header dom.Node
	Quote  dom.Node
}

// Found reports whether the section label was present.
func (s Section) Found() bool {
	return s.Header != nil
}

// Complete reports whether both the label and its quoted block were found.
func (s Section) Complete() bool {
	return s.Header != nil && s.Quote != nil
}

// CommentParts is everything extracted from one review comment. All fields
// are independently optional.
type CommentParts struct {
	SeverityHeader dom.Node
	FilePathLine   dom.Node
	Issue          Section
	Suggestion     Section
	Context        Section
}

// Comment is the plain-text projection of a formatted review comment.
type Comment struct {
	Source     string   `json:"source,omitempty"`
	Severity   Severity `json:"severity"`
	Heading    string   `json:"heading"`
	FilePath   string   `json:"filePath,omitempty"`
	Issue      string   `json:"issue,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Context    string   `json:"context,omitempty"`
}

// SeverityCounts holds counts by severity level.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
	Unknown  int `json:"unknown"`
}

// Total returns the sum of all counts.
func (c SeverityCounts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low + c.Info + c.Unknown
}

// Summary provides an overview of the comments found.
type Summary struct {
	Counts          SeverityCounts `json:"counts"`
	HighestSeverity Severity       `json:"highestSeverity,omitempty"`
}

// ScanStats counts what a scan did with its candidates.
type ScanStats struct {
	Candidates int `json:"candidates"`
	Formatted  int `json:"formatted"`
	Ignored    int `json:"ignored"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// Add accumulates other into s.
func (s *ScanStats) Add(other ScanStats) {
	s.Candidates += other.Candidates
	s.Formatted += other.Formatted
	s.Ignored += other.Ignored
	s.Skipped += other.Skipped
	s.Failed += other.Failed
}

// Timing contains performance metrics.
type Timing struct {
	TotalMs int64 `json:"totalMs"`
}

// Report is the top-level output structure.
type Report struct {
	Tool     string    `json:"tool"`
	Version  string    `json:"version"`
	RunID    string    `json:"runId"`
	Mode     string    `json:"mode"`
	Sources  []string  `json:"sources"`
	Summary  Summary   `json:"summary"`
	Stats    ScanStats `json:"stats"`
	Comments []Comment `json:"comments"`
	Timing   Timing    `json:"timing"`
}

// ComputeSummary calculates the summary from comments.
func ComputeSummary(comments []Comment) Summary {
	var s Summary
	for _, c := range comments {
		switch c.Severity {
		case SeverityCritical:
			s.Counts.Critical++
		case SeverityHigh:
			s.Counts.High++
		case SeverityMedium:
			s.Counts.Medium++
		case SeverityLow:
			s.Counts.Low++
		case SeverityInfo:
			s.Counts.Info++
		default:
			s.Counts.Unknown++
		}
		if SeverityRank(c.Severity) > SeverityRank(s.HighestSeverity) {
			s.HighestSeverity = c.Severity
		}
	}
	return s
}
