package review

import (
	"fmt"
	"log/slog"

	"github.com/dshills/prismfold/internal/config"
	"github.com/dshills/prismfold/internal/dom"
)

// StateAttr is the node attribute that persists the processing state.
const StateAttr = "data-prismfold-state"

// StateOf returns the persisted processing state of node.
func StateOf(node dom.Node) State {
	v, _ := node.Attr(StateAttr)
	return ParseState(v)
}

func setState(node dom.Node, s State) {
	node.SetAttr(StateAttr, s.String())
}

// CommentResult describes what FormatComment did with one candidate.
type CommentResult struct {
	State   State
	Skipped bool
	Err     error
	Comment *Comment
}

// ScanResult aggregates one full pass over a document.
type ScanResult struct {
	Stats    ScanStats
	Comments []Comment
}

// Formatter ties detection, extraction, badge injection and rewriting into
// one operation per comment.
type Formatter struct {
	cfg       config.Config
	detector  *Detector
	extractor *Extractor
	logger    *slog.Logger
}

// NewFormatter creates a Formatter. A nil logger discards log output.
func NewFormatter(cfg config.Config, logger *slog.Logger) *Formatter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Formatter{
		cfg:       cfg,
		detector:  NewDetector(cfg),
		extractor: NewExtractor(cfg),
		logger:    logger,
	}
}

// Candidates returns the innermost nodes matched by any comment selector.
func (f *Formatter) Candidates(doc dom.Document) []dom.Node {
	return Innermost(doc.Find(f.cfg.SelectorGroup()))
}

// Scan formats every unprocessed review comment in doc. It always runs to
// completion; a comment that fails is counted and left marked.
func (f *Formatter) Scan(doc dom.Document) ScanResult {
	var res ScanResult
	builder := NewBuilder(doc)
	injector := NewInjector(doc, f.cfg)

	candidates := f.Candidates(doc)
	res.Stats.Candidates = len(candidates)
	for _, node := range candidates {
		cr := f.formatComment(node, builder, injector)
		switch {
		case cr.Skipped:
			res.Stats.Skipped++
		case cr.Err != nil:
			res.Stats.Failed++
			f.logger.Warn("review comment left partially formatted",
				slog.String("state", cr.State.String()),
				slog.String("error", cr.Err.Error()),
			)
		case cr.State == StateIgnored:
			res.Stats.Ignored++
		case cr.State == StateReplaced:
			res.Stats.Formatted++
			res.Comments = append(res.Comments, *cr.Comment)
		}
	}

	f.logger.Debug("scan complete",
		slog.Int("candidates", res.Stats.Candidates),
		slog.Int("formatted", res.Stats.Formatted),
		slog.Int("skipped", res.Stats.Skipped),
		slog.Int("ignored", res.Stats.Ignored),
		slog.Int("failed", res.Stats.Failed),
	)
	return res
}

// FormatComment runs a single comment node through the state machine.
func (f *Formatter) FormatComment(doc dom.Document, node dom.Node) CommentResult {
	return f.formatComment(node, NewBuilder(doc), NewInjector(doc, f.cfg))
}

func (f *Formatter) formatComment(node dom.Node, builder *Builder, injector *Injector) (res CommentResult) {
	if s := StateOf(node); s.Processed() {
		return CommentResult{State: s, Skipped: true}
	}
	if !f.detector.IsReviewComment(node) {
		return CommentResult{State: StateIgnored}
	}

	// The marker goes on before anything else touches the node, so a failure
	// below leaves it marked rather than retried on every pass.
	res.State = StateMarked
	setState(node, res.State)
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("formatting comment: %v", r)
			res.Comment = nil
		}
	}()

	parts := f.extractor.Extract(node)
	comment := f.extractor.Comment(parts)
	res.State = StateExtracted
	setState(node, res.State)

	injected := injector.Inject(node, parts.SeverityHeader)
	res.State = StateHeaderInjected
	setState(node, res.State)

	widget := builder.Build(parts)
	node.ReplaceChildren(widget)
	res.State = StateReplaced
	setState(node, res.State)

	f.logger.Debug("formatted review comment",
		slog.String("severity", string(comment.Severity)),
		slog.String("file", comment.FilePath),
		slog.Bool("badge", injected),
		slog.Bool("suggestion", parts.Suggestion.Complete()),
	)
	res.Comment = &comment
	return res
}

// ExtractAll reads every unprocessed review comment in doc without changing
// the document.
func (f *Formatter) ExtractAll(doc dom.Document) []Comment {
	var out []Comment
	for _, node := range f.Candidates(doc) {
		if StateOf(node).Processed() || !f.detector.IsReviewComment(node) {
			continue
		}
		out = append(out, f.extractor.Comment(f.extractor.Extract(node)))
	}
	return out
}
