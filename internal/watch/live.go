package watch

import (
	"context"
	"sync"
	"time"

	"github.com/dshills/prismfold/internal/dom"
	"github.com/dshills/prismfold/internal/review"
)

// ScanFunc observes the result of every scan.
type ScanFunc func(res review.ScanResult, elapsed time.Duration)

// Live keeps one document that changes underneath the formatter. Mutations
// and scans are serialized by a single lock.
type Live struct {
	mu        sync.Mutex
	doc       dom.Document
	formatter *review.Formatter
	debouncer *Debouncer
	onScan    ScanFunc
}

// NewLive wraps doc. onScan may be nil.
func NewLive(doc dom.Document, formatter *review.Formatter, delay time.Duration, onScan ScanFunc) *Live {
	l := &Live{doc: doc, formatter: formatter, onScan: onScan}
	l.debouncer = NewDebouncer(delay, func(context.Context) { l.Scan() })
	return l
}

// Mutate applies fn to the document and schedules a rescan.
func (l *Live) Mutate(fn func(doc dom.Document)) {
	l.mu.Lock()
	fn(l.doc)
	l.mu.Unlock()
	l.debouncer.Notify()
}

// View runs fn with the document locked, for reads.
func (l *Live) View(fn func(doc dom.Document)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.doc)
}

// Scan runs one full pass immediately.
func (l *Live) Scan() review.ScanResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	start := time.Now()
	res := l.formatter.Scan(l.doc)
	if l.onScan != nil {
		l.onScan(res, time.Since(start))
	}
	return res
}

// Run scans once, then rescans after every debounced batch of mutations
// until ctx is done.
func (l *Live) Run(ctx context.Context) error {
	l.Scan()
	return l.debouncer.Run(ctx)
}
