package watch

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dshills/prismfold/internal/htmldom"
	"github.com/dshills/prismfold/internal/review"
	"github.com/fsnotify/fsnotify"
	"lukechampine.com/blake3"
)

// FormatBytes parses an HTML page, formats its review comments and renders
// it again. A page with nothing newly formatted is returned byte for byte.
func FormatBytes(formatter *review.Formatter, data []byte) ([]byte, review.ScanResult, error) {
	doc, err := htmldom.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, review.ScanResult{}, err
	}
	res := formatter.Scan(doc)
	if res.Stats.Formatted == 0 && res.Stats.Failed == 0 {
		return data, res, nil
	}
	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return nil, res, err
	}
	return buf.Bytes(), res, nil
}

// Digest returns the hex BLAKE3 digest used to recognise unchanged pages.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ExpandPatterns resolves file arguments. Plain paths must exist; glob
// patterns (doublestar syntax, ** included) may match nothing. The result has
// no duplicates and keeps argument order.
func ExpandPatterns(patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			if _, err := os.Stat(pattern); err != nil {
				return nil, fmt.Errorf("input file: %w", err)
			}
			add(pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// FileScanFunc observes the result of formatting one file.
type FileScanFunc func(path string, res review.ScanResult, elapsed time.Duration)

// DigestStore persists the digest of each page as last left formatted, so a
// restarted watcher can skip pages that have not changed since.
type DigestStore interface {
	Lookup(path string) (string, bool)
	Remember(path, digest string) error
}

// FileWatcher keeps HTML files formatted while they change on disk.
type FileWatcher struct {
	patterns  []string
	formatter *review.Formatter
	delay     time.Duration
	logger    *slog.Logger
	onScan    FileScanFunc
	store     DigestStore

	mu      sync.Mutex
	dirty   map[string]struct{}
	digests map[string][32]byte
}

// NewFileWatcher creates a watcher over the files matched by patterns.
func NewFileWatcher(patterns []string, formatter *review.Formatter, delay time.Duration, logger *slog.Logger, onScan FileScanFunc) (*FileWatcher, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	abs := make([]string, 0, len(patterns))
	for _, p := range patterns {
		a, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", p, err)
		}
		abs = append(abs, a)
	}
	return &FileWatcher{
		patterns:  abs,
		formatter: formatter,
		delay:     delay,
		logger:    logger,
		onScan:    onScan,
		dirty:     make(map[string]struct{}),
		digests:   make(map[string][32]byte),
	}, nil
}

// UseStore makes Process consult and update store in addition to the
// in-memory digests. It must be called before Run.
func (w *FileWatcher) UseStore(store DigestStore) {
	w.store = store
}

// Patterns returns the absolute patterns being watched.
func (w *FileWatcher) Patterns() []string {
	return append([]string(nil), w.patterns...)
}

// Matches reports whether path is one of the watched files.
func (w *FileWatcher) Matches(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, p := range w.patterns {
		if ok, _ := doublestar.PathMatch(p, abs); ok {
			return true
		}
	}
	return false
}

// Run formats every matched file once, then reformats changed files after
// each debounced batch of filesystem events until ctx is done.
func (w *FileWatcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	files, err := ExpandPatterns(w.patterns)
	if err != nil {
		return err
	}
	for _, dir := range w.watchDirs(files) {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	for _, f := range files {
		w.processLogged(f)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	debouncer := NewDebouncer(w.delay, func(context.Context) { w.flush() })
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = debouncer.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !w.Matches(ev.Name) {
				continue
			}
			w.markDirty(ev.Name)
			debouncer.Notify()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}

func (w *FileWatcher) watchDirs(files []string) []string {
	set := make(map[string]bool)
	for _, f := range files {
		if abs, err := filepath.Abs(f); err == nil {
			set[filepath.Dir(abs)] = true
		}
	}
	for _, p := range w.patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(p))
		base = filepath.FromSlash(base)
		if info, err := os.Stat(base); err == nil && info.IsDir() {
			set[base] = true
		}
	}
	dirs := make([]string, 0, len(set))
	for d := range set {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

func (w *FileWatcher) markDirty(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	w.dirty[abs] = struct{}{}
	w.mu.Unlock()
}

func (w *FileWatcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.dirty))
	for p := range w.dirty {
		paths = append(paths, p)
	}
	w.dirty = make(map[string]struct{})
	w.mu.Unlock()

	sort.Strings(paths)
	for _, p := range paths {
		w.processLogged(p)
	}
}

func (w *FileWatcher) processLogged(path string) {
	written, err := w.Process(path)
	if err != nil {
		w.logger.Warn("formatting file failed", slog.String("file", path), slog.String("error", err.Error()))
		return
	}
	if written {
		w.logger.Info("formatted file", slog.String("file", path))
	}
}

// Process formats one file in place. Content whose digest matches the last
// version seen or written is skipped, so the watcher's own writes settle.
func (w *FileWatcher) Process(path string) (bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("resolving %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", abs, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", abs, err)
	}
	sum := blake3.Sum256(data)
	w.mu.Lock()
	last, seen := w.digests[abs]
	w.mu.Unlock()
	if seen && last == sum {
		return false, nil
	}
	if !seen && w.store != nil {
		if stored, ok := w.store.Lookup(abs); ok && stored == hex.EncodeToString(sum[:]) {
			w.mu.Lock()
			w.digests[abs] = sum
			w.mu.Unlock()
			return false, nil
		}
	}

	start := time.Now()
	out, res, err := FormatBytes(w.formatter, data)
	if err != nil {
		return false, fmt.Errorf("formatting %s: %w", abs, err)
	}
	if w.onScan != nil {
		w.onScan(abs, res, time.Since(start))
	}

	written := false
	if !bytes.Equal(out, data) {
		if err := os.WriteFile(abs, out, info.Mode().Perm()); err != nil {
			return false, fmt.Errorf("writing %s: %w", abs, err)
		}
		written = true
		sum = blake3.Sum256(out)
	}
	w.mu.Lock()
	w.digests[abs] = sum
	w.mu.Unlock()
	if w.store != nil {
		if err := w.store.Remember(abs, hex.EncodeToString(sum[:])); err != nil {
			w.logger.Warn("recording page digest failed", slog.String("file", abs), slog.String("error", err.Error()))
		}
	}
	return written, nil
}
