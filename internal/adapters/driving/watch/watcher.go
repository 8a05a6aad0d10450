// Package watch re-ingests markdown files as they change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/sherpa-cli/internal/logger"
)

// DefaultDebounce is how long a file must be quiet before it is ingested.
// Editors often emit several writes per save.
const DefaultDebounce = 300 * time.Millisecond

// Result is reported after each ingestion attempt.
type Result struct {
	Path   string
	File   *driving.FileResult
	Err    error
	Source domain.SourceType
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithOnResult registers a callback invoked after each ingested file.
func WithOnResult(fn func(Result)) Option {
	return func(w *Watcher) {
		w.onResult = fn
	}
}

// Watcher ingests created or modified markdown files under a source directory.
type Watcher struct {
	source   domain.Source
	ingest   driving.IngestService
	debounce time.Duration
	onResult func(Result)

	mu      sync.Mutex
	pending map[string]pendingIngest
	seq     uint64
	wg      sync.WaitGroup

	// ingestMu runs ingestions one at a time.
	ingestMu sync.Mutex
}

// pendingIngest is a debounce timer and the generation that scheduled it.
type pendingIngest struct {
	timer *time.Timer
	gen   uint64
}

// New creates a watcher for src.
func New(src domain.Source, ingest driving.IngestService, opts ...Option) *Watcher {
	w := &Watcher{
		source:   src,
		ingest:   ingest,
		debounce: DefaultDebounce,
		pending:  make(map[string]pendingIngest),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled. In-flight ingestions finish before it returns.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.source.Path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.source.Path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, w.source.Path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addDirs(fsw, w.source.Path); err != nil {
		return err
	}
	logger.Info("Watching %s for %s files", w.source.Path, w.source.Type)

	defer w.wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.isNewDir(event) {
				if err := w.addDirs(fsw, event.Name); err != nil {
					logger.Warn("Failed to watch directory %s: %v", event.Name, err)
				}
				continue
			}
			if path, ok := w.handleFsEvent(event); ok {
				w.schedule(ctx, path)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// addDirs watches root and, for recursive sources, every non-hidden subdirectory.
func (w *Watcher) addDirs(fsw *fsnotify.Watcher, root string) error {
	if !w.source.Recursive {
		return fsw.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		logger.Debug("Watching directory %s", path)
		return nil
	})
}

// isNewDir reports whether the event created a directory that should be watched.
func (w *Watcher) isNewDir(event fsnotify.Event) bool {
	if !w.source.Recursive || !event.Has(fsnotify.Create) || isHidden(filepath.Base(event.Name)) {
		return false
	}
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}

// handleFsEvent returns the markdown file an event refers to, if it should be ingested.
// Removals and renames are ignored; stored documents are left in place.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(filepath.Base(event.Name)) {
		return "", false
	}
	if !strings.EqualFold(filepath.Ext(event.Name), ".md") {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	return event.Name, true
}

// schedule (re)starts the debounce timer for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.pending[path]; ok && p.timer.Stop() {
		w.wg.Done()
	}
	w.seq++
	gen := w.seq
	w.wg.Add(1)
	w.pending[path] = pendingIngest{
		timer: time.AfterFunc(w.debounce, func() {
			defer w.wg.Done()
			w.fire(ctx, path, gen)
		}),
		gen: gen,
	}
}

// fire runs when the timer of generation gen expires. A timer that lost the
// race with a reschedule leaves the newer entry in place.
func (w *Watcher) fire(ctx context.Context, path string, gen uint64) {
	w.mu.Lock()
	if p, ok := w.pending[path]; ok && p.gen == gen {
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.ingestMu.Lock()
	defer w.ingestMu.Unlock()
	w.ingestFile(ctx, path)
}

func (w *Watcher) ingestFile(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	res, err := w.ingest.IngestFile(ctx, w.source.Type, path)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("Error processing %s: %v", filepath.Base(path), err)
	}
	if w.onResult != nil {
		w.onResult(Result{Path: path, File: res, Err: err, Source: w.source.Type})
	}
}

// wait stops pending timers and waits for running ingestions.
func (w *Watcher) wait() {
	w.mu.Lock()
	for path, p := range w.pending {
		if p.timer.Stop() {
			w.wg.Done()
		}
		delete(w.pending, path)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

// isHidden reports whether a file or directory name starts with a dot.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
