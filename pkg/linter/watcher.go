package linter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/siyuan-infoblox/imports-order/pkg/errors"
	"github.com/siyuan-infoblox/imports-order/pkg/utils"
)

// WatcherConfig configures the file watcher
type WatcherConfig struct {
	// Paths are the files and directories to watch; directories recursively
	Paths []string

	// DebounceDelay is how long to wait for more changes before checking
	DebounceDelay time.Duration
}

// Watcher re-checks source files as they change and emits their results
type Watcher struct {
	linter  *Linter
	config  WatcherConfig
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// roots and files restrict events to what was asked for
	roots []string
	files map[string]bool

	// Debouncing: collect changes before processing
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	// Content hashes of checked files, so our own rewrites are not re-checked
	hashMu sync.Mutex
	hashes map[string]string

	events chan FileResult
}

// NewWatcher creates a watcher that checks files with l
func (l *Linter) NewWatcher(config WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errors.ErrMsgFailedToStartWatcher, err)
	}

	if config.DebounceDelay == 0 {
		config.DebounceDelay = 100 * time.Millisecond
	}

	return &Watcher{
		linter:  l,
		config:  config,
		watcher: fsw,
		logger:  l.logger,
		files:   make(map[string]bool),
		pending: make(map[string]fsnotify.Op),
		hashes:  make(map[string]string),
		events:  make(chan FileResult, 100),
	}, nil
}

// Events returns the channel of check results. It is closed once the
// watcher stops.
func (w *Watcher) Events() <-chan FileResult {
	return w.events
}

// Start adds the watches and processes changes until ctx is cancelled or
// Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	for _, path := range w.config.Paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("%s: %w", errors.ErrMsgFailedToCheckPath, err)
		}
		isDir, err := utils.IsDirectory(abs)
		if err != nil {
			return fmt.Errorf("%s: %w", errors.ErrMsgFailedToCheckPath, err)
		}

		if !isDir {
			w.files[abs] = true
			if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
				return fmt.Errorf("%s: %w", errors.ErrMsgFailedToStartWatcher, err)
			}
			continue
		}

		w.roots = append(w.roots, abs)
		if err := w.addWatchesRecursive(abs); err != nil {
			return fmt.Errorf("%s: %w", errors.ErrMsgFailedToStartWatcher, err)
		}
	}

	go w.processEvents(ctx)

	w.logger.Info("File watcher started",
		"paths", w.config.Paths,
		"debounce", w.config.DebounceDelay)

	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// addWatchesRecursive adds watches to all directories that would be searched
// for source files
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		if path != root && utils.IsSkippedDir(filepath.Base(path)) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				"path", path,
				"error", err)
		} else {
			w.logger.Debug("Watching directory", "path", path)
		}

		return nil
	})
}

// processEvents handles fsnotify events with debouncing
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent records a change to a watched source file
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if isDir, err := utils.IsDirectory(path); err == nil && isDir {
			w.handleNewDirectory(path)
			return
		}
	}

	if !w.watched(path) {
		return
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.hashMu.Lock()
		delete(w.hashes, path)
		w.hashMu.Unlock()
	}

	w.pendingMu.Lock()
	w.pending[path] = event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("File change detected",
		"path", path,
		"op", event.Op.String())
}

// watched reports whether path is a source file under a watched root, or a
// file that was named explicitly
func (w *Watcher) watched(path string) bool {
	if w.files[path] {
		return true
	}
	return utils.IsSourceFile(path) && w.underRoot(path)
}

// handleNewDirectory adds watches for a newly created directory tree
func (w *Watcher) handleNewDirectory(path string) {
	if utils.IsSkippedDir(filepath.Base(path)) || !w.underRoot(path) {
		return
	}

	if err := w.addWatchesRecursive(path); err != nil {
		w.logger.Warn("Failed to watch new directory",
			"path", path,
			"error", err)
		return
	}

	// Files may have landed before the watch was in place.
	found, err := utils.FindSourceFiles(path)
	if err != nil {
		return
	}
	w.pendingMu.Lock()
	for _, file := range found {
		w.pending[file] = fsnotify.Create
	}
	w.pendingMu.Unlock()
}

func (w *Watcher) underRoot(path string) bool {
	for _, root := range w.roots {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}

// flushPending checks accumulated changes
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}

	toProcess := make([]string, 0, len(w.pending))
	for path := range w.pending {
		toProcess = append(toProcess, path)
	}
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for _, path := range toProcess {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Removed files have nothing left to check.
		content, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}

		if err == nil && !w.changed(path, content) {
			continue
		}

		result := w.linter.LintFile(ctx, path)

		if after, err := os.ReadFile(path); err == nil {
			w.setHash(path, after)
		}

		w.sendEvent(ctx, result)
	}
}

// changed reports whether content differs from what was last checked
func (w *Watcher) changed(path string, content []byte) bool {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	old, ok := w.hashes[path]
	return !ok || old != hash(content)
}

func (w *Watcher) setHash(path string, content []byte) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[path] = hash(content)
}

func hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// sendEvent delivers a result, blocking until it is read or ctx is done
func (w *Watcher) sendEvent(ctx context.Context, result FileResult) {
	select {
	case w.events <- result:
		w.logger.Debug("Sent watch result",
			"path", result.Path,
			"violations", len(result.Violations))
	case <-ctx.Done():
	}
}
