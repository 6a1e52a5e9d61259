package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/albertocavalcante/srcheaders/cmd/javaheaders/internal/scan"
	"github.com/albertocavalcante/srcheaders/internal/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

// Change is a header change of one file.
type Change struct {
	Path    string `json:"path"`
	Header  string `json:"header"`
	Digest  string `json:"digest,omitempty"`
	Removed bool   `json:"removed,omitempty"`
}

// Config configures the watcher.
type Config struct {
	Scanner  *scan.Scanner
	Debounce time.Duration

	// OnChange receives every header change, in path order within a batch.
	OnChange func(Change)

	// OnReady is called once the initial scan is done and the tree is watched.
	OnReady func(files int)
}

// Watcher watches a source tree and reports files whose header changed.
type Watcher struct {
	config    Config
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	logger    *slog.Logger

	// processMu serialises batches so changes are reported in the order
	// their digests are recorded.
	processMu sync.Mutex

	mu      sync.Mutex
	digests map[string]string // relative path -> header digest
}

// New creates a watcher. Run starts it.
func New(cfg Config) (*Watcher, error) {
	if cfg.Scanner == nil {
		return nil, errors.New("watch: scanner is required")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		config:    cfg,
		fsWatcher: fsWatcher,
		logger:    log.Component("watch"),
		digests:   make(map[string]string),
	}, nil
}

// Run seeds the header index, then processes events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsWatcher.Close() }()

	window := w.config.Debounce
	if window <= 0 {
		window = DefaultDebounce
	}
	w.debouncer = NewDebouncer(window, w.process)
	defer w.debouncer.Stop()

	results, err := w.config.Scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("initial scan failed: %w", err)
	}
	w.mu.Lock()
	for _, r := range results {
		w.digests[r.Path] = r.Digest
	}
	w.mu.Unlock()

	if err := w.addRecursive(w.config.Scanner.Root()); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.config.Scanner.Root(), err)
	}

	if w.config.OnReady != nil {
		w.config.OnReady(len(results))
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				w.logger.Debug("permission denied", "path", path)
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.config.Scanner.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			if isWatchLimitError(err) {
				return fmt.Errorf("inotify watch limit reached for %s: %w\n"+
					"Increase limit with: sudo sysctl fs.inotify.max_user_watches=524288", path, err)
			}
			w.logger.Debug("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func isWatchLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no space left on device") ||
		strings.Contains(msg, "too many open files")
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	root := w.config.Scanner.Root()

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if w.config.Scanner.SkipDir(filepath.Base(path)) {
				return
			}
			if err := w.addRecursive(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			// Files created together with the directory produce no events.
			_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
				if err == nil && !d.IsDir() {
					w.enqueue(root, p)
				}
				return nil
			})
			return
		}
	}

	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}
	w.enqueue(root, path)
}

func (w *Watcher) enqueue(root, path string) {
	rel, err := filepath.Rel(root, path)
	if err != nil || !w.config.Scanner.Matches(rel) {
		return
	}
	w.debouncer.Add(rel)
}

// process re-extracts the given files and reports header changes. Timer and
// overflow flushes call it from different goroutines.
func (w *Watcher) process(paths []string) {
	w.processMu.Lock()
	defer w.processMu.Unlock()

	for _, rel := range paths {
		change, changed := w.check(rel)
		if changed && w.config.OnChange != nil {
			w.config.OnChange(change)
		}
	}
}

func (w *Watcher) check(rel string) (Change, bool) {
	key := filepath.ToSlash(rel)

	res, err := w.config.Scanner.ExtractFile(rel)

	w.mu.Lock()
	defer w.mu.Unlock()

	prev, known := w.digests[key]
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			w.logger.Warn("failed to extract header", "file", key, "error", err)
			return Change{}, false
		}
		if !known {
			return Change{}, false
		}
		delete(w.digests, key)
		return Change{Path: key, Digest: prev, Removed: true}, true
	}

	w.digests[key] = res.Digest
	if known && prev == res.Digest {
		return Change{}, false
	}
	return Change{Path: res.Path, Header: res.Header, Digest: res.Digest}, true
}
