package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/johns/time-spectrum/internal/archive"
)

// DefaultDebounce is used when a non-positive debounce is configured.
const DefaultDebounce = 500 * time.Millisecond

// Handler processes one settled classifier output file. date is the
// file's YYYY-MM-DD name prefix, or today when the name carries none.
type Handler func(ctx context.Context, path, date string) error

// Watcher feeds *.json files dropped into an inbox directory to a Handler.
// Each file is handed over once its events have been quiet for the
// debounce interval, so half-written files are not read.
type Watcher struct {
	dir      string
	debounce time.Duration
	handle   Handler
	log      *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	pending map[string]time.Time
}

// New creates a Watcher on dir. A nil logger discards output.
func New(dir string, debounce time.Duration, handle Handler, log *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		handle:   handle,
		log:      log,
		now:      time.Now,
		pending:  make(map[string]time.Time),
	}
}

// Dir returns the watched inbox directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Backlog hands every *.json file already in the inbox to the handler,
// oldest name first. Handler errors are logged and counted, not returned.
func (w *Watcher) Backlog(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(w.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read inbox: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && isCandidate(e.Name()) {
			paths = append(paths, filepath.Join(w.dir, e.Name()))
		}
	}
	sort.Strings(paths)

	failed := 0
	for _, p := range paths {
		if !w.process(ctx, p) {
			failed++
		}
	}
	return failed, nil
}

// Run watches the inbox until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create inbox: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.log.Info("watching inbox", zap.String("dir", w.dir), zap.Duration("debounce", w.debounce))

	tick := w.debounce / 5
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("inbox watcher stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.observe(event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watcher error", zap.Error(err))

		case <-ticker.C:
			for _, p := range w.settled() {
				w.process(ctx, p)
			}
		}
	}
}

func (w *Watcher) observe(event fsnotify.Event) {
	if !isCandidate(event.Name) {
		return
	}
	switch {
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		w.mu.Lock()
		w.pending[event.Name] = w.now()
		w.mu.Unlock()
		w.log.Debug("inbox event", zap.String("path", event.Name), zap.Stringer("op", event.Op))
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.mu.Lock()
		delete(w.pending, event.Name)
		w.mu.Unlock()
	}
}

// settled removes and returns the pending paths quiet for the debounce interval.
func (w *Watcher) settled() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	var ready []string
	for p, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, p)
			delete(w.pending, p)
		}
	}
	sort.Strings(ready)
	return ready
}

func (w *Watcher) process(ctx context.Context, path string) bool {
	if _, err := os.Stat(path); err != nil {
		w.log.Debug("inbox file gone before processing", zap.String("path", path))
		return true
	}

	date := archive.DateFromName(path)
	if date == "" {
		date = w.now().Format("2006-01-02")
	}

	if err := w.handle(ctx, path, date); err != nil {
		w.log.Error("process inbox file",
			zap.String("path", path),
			zap.String("date", date),
			zap.Error(err))
		return false
	}
	w.log.Info("processed inbox file", zap.String("path", path), zap.String("date", date))
	return true
}

func isCandidate(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, ".json") && !strings.HasPrefix(base, ".")
}
