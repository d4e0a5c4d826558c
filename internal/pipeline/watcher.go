package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/codeloom/codeloom/internal/langs"
)

// Watcher is the minimal, concrete fsnotify instance spec.md §4.9's
// event pipeline needs upstream of it: it recursively watches
// Pipeline.Config.RepoPath, collects event paths until debounce_seconds
// (spec.md §6) pass without a new event (one trailing timer shared by
// all paths), and hands the resulting path set to Pipeline.ApplyBatch.
type Watcher struct {
	pipeline *Pipeline
	fsw      *fsnotify.Watcher
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
}

func NewWatcher(p *Pipeline) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	debounce := time.Duration(p.Config.DebounceSeconds) * time.Second
	if debounce <= 0 {
		debounce = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		pipeline: p,
		fsw:      fsw,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		pending:  make(map[string]bool),
	}, nil
}

// Start adds recursive watches under the repo root and begins
// processing fsnotify events into debounced batches.
func (w *Watcher) Start() error {
	if err := w.addWatches(w.pipeline.Config.RepoPath); err != nil {
		return err
	}
	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop halts the watcher; pending, not-yet-debounced events are
// dropped rather than flushed, matching spec.md §5's "indexing work is
// not cancelled on shutdown" read literally for the watcher itself,
// which is upstream of indexing work, not part of it.
func (w *Watcher) Stop() error {
	w.cancel()
	err := w.fsw.Close()
	w.wg.Wait()
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()
	return err
}

func (w *Watcher) addWatches(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && langs.ShouldIgnoreDir(info.Name(), w.pipeline.Config.IncludeDirs) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if event.Op&fsnotify.Create != 0 {
			if !langs.ShouldIgnoreDir(info.Name(), w.pipeline.Config.IncludeDirs) {
				_ = w.fsw.Add(event.Name)
			}
		}
		return
	}
	w.addEvent(event.Name)
}

func (w *Watcher) addEvent(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.pending[path] {
		w.pending[path] = true
		w.pipeline.Status.AddStale(1)
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	w.pipeline.ApplyBatch(w.ctx, paths)
}
