// Package watch implements a filesystem watcher over
// .git/{refs,logs,worktrees} that debounces bursts of ref/index churn into
// a single refresh signal, one of the producers feeding the event queue.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/chmouel/gitstage/internal/log"
)

// Debounce is the minimum interval between two consecutive signals.
const Debounce = 600 * time.Millisecond

// CommonDirResolver resolves a repository's git common directory (the
// shared .git directory across worktrees).
type CommonDirResolver interface {
	Run(ctx context.Context, cwd string, okExit []int, args ...string) (string, error)
}

// Watcher signals Events whenever it observes a ref/log/worktree change,
// debounced to Debounce.
type Watcher struct {
	mu          sync.Mutex
	paths       map[string]struct{}
	roots       []string
	lastSignal  time.Time
	fsw         *fsnotify.Watcher
	Events      chan struct{}
	done        chan struct{}
}

// Start resolves the git common directory via resolver, opens an fsnotify
// watcher over its refs/logs/worktrees subtrees, and starts the
// background pump. Returns nil, nil if the common dir could not be
// resolved (e.g. cwd is not a git repository) rather than erroring, since
// the rest of the application still functions without live-reload.
func Start(ctx context.Context, resolver CommonDirResolver, cwd string) (*Watcher, error) {
	commonDir := resolveCommonDir(ctx, resolver, cwd)
	if commonDir == "" {
		return nil, nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		paths:  make(map[string]struct{}),
		fsw:    fsw,
		Events: make(chan struct{}, 1),
		done:   make(chan struct{}),
		roots: []string{
			filepath.Join(commonDir, "refs"),
			filepath.Join(commonDir, "logs"),
			filepath.Join(commonDir, "worktrees"),
		},
	}
	w.addDir(commonDir)
	for _, root := range w.roots {
		w.addTree(root)
	}

	go w.run()
	return w, nil
}

// Stop closes the watcher and its background goroutine.
func (w *Watcher) Stop() {
	if w == nil {
		return
	}
	close(w.done)
	_ = w.fsw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.maybeWatchNewDir(event.Name)
			}
			w.signal()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watch: fsnotify error: %v", err)
		}
	}
}

func (w *Watcher) signal() {
	w.mu.Lock()
	now := time.Now()
	if !w.lastSignal.IsZero() && now.Sub(w.lastSignal) < Debounce {
		w.mu.Unlock()
		return
	}
	w.lastSignal = now
	w.mu.Unlock()

	select {
	case w.Events <- struct{}{}:
	default:
	}
}

func (w *Watcher) maybeWatchNewDir(path string) {
	if !w.isUnderRoot(path) {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	w.addDir(path)
}

func (w *Watcher) isUnderRoot(path string) bool {
	for _, root := range w.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) addDir(path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.paths[path]; ok {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		log.Printf("watch: add failed for %s: %v", path, err)
		return
	}
	w.paths[path] = struct{}{}
}

func (w *Watcher) addTree(root string) {
	if root == "" {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		w.addDir(path)
		return nil
	})
}

func resolveCommonDir(ctx context.Context, resolver CommonDirResolver, cwd string) string {
	if resolver == nil {
		return ""
	}
	out, err := resolver.Run(ctx, cwd, []int{0}, "rev-parse", "--git-common-dir")
	if err != nil {
		return ""
	}
	commonDir := strings.TrimSpace(out)
	if commonDir == "" {
		return ""
	}
	if filepath.IsAbs(commonDir) {
		return commonDir
	}

	root, err := resolver.Run(ctx, cwd, []int{0}, "rev-parse", "--show-toplevel")
	if err == nil {
		if root = strings.TrimSpace(root); root != "" {
			return filepath.Join(root, commonDir)
		}
	}
	if abs, err := filepath.Abs(commonDir); err == nil {
		return abs
	}
	return commonDir
}
