package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/kexdocs/internal/logfields"
)

// BuildFunc runs one documentation build.
type BuildFunc func(ctx context.Context) error

// Watcher rebuilds on input changes until its context is canceled.
type Watcher struct {
	roots    []Root
	filter   *Filter
	debounce time.Duration
	build    BuildFunc
	updates  chan watchSet
}

type watchSet struct {
	roots  []Root
	filter *Filter
}

// New creates a Watcher over roots.
func New(roots []Root, filter *Filter, debounce time.Duration, build BuildFunc) *Watcher {
	return &Watcher{
		roots:    roots,
		filter:   filter,
		debounce: debounce,
		build:    build,
		updates:  make(chan watchSet, 1),
	}
}

// Update replaces the watched roots and the filter, typically after the
// configuration was reloaded. Only the latest pending update is applied. It never
// blocks and is safe to call from the build function.
func (w *Watcher) Update(roots []Root, filter *Filter) {
	set := watchSet{roots: roots, filter: filter}
	for {
		select {
		case w.updates <- set:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}

// Run performs an initial build, then rebuilds on every debounced change.
// Build failures are logged; Run only returns on cancellation or when the
// file watcher cannot be set up.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()

	for _, r := range w.roots {
		w.addRoot(fw, r)
	}

	rebuildReq := make(chan struct{}, 1)
	request := func() {
		select {
		case rebuildReq <- struct{}{}:
		default:
			// a build is already queued
		}
	}
	deb := newDebouncer(w.debounce, request)
	defer deb.stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.buildLoop(ctx, rebuildReq)
	}()
	request()

	slog.Info("Watching for changes", slog.Int("roots", len(w.roots)), slog.Duration("debounce", w.debounce))
	err = w.eventLoop(ctx, fw, deb.trigger)
	wg.Wait()
	return err
}

func (w *Watcher) buildLoop(ctx context.Context, rebuildReq <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			if err := w.build(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.Warn("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

func (w *Watcher) eventLoop(ctx context.Context, fw *fsnotify.Watcher, trigger func()) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case set := <-w.updates:
			w.apply(fw, set)
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.filter.Ignored(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() && w.recursiveParent(ev.Name) {
					w.addRoot(fw, Root{Dir: ev.Name, Recursive: true})
				}
			}
			slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			trigger()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// apply swaps in a new watch set when it differs from the current one.
func (w *Watcher) apply(fw *fsnotify.Watcher, set watchSet) {
	if slices.Equal(set.roots, w.roots) && w.filter.equal(set.filter) {
		return
	}
	for _, p := range fw.WatchList() {
		_ = fw.Remove(p)
	}
	w.roots, w.filter = set.roots, set.filter
	for _, r := range w.roots {
		w.addRoot(fw, r)
	}
	slog.Info("Watch roots updated", slog.Int("roots", len(w.roots)))
}

// recursiveParent reports whether dir lies under a recursively watched root.
func (w *Watcher) recursiveParent(dir string) bool {
	for _, r := range w.roots {
		if !r.Recursive {
			continue
		}
		rel, err := filepath.Rel(r.Dir, dir)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) addRoot(fw *fsnotify.Watcher, r Root) {
	if !r.Recursive {
		if err := fw.Add(r.Dir); err != nil {
			slog.Debug("Watch add failed", logfields.Path(r.Dir), logfields.Error(err))
		}
		return
	}
	_ = filepath.WalkDir(r.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != r.Dir && w.filter.Ignored(path) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// debouncer calls fire once no trigger arrived for the configured delay.
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	fire  func()
	timer *time.Timer
}

func newDebouncer(delay time.Duration, fire func()) *debouncer {
	return &debouncer{delay: delay, fire: fire}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
