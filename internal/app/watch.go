package app

import (
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 250 * time.Millisecond

// SnapshotWatcher reloads snapshot files when they change on disk.
// Detector pipelines rewrite the prediction snapshot on every cycle, so
// writes are debounced and partially-written files simply fail the
// decode and keep the previous snapshot.
type SnapshotWatcher struct {
	state   *State
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	timers  map[string]*time.Timer
	watched map[string]bool

	done chan struct{}
}

// NewSnapshotWatcher starts watching the state's current snapshot paths
// and re-syncs the watch set whenever a load changes them.
func NewSnapshotWatcher(state *State) (*SnapshotWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &SnapshotWatcher{
		state:   state,
		watcher: fw,
		timers:  make(map[string]*time.Timer),
		watched: make(map[string]bool),
		done:    make(chan struct{}),
	}

	w.sync()
	resync := func(interface{}) { w.sync() }
	state.On(EventNetworkLoaded, resync)
	state.On(EventNetworkReloaded, resync)
	state.On(EventOverlaysChanged, resync)
	state.On(EventSessionLoaded, resync)

	go w.run()
	return w, nil
}

// sync brings the fsnotify watch set in line with the state's paths.
func (w *SnapshotWatcher) sync() {
	w.mu.Lock()
	defer w.mu.Unlock()

	want := make(map[string]bool)
	for _, p := range w.state.WatchedPaths() {
		want[p] = true
	}

	for p := range w.watched {
		if !want[p] {
			_ = w.watcher.Remove(p)
			delete(w.watched, p)
		}
	}
	for p := range want {
		if !w.watched[p] {
			if err := w.watcher.Add(p); err != nil {
				log.Printf("watch %s: %v", p, err)
				continue
			}
			w.watched[p] = true
		}
	}
}

func (w *SnapshotWatcher) run() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule(ev.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("snapshot watcher: %v", err)
		case <-w.done:
			return
		}
	}
}

// schedule debounces reloads per path.
func (w *SnapshotWatcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(reloadDebounce)
		return
	}
	w.timers[path] = time.AfterFunc(reloadDebounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		if err := w.state.ReloadPath(path); err != nil {
			log.Printf("reload %s: %v", path, err)
		}
	})
}

// Close stops the watcher.
func (w *SnapshotWatcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
