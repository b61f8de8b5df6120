// Package watcher reports changes to a fixed set of files, coalescing
// bursts of file system events into single batched notifications.
//
// Parent directories are watched rather than the files themselves, so
// editors that save by rename-and-replace do not silently detach the
// watch. Events for untracked files in those directories are dropped.
package watcher

import (
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Common errors returned by watcher operations.
var (
	ErrClosed  = errors.New("watcher is closed")
	ErrNoPaths = errors.New("no paths to watch")
)

// Event is one debounced batch of changes.
type Event struct {
	// Paths are the distinct tracked files that changed, sorted.
	Paths []string

	// Time is when the batch was emitted.
	Time time.Time
}

// Stats provides watcher counters.
type Stats struct {
	// TrackedFiles is the number of files being tracked.
	TrackedFiles int

	// WatchedDirs is the number of directories registered with the
	// underlying notifier.
	WatchedDirs int

	// RawEvents counts relevant file system events seen.
	RawEvents int64

	// Batches counts debounced events delivered.
	Batches int64
}

// Watcher monitors a set of files.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration

	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]bool

	events chan Event
	errs   chan error

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	rawEvents atomic.Int64
	batches   atomic.Int64
}

// New creates a watcher delivering change batches debounced by the
// given window.
func New(debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		events:   make(chan Event, 16),
		errs:     make(chan error, 16),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Add registers files to track. The parent directory of each file is
// watched once, however many of its files are tracked.
func (w *Watcher) Add(paths ...string) error {
	if len(paths) == 0 {
		return ErrNoPaths
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	select {
	case <-w.done:
		return ErrClosed
	default:
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		w.files[abs] = true

		dir := filepath.Dir(abs)
		if w.dirs[dir] {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	return nil
}

// Events returns the channel of debounced change batches. It is
// closed when the watcher closes.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of watcher errors. It is closed when the
// watcher closes.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Stats returns current counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	files, dirs := len(w.files), len(w.dirs)
	w.mu.Unlock()
	return Stats{
		TrackedFiles: files,
		WatchedDirs:  dirs,
		RawEvents:    w.rawEvents.Load(),
		Batches:      w.batches.Load(),
	}
}

// Close stops the watcher. The event and error channels are closed
// after the processing loop drains.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
		close(w.events)
		close(w.errs)
	})
	return err
}

// tracked reports whether a raw event path is one of ours.
func (w *Watcher) tracked(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[filepath.Clean(path)]
}

// relevant keeps the operations that change file content or presence.
// Chmod-only events are noise for rebuild purposes.
const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

func (w *Watcher) loop() {
	defer w.wg.Done()

	pending := make(map[string]bool)
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	arm := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.debounce)
	}

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&relevant == 0 || !w.tracked(ev.Name) {
				continue
			}
			w.rawEvents.Add(1)
			pending[filepath.Clean(ev.Name)] = true
			arm()

		case <-timerC:
			batch := Event{Time: time.Now()}
			for p := range pending {
				batch.Paths = append(batch.Paths, p)
			}
			sort.Strings(batch.Paths)
			pending = make(map[string]bool)
			timer, timerC = nil, nil

			w.batches.Add(1)
			select {
			case w.events <- batch:
			case <-w.done:
				return
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}
