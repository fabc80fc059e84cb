// Package watch reports changes to Quill source files using OS-native
// notifications.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op describes a set of file operations.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Event is a single change notification.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Watcher wraps fsnotify, forwarding only events whose path passes match.
type Watcher struct {
	w     *fsnotify.Watcher
	match func(path string) bool
	evC   chan Event
	erC   chan error

	done      chan struct{}
	closeOnce sync.Once
}

// New creates a watcher. A nil match accepts every path.
func New(match func(path string) bool) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if match == nil {
		match = func(string) bool { return true }
	}

	fw := &Watcher{
		w:     w,
		match: match,
		evC:   make(chan Event, 128),
		erC:   make(chan error, 1),
		done:  make(chan struct{}),
	}
	go fw.loop()
	return fw, nil
}

// SourceFiles matches paths with the .ql extension.
func SourceFiles(path string) bool {
	return filepath.Ext(path) == ".ql"
}

// SameFile returns a matcher for one file, compared after cleaning.
func SameFile(name string) func(string) bool {
	want := filepath.Clean(name)
	return func(path string) bool {
		return filepath.Clean(path) == want
	}
}

func (fw *Watcher) loop() {
	defer close(fw.evC)

	for {
		select {
		case <-fw.done:
			return
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if !fw.match(ev.Name) {
				continue
			}
			select {
			case fw.evC <- Event{Path: ev.Name, Op: convertOp(ev.Op), Time: time.Now()}:
			case <-fw.done:
				return
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			// keep the first unread error
			select {
			case fw.erC <- err:
			default:
			}
		}
	}
}

func convertOp(in fsnotify.Op) Op {
	var op Op
	if in&fsnotify.Create != 0 {
		op |= OpCreate
	}
	if in&fsnotify.Write != 0 {
		op |= OpWrite
	}
	if in&fsnotify.Remove != 0 {
		op |= OpRemove
	}
	if in&fsnotify.Rename != 0 {
		op |= OpRename
	}
	if in&fsnotify.Chmod != 0 {
		op |= OpChmod
	}
	return op
}

func (fw *Watcher) Events() <-chan Event  { return fw.evC }
func (fw *Watcher) Errors() <-chan error  { return fw.erC }
func (fw *Watcher) Add(name string) error { return fw.w.Add(name) }

// Close stops the watcher. The Events channel is closed once the forwarding
// goroutine exits.
func (fw *Watcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		close(fw.done)
		err = fw.w.Close()
	})
	return err
}

// Run collects events and calls fn with the changed paths once no new event
// has arrived for the debounce interval. It returns when ctx is done, the
// watcher is closed, or the underlying watcher reports an error.
func (fw *Watcher) Run(ctx context.Context, debounce time.Duration, fn func(changed []string)) error {
	pending := make(map[string]struct{})

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events():
			if !ok {
				return nil
			}
			pending[ev.Path] = struct{}{}
			timer.Reset(debounce)

		case err := <-fw.Errors():
			return err

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			sort.Strings(changed)
			pending = make(map[string]struct{})

			fn(changed)
		}
	}
}
