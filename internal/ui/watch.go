package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

// Watcher reports changes to one file. It watches the parent directory so
// that replacing the file by rename is seen as well as in-place writes.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	changes chan struct{}
	errs    chan error
	stop    chan struct{}
}

// NewWatcher creates a watcher for path. Call Start to begin watching.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	return &Watcher{
		path:    filepath.Clean(abs),
		watcher: w,
		changes: make(chan struct{}, 1),
		errs:    make(chan error, 1),
		stop:    make(chan struct{}),
	}, nil
}

// Start watches the file's directory until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and releases its resources.
func (w *Watcher) Stop() {
	select {
	case <-w.stop:
		return
	default:
		close(w.stop)
		_ = w.watcher.Close()
	}
}

// Changes delivers a value after the file changed. Bursts are coalesced.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Errors delivers watcher errors. Only the latest unread error is kept.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
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
