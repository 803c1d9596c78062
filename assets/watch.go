package assets

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long a directory has to be quiet before it is reloaded, editors usually write a
// file several times.
const debounce = 100 * time.Millisecond

// Watcher reports changed launch asset files in a set of directories.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher starts watching dirs.
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isAssetFile(event.Name) {
				continue
			}
			// A full buffer already has a change pending for the consumer.
			select {
			case w.Events <- event.Name:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func isAssetFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Watch reloads the library from dir whenever one of its asset files changes. A reload that fails
// is logged and the previous launches stay in place. Closing the returned watcher stops reloading.
func (l *Library) Watch(dir string) (*Watcher, error) {
	w, err := NewWatcher(dir)
	if err != nil {
		return nil, err
	}
	go func() {
		reload := time.NewTimer(debounce)
		reload.Stop()
		defer reload.Stop()

		var last string
		for {
			select {
			case name, ok := <-w.Events:
				if !ok {
					return
				}
				last = name
				reload.Reset(debounce)
			case <-reload.C:
				if err := l.LoadDir(dir); err != nil {
					l.log.WithField("file", last).Errorf("reload launch assets: %v", err)
					continue
				}
				l.log.WithField("file", last).Info("reloaded launch assets")
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.log.Errorf("watch launch assets: %v", err)
			}
		}
	}()
	return w, nil
}
