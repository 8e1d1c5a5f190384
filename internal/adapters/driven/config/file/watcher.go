package file

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/serplot/internal/logger"
)

// Watcher reloads a ConfigStore whenever its file is written or replaced.
//
// The parent directory is watched rather than the file itself, so editors
// that save by renaming a temporary file over the original are still seen.
type Watcher struct {
	store    *ConfigStore
	onChange func()
	watcher  *fsnotify.Watcher

	closeOnce sync.Once
	done      chan struct{}
}

// NewWatcher starts watching store's file.
// onChange runs on the watcher goroutine after each successful reload and may
// be nil.
func NewWatcher(store *ConfigStore, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(store.Path())); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		store:    store,
		onChange: onChange,
		watcher:  fw,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if err := w.store.Load(); err != nil {
				logger.Warn("config: reload %s: %v", w.store.Path(), err)
				continue
			}
			logger.Debug("config: reloaded %s", w.store.Path())
			if w.onChange != nil {
				w.onChange()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("config: watch error: %v", err)
		}
	}
}

// relevant reports whether event changed the config file's content.
// Removals are ignored so the last good configuration stays in effect.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.store.Path()) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// Close stops watching and waits for the watcher goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
		<-w.done
	})
	return err
}
