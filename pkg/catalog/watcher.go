package catalog

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher reloads the catalog when its backing file changes on disk.
// Reload failures keep the previous catalog in service.
type Watcher struct {
	catalog  *Catalog
	path     string
	log      *logrus.Logger
	watcher  *fsnotify.Watcher
	onReload func(ok bool, roles int)

	// debounce interval: editors fire multiple events per save
	settle time.Duration
}

// NewWatcher creates a watcher for the given catalog file
func NewWatcher(c *Catalog, path string, log *logrus.Logger) (*Watcher, error) {
	if log == nil {
		log = logrus.New()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		catalog: c,
		path:    path,
		log:     log,
		watcher: fsw,
		settle:  250 * time.Millisecond,
	}, nil
}

// OnReload registers a callback invoked after every reload attempt
// with its outcome and the current catalog size, for metrics export.
// Call before Run.
func (w *Watcher) OnReload(fn func(ok bool, roles int)) {
	w.onReload = fn
}

// Run blocks, reloading the catalog on file changes, until the context
// is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.settle)
			} else {
				timer.Reset(w.settle)
			}
			pending = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("catalog watcher error")

		case <-pending:
			pending = nil
			if err := w.catalog.Reload(w.path); err != nil {
				w.log.WithError(err).WithField("path", w.path).
					Error("catalog reload failed, keeping previous catalog")
				if w.onReload != nil {
					w.onReload(false, w.catalog.Len())
				}
				continue
			}
			if w.onReload != nil {
				w.onReload(true, w.catalog.Len())
			}
			w.log.WithFields(logrus.Fields{
				"path":  w.path,
				"roles": w.catalog.Len(),
			}).Info("catalog reloaded")
		}
	}
}
