package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
)

// inboxSettleDelay is how long a file must sit unchanged before it is
// picked up. Copies into the inbox arrive as a Create followed by a burst
// of Writes; importing too early reads a truncated payload.
const inboxSettleDelay = 2 * time.Second

// InboxWatcher watches a drop directory and imports audio files placed
// into it. Imported files are removed from the inbox on success.
type InboxWatcher struct {
	dir      string
	importer Importer
	logger   hclog.Logger

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewInboxWatcher creates a watcher for the given directory. The directory
// is created if it does not exist.
func NewInboxWatcher(dir string, importer Importer, logger hclog.Logger) (*InboxWatcher, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	return &InboxWatcher{
		dir:      dir,
		importer: importer,
		logger:   logger.Named("inbox"),
		watcher:  fw,
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Start begins processing filesystem events until Stop is called
func (w *InboxWatcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	// Pick up anything already sitting in the inbox from a previous run
	w.sweepExisting()

	w.wg.Add(1)
	go w.run(ctx)

	w.logger.Info("watching inbox", "dir", w.dir)
}

// Stop shuts the watcher down and waits for in-flight imports
func (w *InboxWatcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.watcher.Close()
	w.wg.Wait()
}

func (w *InboxWatcher) run(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.schedule(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "error", err)
		}
	}
}

// schedule (re)arms the settle timer for a path. Every Write pushes the
// import further out so partially copied files are never read.
func (w *InboxWatcher) schedule(path string) {
	if !isAudioExt(filepath.Ext(path)) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(inboxSettleDelay)
		return
	}
	w.pending[path] = time.AfterFunc(inboxSettleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.importAndRemove(path)
	})
}

func (w *InboxWatcher) sweepExisting() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("cannot sweep inbox", "error", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.schedule(filepath.Join(w.dir, entry.Name()))
	}
}

func (w *InboxWatcher) importAndRemove(path string) {
	if _, err := os.Stat(path); err != nil {
		return // removed before the timer fired
	}

	if err := w.importer.ImportFile(path, ""); err != nil {
		w.logger.Warn("inbox import failed", "path", path, "error", err)
		return
	}

	if err := os.Remove(path); err != nil {
		w.logger.Warn("cannot remove imported file", "path", path, "error", err)
	}
	w.logger.Info("imported from inbox", "file", filepath.Base(path))
}
