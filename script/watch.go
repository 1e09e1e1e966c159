package script

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounce = 100 * time.Millisecond

// Watcher reports changes to a fixed set of files. It watches their parent
// directories so that editors replacing files by rename are still seen.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	log     *zap.Logger

	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches the given files.
func NewWatcher(log *zap.Logger, files ...string) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		set[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		files:   set,
		log:     log,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and closes Events and Errors.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.files[name] {
				continue
			}
			now := time.Now()
			if t, ok := last[name]; ok && now.Sub(t) < debounce {
				continue
			}
			last[name] = now
			w.log.Debug("file changed", zap.String("path", name), zap.Stringer("op", event.Op))
			select {
			case w.Events <- name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				w.log.Warn("dropped watcher error", zap.Error(err))
			}
		case <-w.closeCh:
			return
		}
	}
}

// Drain returns the changed files reported since the last call without
// blocking.
func (w *Watcher) Drain() []string {
	var changed []string
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return changed
			}
			changed = append(changed, name)
		default:
			return changed
		}
	}
}
