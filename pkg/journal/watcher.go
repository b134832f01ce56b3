package journal

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher watches the journal directory and reports which days changed.
// Events are debounced so a burst of writes produces one callback.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger
	onDirty  func(date string)
	debounce time.Duration
	timers   map[string]*time.Timer
	stopCh   chan struct{}
}

// NewWatcher creates a journal watcher. onDirty receives the YYYY-MM-DD of
// each changed day.
func NewWatcher(logger zerolog.Logger, onDirty func(date string)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  watcher,
		logger:   logger,
		onDirty:  onDirty,
		debounce: 500 * time.Millisecond,
		timers:   make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
	}

	go w.run()

	return w, nil
}

// Watch starts watching a directory. Month subdirectories must be added as
// they appear; Watch is also called for those.
func (w *Watcher) Watch(path string) error {
	return w.watcher.Add(path)
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	return w.watcher.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// New month directory: start watching it
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.watcher.Add(event.Name); err != nil {
						w.logger.Warn().Err(err).Str("dir", event.Name).Msg("Failed to watch new journal directory")
					}
					continue
				}
			}

			if !strings.HasSuffix(strings.ToLower(event.Name), ".md") {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				date := strings.TrimSuffix(filepath.Base(event.Name), ".md")
				if _, err := time.Parse("2006-01-02", date); err != nil {
					continue
				}

				w.logger.Debug().Str("date", date).Str("op", event.Op.String()).Msg("Journal change detected")
				w.scheduleDirty(date)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("Journal watcher error")

		case <-w.stopCh:
			return
		}
	}
}

// scheduleDirty debounces per day.
func (w *Watcher) scheduleDirty(date string) {
	if t, ok := w.timers[date]; ok {
		t.Stop()
	}
	w.timers[date] = time.AfterFunc(w.debounce, func() {
		w.onDirty(date)
	})
}
