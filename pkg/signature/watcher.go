package signature

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// CatalogWatcher watches a signature catalog file and reloads it into a
// Database when the file changes. Reloads go through the database's atomic
// replace, so a half-written or invalid catalog never corrupts the in-memory
// state. Rapid successive writes are debounced into a single reload.
type CatalogWatcher struct {
	db      *Database
	path    string
	watcher *fsnotify.Watcher

	debounceDelay time.Duration
	logger        zerolog.Logger

	mu            sync.Mutex
	debounceTimer *time.Timer
}

// NewCatalogWatcher creates a watcher for the catalog at path backing db.
func NewCatalogWatcher(db *Database, path string, logger zerolog.Logger) (*CatalogWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &CatalogWatcher{
		db:            db,
		path:          path,
		watcher:       watcher,
		debounceDelay: 100 * time.Millisecond,
		logger:        logger.With().Str("component", "signature.watcher").Logger(),
	}, nil
}

// Start begins watching the catalog file. It blocks until the context is
// canceled and is meant to run in its own goroutine:
//
//	go watcher.Start(ctx)
func (w *CatalogWatcher) Start(ctx context.Context) error {
	// fsnotify watches directories, not files
	catalogDir := filepath.Dir(w.path)
	catalogFile := filepath.Base(w.path)

	if err := w.watcher.Add(catalogDir); err != nil {
		w.logger.Error().Err(err).Str("dir", catalogDir).Msg("failed to watch catalog directory")
		return err
	}

	w.logger.Info().Str("file", w.path).Dur("debounce", w.debounceDelay).Msg("started watching signature catalog")

	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn().Err(err).Msg("error closing watcher")
		}
		w.logger.Info().Msg("stopped watching signature catalog")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != catalogFile {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				w.logger.Debug().Str("op", event.Op.String()).Str("file", event.Name).Msg("detected catalog change")
				w.scheduleReload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// scheduleReload arms the debounce timer, resetting any pending reload.
func (w *CatalogWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		if err := w.db.LoadFile(w.path); err != nil {
			w.logger.Error().Err(err).Msg("failed to reload signature catalog")
		} else {
			w.logger.Info().Int("signatures", w.db.Len()).Msg("signature catalog reloaded")
		}
	})
}

// Close stops the watcher and releases resources.
func (w *CatalogWatcher) Close() error {
	return w.watcher.Close()
}
