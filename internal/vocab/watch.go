// internal/vocab/watch.go
//
// Optional hot reload of the puzzle data file. When the payload on disk
// changes, the file is re-parsed and the new table handed to the caller,
// which swaps it in atomically. In-flight requests keep the table they
// started with.

package vocab

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch monitors path and invokes onReload with a freshly loaded table
// after each write. Parse failures are logged and skipped; the previous
// table stays in effect. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, onReload func(*Table)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory, not the file: editors and atomic writers
	// replace the file, which drops a direct watch.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			t, err := Load(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("puzzle data reload failed, keeping previous table")
				continue
			}
			log.Info().Int("words", t.Len()).Int("dim", t.Dim()).Msg("puzzle data reloaded")
			onReload(t)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("puzzle data watcher error")
		}
	}
}
