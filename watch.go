package liberyacs

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/tronglh241/liberyacs/errs"
	"github.com/tronglh241/liberyacs/node"
)

// Update carries the result of re-loading a watched configuration file.
type Update struct {
	Config *node.Node
	Err    error
}

// Watch re-loads and re-evaluates the configuration file whenever it
// changes, delivering each result on the returned channel. The channel is
// closed when ctx is done.
//
// The file's directory is watched rather than the file itself, so editors
// that replace files on save still trigger updates.
func Watch(
	ctx context.Context,
	path string,
	opts ...Option,
) (<-chan Update, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errs.ErrLoad.Wrap(err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()

		return nil, errs.ErrLoad.Wrap(err).
			With(slog.String("file", path))
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()

		return nil, errs.ErrLoad.Wrap(err).
			With(slog.String("file", path))
	}

	o := makeOptions(opts...)
	logger := o.logger()

	updates := make(chan Update, 1)

	go func() {
		defer close(updates)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if !relevant(event, abs) {
					continue
				}

				logger.Debug("configuration changed",
					slog.String("file", abs),
					slog.String("op", event.Op.String()),
				)

				cfg, err := Load(abs, opts...)

				select {
				case updates <- Update{Config: cfg, Err: err}:
				case <-ctx.Done():
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}

				select {
				case updates <- Update{
					Err: errs.ErrLoad.Wrap(err),
				}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return updates, nil
}

func relevant(event fsnotify.Event, abs string) bool {
	if event.Name != abs {
		return false
	}

	return event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Rename)
}
