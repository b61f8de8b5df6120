package app

import (
	"context"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/juju/errors"

	"github.com/dshills/loom/internal/watcher"
)

// Watch builds once, then rebuilds whenever a source file changes,
// until the context is cancelled. Rebuild failures are logged and
// watching continues; only the initial build is fatal.
func (a *App) Watch(ctx context.Context) error {
	if a.opts.Output == "" || a.opts.Output == "-" {
		return errors.Errorf("watch mode needs an output file, not stdout")
	}

	log := a.log.WithComponent("watch")

	rep, err := a.buildOnce(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	log.Info("wrote %s: %s in %s",
		a.opts.Output,
		humanize.IBytes(uint64(rep.Result.Written)),
		rep.Elapsed.Round(time.Millisecond))

	w, err := watcher.New(time.Duration(a.cfg.Watch.DebounceMS) * time.Millisecond)
	if err != nil {
		return errors.Annotatef(err, "starting watcher")
	}
	defer w.Close()

	if err := w.Add(rep.Sources...); err != nil {
		return errors.Annotatef(err, "watching sources")
	}
	log.Info("watching %d files", len(rep.Sources))

	for {
		select {
		case <-ctx.Done():
			log.Info("stopping")
			return nil

		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			jlog := log.WithField("job", uuid.NewString()[:8])
			jlog.Debug("changed: %v", ev.Paths)

			rep, err := a.buildOnce(ctx)
			if err != nil {
				jlog.Error("build failed: %v", err)
				continue
			}

			// Globs can match files that did not exist at startup.
			// Adding is idempotent per directory, so re-adding the
			// current source list is cheap.
			if err := w.Add(rep.Sources...); err != nil {
				jlog.Warn("updating watch list: %v", err)
			}

			jlog.Info("rebuilt %s: %s in %s",
				a.opts.Output,
				humanize.IBytes(uint64(rep.Result.Written)),
				rep.Elapsed.Round(time.Millisecond))

		case werr, ok := <-w.Errors():
			if !ok {
				return nil
			}
			log.Warn("watch error: %v", werr)
		}
	}
}
