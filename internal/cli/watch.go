package cli

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/mcdata/pkg/datapack"
	"github.com/aretw0/mcdata/pkg/ports"
)

// DefaultDebounce groups bursts of file events into one reload.
const DefaultDebounce = 100 * time.Millisecond

// Reloader rescans a root.
type Reloader interface {
	ReloadRoot(ctx context.Context, fsys fs.FS, scope datapack.RootID) (datapack.Root, error)
}

// WatchLoop reloads a root each time its watcher reports a change.
type WatchLoop struct {
	Workspace Reloader
	Logger    *slog.Logger
	Debounce  time.Duration
	// FS opens the root directory. Defaults to os.DirFS.
	FS func(path string) fs.FS
	// OnReload runs after every successful reload with the last changed document.
	OnReload func(root datapack.Root, changed string)
}

// Run blocks until ctx is done or the watcher stops.
func (l *WatchLoop) Run(ctx context.Context, root datapack.Root, src ports.Watchable) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	open := l.FS
	if open == nil {
		open = os.DirFS
	}

	events, err := src.Watch(ctx)
	if err != nil {
		return err
	}
	logger.Info("Starting Watcher", "root", root.Path, "scope", int(root.ID))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case changed, ok := <-events:
			if !ok {
				return nil
			}
			changed, ok = l.drain(ctx, events, changed)
			if ctx.Err() != nil {
				return ctx.Err()
			}

			logger.Info("Change detected, triggering reload", "root", root.Path, "event", changed)
			next, err := l.Workspace.ReloadRoot(ctx, open(root.Path), root.ID)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				logger.Error("Reload failed", "root", root.Path, "err", err)
			} else if l.OnReload != nil {
				l.OnReload(next, changed)
			}
			if !ok {
				return nil
			}
		}
	}
}

// drain swallows events until the debounce window passes without one. It
// returns the last event and whether the channel is still open.
func (l *WatchLoop) drain(ctx context.Context, events <-chan string, last string) (string, bool) {
	d := l.Debounce
	if d <= 0 {
		d = DefaultDebounce
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return last, true
		case <-timer.C:
			return last, true
		case ev, ok := <-events:
			if !ok {
				return last, false
			}
			last = ev
			timer.Reset(d)
		}
	}
}
