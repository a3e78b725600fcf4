package zenparticles

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Background runs the app's long-lived goroutines (gesture server, demo
// oscillator, config watcher) under one cancellable context. The first
// error cancels the rest.
type Background struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
	log    Logger
}

func newBackground(log Logger) *Background {
	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	return &Background{ctx: ctx, cancel: cancel, group: group, log: log}
}

func ensureBackground(app *App) *Background {
	created := false
	bg := ensureResource(app, func() *Background {
		created = true
		return newBackground(app.Logger())
	})
	if created {
		app.OnShutdown(func() {
			if err := bg.Stop(); err != nil {
				app.Logger().Errorf("background: %v", err)
			}
		})
	}
	return bg
}

// Go starts fn in the group. A non-nil error is logged with name and
// cancels the other goroutines.
func (b *Background) Go(name string, fn func(ctx context.Context) error) {
	b.group.Go(func() error {
		b.log.Debugf("%s: started", name)
		err := fn(b.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			b.log.Errorf("%s: %v", name, err)
			return err
		}
		b.log.Debugf("%s: stopped", name)
		return nil
	})
}

// Stop cancels the context and waits for every goroutine to return.
func (b *Background) Stop() error {
	b.cancel()
	return b.group.Wait()
}
