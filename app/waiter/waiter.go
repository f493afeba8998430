package waiter

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

type WaitFunc func(ctx context.Context) error

type Waiter interface {
	Add(fns ...WaitFunc)
	Wait() error
	Context() context.Context
	CancelFunc() context.CancelFunc
}

type waiter struct {
	ctx    context.Context
	fns    []WaitFunc
	cancel context.CancelFunc
}

type waiterCfg struct {
	signals []os.Signal
}

// NewWaiter returns a Waiter bound to ctx. The context is cancelled on
// SIGINT or SIGTERM unless other signals are given with WithSignals.
func NewWaiter(ctx context.Context, cancel context.CancelFunc, options ...Option) Waiter {
	cfg := &waiterCfg{
		signals: []os.Signal{os.Interrupt, syscall.SIGTERM},
	}
	for _, option := range options {
		option(cfg)
	}

	w := &waiter{
		fns: []WaitFunc{},
	}
	w.ctx, w.cancel = ctx, cancel
	if len(cfg.signals) > 0 {
		var stop context.CancelFunc
		w.ctx, stop = signal.NotifyContext(ctx, cfg.signals...)
		w.cancel = func() {
			stop()
			cancel()
		}
	}

	return w
}

func (w *waiter) Add(fns ...WaitFunc) {
	w.fns = append(w.fns, fns...)
}

// Wait runs every added func and returns the first error. The first func to
// return cancels the others.
func (w *waiter) Wait() error {
	group, ctx := errgroup.WithContext(w.ctx)

	group.Go(func() error {
		<-ctx.Done()
		w.cancel()
		return nil
	})

	for _, fn := range w.fns {
		fn := fn
		group.Go(func() error {
			defer w.cancel()
			return fn(ctx)
		})
	}

	return group.Wait()
}

func (w *waiter) Context() context.Context {
	return w.ctx
}

func (w *waiter) CancelFunc() context.CancelFunc {
	return w.cancel
}
