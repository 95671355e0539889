// Package panel implements the two browsing panels as plain values whose
// lifecycle the host drives through Activate and Deactivate.
//
// Filesystem scans and description reads run on background goroutines. A
// panel's results become visible only after a scan completes; deactivating
// a panel cancels whatever is in flight and discards it.
package panel

import (
	"context"
	"sync"
)

// worker runs background jobs tied to one activation.
type worker struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// activate starts a new activation scope, cancelling any previous one.
func (w *worker) activate(parent context.Context) context.Context {
	w.deactivate()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.ctx, w.cancel = context.WithCancel(parent)
	return w.ctx
}

// deactivate cancels the current scope and waits for its jobs.
func (w *worker) deactivate() {
	w.mu.Lock()
	cancel := w.cancel
	w.ctx, w.cancel = nil, nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

// goCtx runs fn in the active scope, or in ctx when the panel is inactive.
// The returned channel yields fn's error and is then closed.
func (w *worker) goCtx(ctx context.Context, fn func(context.Context) error) <-chan error {
	w.mu.Lock()
	cancel := context.CancelFunc(func() {})
	if w.ctx != nil {
		ctx, cancel = mergeCancel(ctx, w.ctx)
	}
	w.wg.Add(1)
	w.mu.Unlock()

	out := make(chan error, 1)
	go func() {
		defer w.wg.Done()
		defer close(out)
		defer cancel()
		out <- fn(ctx)
	}()
	return out
}

// mergeCancel returns a context carrying ctx's values that is also
// cancelled when scope is.
func mergeCancel(ctx, scope context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(scope, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}
