package controller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/garage/internal/logging"
	"github.com/dmitrijs2005/garage/internal/storage"
)

// Controller is the capability every session variant implements.
type Controller interface {
	BindView(v View) error
	BindStorage(s storage.Storage) error
	Start(ctx context.Context) error
	IsReady() bool
}

// lifecycle is embedded by every variant. mu guards the bindings, err and
// whatever session state the variant keeps; state is also published
// atomically so IsReady never waits on a running handler.
type lifecycle struct {
	name string
	log  logging.Logger

	mu        sync.Mutex
	state     atomic.Int32
	err       error
	viewBound bool
	store     storage.Storage
	cancel    context.CancelFunc
	done      chan struct{}

	// onFinish runs under mu just before the terminal state is published.
	onFinish func(st State)
}

func (b *lifecycle) init(name string, log logging.Logger, onFinish func(State)) {
	if log == nil {
		log = logging.Discard()
	}
	b.name = name
	b.log = log.With("controller", name)
	b.done = make(chan struct{})
	b.onFinish = onFinish
}

func (b *lifecycle) State() State { return State(b.state.Load()) }

// IsReady reports whether the controller reached a terminal state. It never
// blocks.
func (b *lifecycle) IsReady() bool { return b.State().Terminal() }

// Err is the failure that ended a Failed controller, nil otherwise.
func (b *lifecycle) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Wait blocks until the controller is terminal or ctx is done. It returns
// Err() in the first case and ctx.Err() in the second.
func (b *lifecycle) Wait(ctx context.Context) error {
	select {
	case <-b.done:
		return b.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel ends the session as Cancelled. It is safe to call at any time and
// from any goroutine; on a terminal controller it does nothing.
func (b *lifecycle) Cancel() {
	b.mu.Lock()
	switch st := b.State(); {
	case st == Running:
		b.cancel()
		b.mu.Unlock()
	case st.Terminal():
		b.mu.Unlock()
	default:
		b.publish(Cancelled, nil)
		b.mu.Unlock()
	}
}

// bindView runs set under the lock. Variants pass a closure storing their
// typed view.
func (b *lifecycle) bindView(set func()) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.State() != Uninitialized && b.State() != Configured {
		return ErrAlreadyStarted
	}
	set()
	b.viewBound = true
	b.configure()
	return nil
}

func (b *lifecycle) BindStorage(s storage.Storage) error {
	if s == nil {
		return fmt.Errorf("%s controller: nil storage", b.name)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.State() != Uninitialized && b.State() != Configured {
		return ErrAlreadyStarted
	}
	b.store = s
	b.configure()
	return nil
}

func (b *lifecycle) configure() {
	if b.viewBound && b.store != nil {
		b.state.Store(int32(Configured))
	}
}

// start moves the controller to Running, runs setup synchronously and hands
// run to a goroutine. A setup error ends the controller as Failed and is
// returned to the caller. Setup cut short by cancellation leaves it
// Cancelled and Start returns nil.
func (b *lifecycle) start(ctx context.Context, setup, run func(ctx context.Context) error) error {
	b.mu.Lock()
	switch st := b.State(); {
	case st == Running || st.Terminal():
		b.mu.Unlock()
		return ErrAlreadyStarted
	case !b.viewBound:
		b.mu.Unlock()
		return fmt.Errorf("%w: %s controller has no view", ErrControllerNotReady, b.name)
	case b.store == nil:
		b.mu.Unlock()
		return fmt.Errorf("%w: %s controller has no storage", ErrControllerNotReady, b.name)
	}

	runCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.state.Store(int32(Running))
	b.mu.Unlock()

	b.log.Debug(ctx, "controller started")

	if err := setup(runCtx); err != nil {
		b.finish(runCtx, err)
		if b.State() == Cancelled {
			return nil
		}
		return fmt.Errorf("%s controller: %w", b.name, err)
	}

	go func() {
		b.finish(runCtx, run(runCtx))
	}()
	return nil
}

// serve pulls intents from next and applies each with handle under the lock
// until handle reports done, either side fails, or ctx ends.
func (b *lifecycle) serve(ctx context.Context, next func(context.Context) (Intent, error), handle func(context.Context, Intent) (bool, error)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		in, err := next(ctx)
		if err != nil {
			return err
		}

		b.mu.Lock()
		done, err := handle(ctx, in)
		b.mu.Unlock()

		if err != nil || done {
			return err
		}
	}
}

// finish closes the storage connection and publishes the terminal state.
func (b *lifecycle) finish(ctx context.Context, err error) {
	st := Completed
	switch {
	case err == nil:
	case isCancellation(ctx, err):
		st, err = Cancelled, nil
	default:
		st = Failed
	}

	b.mu.Lock()
	store := b.store
	b.mu.Unlock()
	store.Disconnect(context.WithoutCancel(ctx))

	b.mu.Lock()
	b.publish(st, err)
	b.cancel()
	b.mu.Unlock()

	if err != nil {
		b.log.Error(ctx, "controller failed", "error", err)
	} else {
		b.log.Debug(ctx, "controller finished", "state", st.String())
	}
}

// publish records the terminal state. Callers hold mu.
func (b *lifecycle) publish(st State, err error) {
	if b.onFinish != nil {
		b.onFinish(st)
	}
	b.err = err
	b.state.Store(int32(st))
	close(b.done)
}
