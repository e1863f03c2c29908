package ric

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/ruffel/ric/logger"
)

const (
	removeRetries         = 5
	removeInitialInterval = 100 * time.Millisecond
)

// handle holds a container id that can be taken exactly once. It starts
// empty and is bound once the engine has created the container.
type handle struct {
	id atomic.Pointer[string]
}

func (h *handle) bind(id string) {
	h.id.Store(&id)
}

// take returns the id if it is bound and nobody took it before.
func (h *handle) take() (string, bool) {
	p := h.id.Swap(nil)
	if p == nil {
		return "", false
	}

	return *p, true
}

// interruptHandler runs an action on its own goroutine when the first signal arrives.
// Later signals are logged and ignored.
type interruptHandler struct {
	log      logger.Logger
	stop     func()
	quit     chan struct{}
	finished chan struct{} // Closed once the action returned
	fired    atomic.Bool
	close    sync.Once
}

func startInterruptHandler(src SignalSource, log logger.Logger, action func(os.Signal)) *interruptHandler {
	signals, stop := src()

	h := &interruptHandler{
		log:      log,
		stop:     stop,
		quit:     make(chan struct{}),
		finished: make(chan struct{}),
	}

	go func() {
		for {
			select {
			case <-h.quit:
				return
			case sig, ok := <-signals:
				if !ok {
					return
				}

				if !h.fired.CompareAndSwap(false, true) {
					h.log.Warn("Interrupt already being handled", "signal", sig.String())

					continue
				}

				action(sig)
				close(h.finished)
			}
		}
	}()

	return h
}

// interrupted reports whether a signal was received.
func (h *interruptHandler) interrupted() bool {
	return h.fired.Load()
}

// wait blocks until the action has returned, at most timeout. It is a no-op when no signal arrived.
func (h *interruptHandler) wait(timeout time.Duration) bool {
	if !h.interrupted() {
		return true
	}

	select {
	case <-h.finished:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Close stops listening for signals.
func (h *interruptHandler) Close() {
	h.close.Do(func() {
		h.stop()
		close(h.quit)
	})
}

// lifecycle owns the teardown of a container created by a run.
type lifecycle struct {
	engine  Engine
	handle  *handle
	log     logger.Logger
	timeout time.Duration
	handler *interruptHandler
}

// watch installs the interrupt handler for a container about to be created.
// It must be called before the create request so that a signal arriving while
// the engine creates the container is not lost.
func (r *Runner) watch() *lifecycle {
	lc := &lifecycle{
		engine:  r.engine,
		handle:  &handle{},
		log:     r.cfg.Logger,
		timeout: r.cfg.CleanupTimeout,
	}
	lc.handler = startInterruptHandler(r.cfg.Signals, r.cfg.Logger, lc.onInterrupt)

	return lc
}

// onInterrupt kills and removes the container. It runs on the handler's
// goroutine with its own context, independent of whatever the main flow is
// blocked on.
func (lc *lifecycle) onInterrupt(sig os.Signal) {
	id, ok := lc.handle.take()
	if !ok {
		lc.log.Debug("No container to stop", "signal", sig.String())

		return
	}

	log := lc.log.WithFields("container", id)
	log.Info("Stopping container", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), lc.timeout)
	defer cancel()

	var result *multierror.Error

	if err := lc.engine.KillContainer(ctx, id); err != nil && !isGone(err) {
		result = multierror.Append(result, &EngineError{Op: OpKill, Err: err})
	}

	if err := Teardown(ctx, lc.engine, id); err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		log.Error("Failed to stop container", err)
	}
}

// complete runs the normal-path cleanup. If the interrupt handler already took
// the container, it waits for the handler to finish instead.
func (lc *lifecycle) complete(ctx context.Context) {
	defer lc.handler.Close()

	id, ok := lc.handle.take()
	if !ok {
		if !lc.handler.wait(lc.timeout) {
			lc.log.Warn("Timed out waiting for interrupt cleanup")
		}

		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lc.timeout)
	defer cancel()

	if err := Teardown(ctx, lc.engine, id); err != nil {
		lc.log.WithFields("container", id).Error("Error removing container", err)
	}
}

// bind hands the created container to the lifecycle.
func (lc *lifecycle) bind(id string) {
	lc.handle.bind(id)
}

// abandon stops watching when no container was created.
func (lc *lifecycle) abandon() {
	lc.handler.Close()
}

func (lc *lifecycle) interrupted() bool {
	return lc.handler.interrupted()
}

// Teardown force-removes a container.
//
// A container that no longer exists counts as removed. A conflict (removal
// already in progress elsewhere) is retried with exponential backoff until the
// container is gone.
func Teardown(ctx context.Context, engine Engine, id string) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = removeInitialInterval

	op := func() error {
		err := engine.RemoveContainer(ctx, id)

		switch {
		case err == nil, errors.Is(err, ErrNotFound):
			return nil
		case errors.Is(err, ErrConflict):
			return err
		default:
			return backoff.Permanent(err)
		}
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, removeRetries), ctx))
	if err != nil {
		return &EngineError{Op: OpRemove, Err: err}
	}

	return nil
}

// isGone reports whether a kill failed only because the container is already stopped or removed.
func isGone(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict)
}
