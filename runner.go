package ric

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/ruffel/ric/logger"
)

const (
	execPollInterval = 100 * time.Millisecond
	execPollTimeout  = 30 * time.Second
	nameSuffixLen    = 8
)

// Runner drives an Invocation against an Engine.
type Runner struct {
	engine Engine
	cfg    Config
}

// NewRunner creates a Runner for the given engine.
func NewRunner(engine Engine, opts ...Option) *Runner {
	cfg := DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	return &Runner{engine: engine, cfg: cfg}
}

// Run executes the invocation and returns once its output has been relayed and
// any container it created has been cleaned up.
//
// Configuration, connectivity, resolution and creation failures are returned
// as errors. Failures after the container exists are logged and do not fail
// the run.
func (r *Runner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	if inv == nil {
		return nil, &ConfigError{Err: ErrNoTarget}
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	switch inv := inv.(type) {
	case NewContainer:
		return r.runNew(ctx, inv)
	case ExistingContainer:
		return r.runExisting(ctx, inv)
	default:
		return nil, &ConfigError{Err: fmt.Errorf("unsupported invocation %T", inv)}
	}
}

func (r *Runner) runNew(ctx context.Context, inv NewContainer) (*Result, error) {
	start := time.Now()
	log := r.cfg.Logger

	if err := EnsureImage(ctx, r.engine, inv.Image, log); err != nil {
		return nil, err
	}

	hostDir, err := r.hostDir(inv.WorkDir)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	if inv.Name == "" {
		inv.Name = r.cfg.NamePrefix + uuid.NewString()[:nameSuffixLen]
	}

	req := BuildCreateRequest(inv, hostDir)

	// Signals are watched from before the create request: a container the
	// engine creates while an interrupt is pending is still removed.
	lc := r.watch()

	id, err := r.engine.CreateContainer(ctx, req)
	if err != nil {
		lc.abandon()

		if lc.interrupted() {
			return &Result{Interrupted: true, Duration: time.Since(start)}, nil
		}

		return nil, &CreationError{Image: req.Image, Err: err}
	}

	lc.bind(id)

	log = log.WithFields("container", id)
	log.Debug("Container created", "name", inv.Name, "command", inv.Command.String())

	result := &Result{ContainerID: id}

	if lc.interrupted() {
		lc.complete(ctx)
		log.Info("Interrupted before the container started")

		result.Interrupted = true
		result.Duration = time.Since(start)

		return result, nil
	}

	if err := r.engine.StartContainer(ctx, id); err != nil {
		lc.complete(ctx)

		if lc.interrupted() {
			log.Info("Interrupted before the container started")

			result.Interrupted = true
			result.Duration = time.Since(start)

			return result, nil
		}

		return nil, &EngineError{Op: OpStart, Err: err}
	}

	r.streamLogs(ctx, id, lc, log)

	code, err := r.engine.WaitContainer(ctx, id)

	switch {
	case err == nil:
		result.ExitCode = int(code)
	case lc.interrupted() && errors.Is(err, ErrNotFound):
		log.Debug("Container removed before wait returned")
	default:
		log.Error("Failed to wait for container", err)
	}

	lc.complete(ctx)

	result.Interrupted = lc.interrupted()
	result.Duration = time.Since(start)

	return result, nil
}

// streamLogs relays the container's output until the container exits or is killed.
func (r *Runner) streamLogs(ctx context.Context, id string, lc *lifecycle, log logger.Logger) {
	logs, err := r.engine.ContainerLogs(ctx, id)
	if err != nil {
		if lc.interrupted() {
			log.Debug("Container stopped before its logs were attached", "error", err)
		} else {
			log.Error("Failed to attach to container logs", err)
		}

		return
	}

	defer func() { _ = logs.Close() }()

	if err := Relay(logs, r.cfg.Stdout, r.cfg.Stderr); err != nil && !lc.interrupted() {
		log.Warn("Log stream ended early", "error", err)
	}
}

func (r *Runner) runExisting(ctx context.Context, inv ExistingContainer) (*Result, error) {
	start := time.Now()

	target, err := ResolveContainer(ctx, r.engine, inv.Target)
	if err != nil {
		return nil, err
	}

	log := r.cfg.Logger.WithFields("container", target.ID)

	execID, err := r.engine.CreateExec(ctx, target.ID, BuildExecRequest(inv))
	if err != nil {
		return nil, &EngineError{Op: OpExec, Err: err}
	}

	stream, err := r.engine.AttachExec(ctx, execID)
	if err != nil {
		return nil, &EngineError{Op: OpExec, Err: err}
	}

	defer func() { _ = stream.Close() }()

	// The container is not ours: an interrupt only detaches from the exec stream.
	handler := startInterruptHandler(r.cfg.Signals, log, func(sig os.Signal) {
		log.Info("Detaching from exec", "signal", sig.String())
		_ = stream.Close()
	})
	defer handler.Close()

	log.Debug("Exec started", "exec", execID, "command", inv.Command.String())

	if err := Relay(stream, r.cfg.Stdout, r.cfg.Stderr); err != nil && !handler.interrupted() {
		log.Warn("Exec stream ended early", "error", err)
	}

	result := &Result{ContainerID: target.ID}

	if handler.interrupted() {
		result.Interrupted = true
		result.Duration = time.Since(start)

		return result, nil
	}

	state, err := waitExec(context.WithoutCancel(ctx), r.engine, execID)
	if err != nil {
		log.Error("Failed to read exec exit code", err)
	} else {
		result.ExitCode = state.ExitCode
	}

	result.Duration = time.Since(start)

	return result, nil
}

// waitExec polls the engine until the exec instance has exited. The output
// stream can close slightly before the engine records the exit code.
func waitExec(ctx context.Context, engine Engine, execID string) (ExecState, error) {
	ctx, cancel := context.WithTimeout(ctx, execPollTimeout)
	defer cancel()

	ticker := time.NewTicker(execPollInterval)
	defer ticker.Stop()

	for {
		state, err := engine.InspectExec(ctx, execID)
		if err != nil {
			return state, err
		}

		if !state.Running {
			return state, nil
		}

		select {
		case <-ctx.Done():
			return state, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Runner) hostDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}

	if r.cfg.WorkDir != "" {
		return r.cfg.WorkDir, nil
	}

	return os.Getwd()
}
