package ric

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound classifies engine answers for objects that do not exist.
// Engines wrap their native error with it.
var ErrNotFound = errors.New("not found")

// ErrConflict classifies engine answers rejected because of the object's state,
// e.g. killing a container that is not running or a removal already in progress.
var ErrConflict = errors.New("conflict")

// ErrEngineClosed indicates that an operation was attempted on a closed engine.
var ErrEngineClosed = errors.New("engine is closed")

// ErrAmbiguous indicates that a container name matched more than one container.
var ErrAmbiguous = errors.New("ambiguous container name")

// ErrNoTarget indicates that neither an image nor a container was specified.
var ErrNoTarget = errors.New("must provide either an image or a container to use")

// ErrBothTargets indicates that both an image and a container were specified.
var ErrBothTargets = errors.New("an image and a container cannot be used together")

// ErrEmptyCommand indicates that there is no command to run.
var ErrEmptyCommand = errors.New("no command was specified")

// Engine operations reported in EngineError.Op.
const (
	OpConnect = "connect"
	OpList    = "list"
	OpPull    = "pull"
	OpStart   = "start"
	OpExec    = "exec"
	OpKill    = "kill"
	OpRemove  = "remove"
)

// ConfigError is a pre-flight failure: nothing was sent to the engine.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// EngineError represents a failure talking to the engine.
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	if e.Op == OpConnect {
		return fmt.Sprintf("container engine unreachable: %v", e.Err)
	}

	return fmt.Sprintf("engine %s failed: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// Unreachable reports whether the engine could not be reached at all.
func (e *EngineError) Unreachable() bool {
	return e.Op == OpConnect
}

// ResolutionError is returned when a container name cannot be resolved to exactly one container.
type ResolutionError struct {
	Name       string
	Candidates []string // Names of the matching containers, if any
	Err        error
}

func (e *ResolutionError) Error() string {
	if len(e.Candidates) > 0 {
		return fmt.Sprintf("cannot resolve container %q: %v (matches: %s)", e.Name, e.Err, strings.Join(e.Candidates, ", "))
	}

	return fmt.Sprintf("cannot resolve container %q: %v", e.Name, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// CreationError is returned when the engine rejects a new container.
type CreationError struct {
	Image string
	Err   error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("failed to create container from %s: %v", e.Image, e.Err)
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

// ExitError represents a contained command that finished with a non-zero exit code.
type ExitError struct {
	Command  Command
	ExitCode int
}

func (e *ExitError) Error() string {
	if e.Command.Empty() {
		return fmt.Sprintf("command exited with code %d", e.ExitCode)
	}

	return fmt.Sprintf("command %q exited with code %d", e.Command.String(), e.ExitCode)
}
