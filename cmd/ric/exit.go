package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/ruffel/ric"
)

// Process exit codes.
const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

// exitCodeError carries a specific process exit code. Silent errors are not printed.
type exitCodeError struct {
	Code   int
	Err    error
	Silent bool
}

func (e *exitCodeError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *exitCodeError) Unwrap() error {
	return e.Err
}

// exitCode maps an error returned by the root command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var codeErr *exitCodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}

	return exitError
}

// report prints err to w unless it is silent.
func report(w io.Writer, err error) {
	var codeErr *exitCodeError
	if errors.As(err, &codeErr) && codeErr.Silent {
		return
	}

	_, _ = fmt.Fprintln(w, errorStyle.Render("Error: ")+err.Error())

	if hint := hintFor(err); hint != "" {
		_, _ = fmt.Fprintln(w, hintStyle.Render(hint))
	}
}

func hintFor(err error) string {
	var (
		engineErr *ric.EngineError
		resErr    *ric.ResolutionError
	)

	switch {
	case errors.As(err, &engineErr) && engineErr.Unreachable():
		return "Is the Docker daemon running? Set --host or DOCKER_HOST to point at it."
	case errors.Is(err, ric.ErrNoTarget), errors.Is(err, ric.ErrBothTargets):
		return "Pass exactly one of --image or --container."
	case errors.As(err, &resErr) && errors.Is(err, ric.ErrAmbiguous):
		return "Use the full container name or id."
	default:
		return ""
	}
}
