// Package ric runs a command inside a container as if it had run locally.
//
// # Modes
//
// - NewContainer: resolve the image, create a fresh container with the caller's
// working directory mounted at /tmp, stream its output and remove it afterwards.
// - ExistingContainer: exec the command inside a container somebody else owns.
// The container is never killed or removed.
//
// # Cleanup
//
// A container created by ric is removed exactly once in effect, whether the
// command finishes or the process is interrupted (SIGINT/SIGTERM). The
// interrupt path and the normal path share the container id through a
// take-once slot; "not found" answers from the engine count as a successful
// cleanup.
//
// # Engines
//
// The orchestration only talks to the Engine interface. providers/docker
// implements it over the Docker Engine API and providers/mock provides a
// testify-based double.
package ric

import (
	"context"
	"io"
)

// Engine is the client surface of a container engine used by ric.
//
// Implementations must classify "no such object" failures with ErrNotFound
// and state conflicts (e.g. removal already in progress, container not
// running) with ErrConflict so that callers can use errors.Is.
type Engine interface {
	io.Closer

	// Ping checks connectivity and negotiates the API version.
	Ping(ctx context.Context) error

	// ListImages returns the locally cached images.
	ListImages(ctx context.Context) ([]Image, error)

	// PullImage starts pulling ref and returns the progress stream.
	// The stream is a sequence of JSON progress messages and must be closed by the caller.
	PullImage(ctx context.Context, ref string) (io.ReadCloser, error)

	// CreateContainer creates (but does not start) a container and returns its id.
	CreateContainer(ctx context.Context, req CreateRequest) (string, error)

	// StartContainer starts a created container.
	StartContainer(ctx context.Context, id string) error

	// ContainerLogs follows the multiplexed stdout/stderr stream of a container.
	// The stream ends when the container exits.
	ContainerLogs(ctx context.Context, id string) (io.ReadCloser, error)

	// KillContainer sends SIGKILL to the container's main process.
	KillContainer(ctx context.Context, id string) error

	// WaitContainer blocks until the container is no longer running and returns its exit status.
	WaitContainer(ctx context.Context, id string) (int64, error)

	// RemoveContainer force-removes a container.
	RemoveContainer(ctx context.Context, id string) error

	// ListContainers returns running containers whose name matches the filter.
	ListContainers(ctx context.Context, name string) ([]ContainerSummary, error)

	// CreateExec prepares a command execution inside a running container and returns the exec id.
	CreateExec(ctx context.Context, containerID string, req ExecRequest) (string, error)

	// AttachExec starts an exec instance and returns its multiplexed output stream.
	AttachExec(ctx context.Context, execID string) (io.ReadCloser, error)

	// InspectExec reports whether an exec instance is still running and its exit code.
	InspectExec(ctx context.Context, execID string) (ExecState, error)
}
