package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/ruffel/ric"
)

var _ ric.Engine = (*Engine)(nil)

// Engine implements ric.Engine for Docker.
type Engine struct {
	config Config
	client *client.Client
	mu     sync.Mutex
	closed bool
}

// New creates a client for the Docker daemon. No request is sent until the first call; use Ping to verify connectivity.
func New(opts ...Option) (*Engine, error) {
	c := newConfig(opts)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	cli, err := client.NewClientWithOpts(c.ClientOpts()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	return &Engine{
		config: c,
		client: cli,
	}, nil
}

// Host returns the daemon address the client talks to.
func (e *Engine) Host() string {
	return e.client.DaemonHost()
}

// Ping negotiates the API version and checks that the daemon answers.
func (e *Engine) Ping(ctx context.Context) error {
	if e.isClosed() {
		return ric.ErrEngineClosed
	}

	e.client.NegotiateAPIVersion(ctx)

	if _, err := e.client.Ping(ctx); err != nil {
		return classify(err)
	}

	return nil
}

// ListImages returns the locally cached images.
func (e *Engine) ListImages(ctx context.Context) ([]ric.Image, error) {
	summaries, err := e.client.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return nil, classify(err)
	}

	images := make([]ric.Image, 0, len(summaries))
	for _, s := range summaries {
		images = append(images, ric.Image{ID: s.ID, RepoTags: s.RepoTags})
	}

	return images, nil
}

// PullImage starts pulling ref and returns the JSON progress stream.
func (e *Engine) PullImage(ctx context.Context, ref string) (io.ReadCloser, error) {
	rc, err := e.client.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return nil, classify(err)
	}

	return rc, nil
}

// CreateContainer creates a container without starting it.
func (e *Engine) CreateContainer(ctx context.Context, req ric.CreateRequest) (string, error) {
	resp, err := e.client.ContainerCreate(ctx, buildContainerConfig(req), buildHostConfig(req), nil, nil, req.Name)
	if err != nil {
		return "", classify(err)
	}

	return resp.ID, nil
}

// StartContainer starts a created container.
func (e *Engine) StartContainer(ctx context.Context, id string) error {
	return classify(e.client.ContainerStart(ctx, id, container.StartOptions{}))
}

// ContainerLogs follows the container's stdout and stderr until it exits.
func (e *Engine) ContainerLogs(ctx context.Context, id string) (io.ReadCloser, error) {
	rc, err := e.client.ContainerLogs(ctx, id, buildLogsOptions())
	if err != nil {
		return nil, classify(err)
	}

	return rc, nil
}

// KillContainer sends SIGKILL to the container.
func (e *Engine) KillContainer(ctx context.Context, id string) error {
	return classify(e.client.ContainerKill(ctx, id, "KILL"))
}

// WaitContainer blocks until the container stops and returns its exit status.
func (e *Engine) WaitContainer(ctx context.Context, id string) (int64, error) {
	statusCh, errCh := e.client.ContainerWait(ctx, id, container.WaitConditionNotRunning)

	select {
	case err := <-errCh:
		return 0, classify(err)
	case resp := <-statusCh:
		if resp.Error != nil && resp.Error.Message != "" {
			return resp.StatusCode, errors.New(resp.Error.Message)
		}

		return resp.StatusCode, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// RemoveContainer force-removes the container and its anonymous volumes.
func (e *Engine) RemoveContainer(ctx context.Context, id string) error {
	return classify(e.client.ContainerRemove(ctx, id, container.RemoveOptions{
		Force:         true,
		RemoveVolumes: true,
	}))
}

// ListContainers returns running containers whose name matches the filter.
func (e *Engine) ListContainers(ctx context.Context, name string) ([]ric.ContainerSummary, error) {
	list, err := e.client.ContainerList(ctx, container.ListOptions{
		Filters: filters.NewArgs(filters.Arg("name", name)),
	})
	if err != nil {
		return nil, classify(err)
	}

	out := make([]ric.ContainerSummary, 0, len(list))
	for _, c := range list {
		out = append(out, ric.ContainerSummary{
			ID:    c.ID,
			Names: c.Names,
			Image: c.Image,
			State: string(c.State),
		})
	}

	return out, nil
}

// CreateExec prepares a command execution inside a running container.
func (e *Engine) CreateExec(ctx context.Context, containerID string, req ric.ExecRequest) (string, error) {
	resp, err := e.client.ContainerExecCreate(ctx, containerID, buildExecOptions(req))
	if err != nil {
		return "", fmt.Errorf("failed to create exec: %w", classify(err))
	}

	return resp.ID, nil
}

// AttachExec starts the exec instance and returns its multiplexed output.
// Closing the stream hangs up the hijacked connection.
func (e *Engine) AttachExec(ctx context.Context, execID string) (io.ReadCloser, error) {
	resp, err := e.client.ContainerExecAttach(ctx, execID, buildAttachOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to attach exec: %w", classify(err))
	}

	return &hijackedStream{resp: resp}, nil
}

// InspectExec reports the state of an exec instance.
func (e *Engine) InspectExec(ctx context.Context, execID string) (ric.ExecState, error) {
	resp, err := e.client.ContainerExecInspect(ctx, execID)
	if err != nil {
		return ric.ExecState{}, classify(err)
	}

	return ric.ExecState{Running: resp.Running, ExitCode: resp.ExitCode}, nil
}

// Close shuts down the client connection.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}

	e.closed = true

	if e.client != nil {
		return e.client.Close()
	}

	return nil
}

func (e *Engine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.closed
}
