package docker

import (
	"fmt"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/ruffel/ric"
)

// buildContainerConfig translates ric.CreateRequest to container.Config.
func buildContainerConfig(req ric.CreateRequest) *container.Config {
	return &container.Config{
		Image:        req.Image,
		Cmd:          req.Cmd,
		WorkingDir:   req.WorkingDir,
		User:         req.User,
		Labels:       req.Labels,
		AttachStdout: true,
		AttachStderr: true,
	}
}

// buildHostConfig translates the bind mounts of a ric.CreateRequest, keeping their order.
func buildHostConfig(req ric.CreateRequest) *container.HostConfig {
	return &container.HostConfig{
		Binds: req.Binds,
	}
}

// buildLogsOptions follows both output streams from the start of the container.
func buildLogsOptions() container.LogsOptions {
	return container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	}
}

// buildExecOptions translates ric.ExecRequest to container.ExecOptions.
func buildExecOptions(req ric.ExecRequest) container.ExecOptions {
	return container.ExecOptions{
		Cmd:          req.Cmd,
		User:         req.User,
		WorkingDir:   req.WorkingDir,
		AttachStdout: req.AttachStdout,
		AttachStderr: req.AttachStderr,
		AttachStdin:  false,
		Tty:          false,
	}
}

// buildAttachOptions creates the configuration for attaching to a Docker exec instance.
func buildAttachOptions() container.ExecStartOptions {
	return container.ExecStartOptions{
		Tty: false,
	}
}

// hijackedStream exposes the output side of an exec session as an io.ReadCloser.
type hijackedStream struct {
	resp types.HijackedResponse
}

func (h *hijackedStream) Read(p []byte) (int, error) {
	return h.resp.Reader.Read(p)
}

func (h *hijackedStream) Close() error {
	h.resp.Close()

	return nil
}

// classify tags daemon errors with the ric sentinels so callers never need docker types.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case cerrdefs.IsNotFound(err):
		return fmt.Errorf("%w: %w", ric.ErrNotFound, err)
	case cerrdefs.IsConflict(err):
		return fmt.Errorf("%w: %w", ric.ErrConflict, err)
	default:
		return err
	}
}
