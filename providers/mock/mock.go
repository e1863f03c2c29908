package mock

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/ruffel/ric"
	"github.com/stretchr/testify/mock"
)

// Engine implements a mock ric.Engine using testify/mock.
type Engine struct {
	mock.Mock
}

var _ ric.Engine = (*Engine)(nil)

// New creates a new mock engine.
func New() *Engine {
	return &Engine{}
}

// Ping mocks the connectivity check.
func (m *Engine) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// ListImages mocks listing cached images.
func (m *Engine) ListImages(ctx context.Context) ([]ric.Image, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]ric.Image), args.Error(1)
}

// PullImage mocks starting an image pull.
func (m *Engine) PullImage(ctx context.Context, ref string) (io.ReadCloser, error) {
	return readCloser(m.Called(ctx, ref))
}

// CreateContainer mocks creating a container.
func (m *Engine) CreateContainer(ctx context.Context, req ric.CreateRequest) (string, error) {
	args := m.Called(ctx, req)

	return args.String(0), args.Error(1)
}

// StartContainer mocks starting a container.
func (m *Engine) StartContainer(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// ContainerLogs mocks following a container's output.
func (m *Engine) ContainerLogs(ctx context.Context, id string) (io.ReadCloser, error) {
	return readCloser(m.Called(ctx, id))
}

// KillContainer mocks killing a container.
func (m *Engine) KillContainer(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// WaitContainer mocks waiting for a container to exit.
func (m *Engine) WaitContainer(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)

	return args.Get(0).(int64), args.Error(1)
}

// RemoveContainer mocks removing a container.
func (m *Engine) RemoveContainer(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// ListContainers mocks a name-filtered container list.
func (m *Engine) ListContainers(ctx context.Context, name string) ([]ric.ContainerSummary, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]ric.ContainerSummary), args.Error(1)
}

// CreateExec mocks preparing an exec instance.
func (m *Engine) CreateExec(ctx context.Context, containerID string, req ric.ExecRequest) (string, error) {
	args := m.Called(ctx, containerID, req)

	return args.String(0), args.Error(1)
}

// AttachExec mocks starting an exec instance.
func (m *Engine) AttachExec(ctx context.Context, execID string) (io.ReadCloser, error) {
	return readCloser(m.Called(ctx, execID))
}

// InspectExec mocks inspecting an exec instance.
func (m *Engine) InspectExec(ctx context.Context, execID string) (ric.ExecState, error) {
	args := m.Called(ctx, execID)

	return args.Get(0).(ric.ExecState), args.Error(1)
}

// Close mocks closing the engine.
func (m *Engine) Close() error {
	return m.Called().Error(0)
}

func readCloser(args mock.Arguments) (io.ReadCloser, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	switch v := args.Get(0).(type) {
	case io.ReadCloser:
		return v, args.Error(1)
	case io.Reader:
		return io.NopCloser(v), args.Error(1)
	default:
		panic("mock: stream return value must be an io.Reader")
	}
}

// Frame is one chunk of multiplexed output.
type Frame struct {
	Stream ric.Stream
	Data   string
}

// Stdout returns a stdout frame.
func Stdout(s string) Frame { return Frame{Stream: ric.StreamStdout, Data: s} }

// Stderr returns a stderr frame.
func Stderr(s string) Frame { return Frame{Stream: ric.StreamStderr, Data: s} }

// Frames encodes frames in the engine's multiplexed stream format.
func Frames(frames ...Frame) []byte {
	var buf bytes.Buffer

	for _, f := range frames {
		kind := stdcopy.Stdout

		switch f.Stream {
		case ric.StreamStderr:
			kind = stdcopy.Stderr
		case ric.StreamStdinEcho:
			kind = stdcopy.Stdin
		case ric.StreamStdout:
		}

		_, _ = stdcopy.NewStdWriter(&buf, kind).Write([]byte(f.Data))
	}

	return buf.Bytes()
}

// Stream returns a multiplexed stream of frames, ready to be returned from ContainerLogs or AttachExec.
func Stream(frames ...Frame) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(Frames(frames...)))
}

// PullProgress encodes pull progress messages as the engine streams them.
func PullProgress(msgs ...jsonmessage.JSONMessage) io.ReadCloser {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	for _, msg := range msgs {
		_ = enc.Encode(msg)
	}

	return io.NopCloser(&buf)
}
