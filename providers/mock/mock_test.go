package mock

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/ruffel/ric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMockEngine(t *testing.T) {
	t.Parallel()

	engine := New()
	ctx := context.Background()

	images := []ric.Image{{ID: "sha256:1", RepoTags: []string{"debian:latest"}}}
	engine.On("ListImages", ctx).Return(images, nil)
	engine.On("CreateContainer", ctx, mock.AnythingOfType("ric.CreateRequest")).Return("c1", nil)
	engine.On("WaitContainer", ctx, "c1").Return(int64(3), nil)

	got, err := engine.ListImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, images, got)

	id, err := engine.CreateContainer(ctx, ric.CreateRequest{Image: "debian:latest"})
	require.NoError(t, err)
	assert.Equal(t, "c1", id)

	code, err := engine.WaitContainer(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), code)

	engine.AssertExpectations(t)
}

func TestMockEngine_NilStream(t *testing.T) {
	t.Parallel()

	engine := New()
	engine.On("ContainerLogs", mock.Anything, "c1").Return(nil, errors.New("boom"))

	rc, err := engine.ContainerLogs(context.Background(), "c1")
	require.Error(t, err)
	assert.Nil(t, rc)
}

func TestFrames_RoundTrip(t *testing.T) {
	t.Parallel()

	stream := Stream(Stdout("out"), Stderr("err"), Frame{Stream: ric.StreamStdinEcho, Data: "in"})

	var events []ric.LogEvent

	for ev, err := range ric.Events(stream) {
		require.NoError(t, err)

		events = append(events, ev)
	}

	require.Len(t, events, 3)
	assert.Equal(t, ric.LogEvent{Stream: ric.StreamStdout, Data: []byte("out")}, events[0])
	assert.Equal(t, ric.LogEvent{Stream: ric.StreamStderr, Data: []byte("err")}, events[1])
	assert.Equal(t, ric.LogEvent{Stream: ric.StreamStdinEcho, Data: []byte("in")}, events[2])
}

func TestPullProgress(t *testing.T) {
	t.Parallel()

	rc := PullProgress(jsonmessage.JSONMessage{Status: "Pulling fs layer", ID: "abc"})

	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"status":"Pulling fs layer"`)
}
