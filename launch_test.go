package ric_test

import (
	"errors"
	"testing"

	"github.com/ruffel/ric"
	"github.com/ruffel/ric/logger"
	ricmock "github.com/ruffel/ric/providers/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBuildCreateRequest(t *testing.T) {
	t.Parallel()

	inv := ric.NewContainer{
		Image:   "debian",
		Command: ric.Command{"cat /data/*.txt"},
		Mounts:  []ric.Mount{{HostPath: "/data", ContainerPath: "/data", Mode: "ro"}},
		User:    ric.RootIdentity,
		Name:    "ric-12345678",
	}

	req := ric.BuildCreateRequest(inv, "/home/me/project")

	assert.Equal(t, ric.CreateRequest{
		Name:       "ric-12345678",
		Image:      "debian:latest",
		Cmd:        []string{"sh", "-c", "cat /data/*.txt"},
		Binds:      []string{"/data:/data:ro", "/home/me/project:/tmp"},
		WorkingDir: "/tmp",
		User:       "0:0",
		Labels:     map[string]string{ric.ManagedLabel: "true"},
	}, req)
}

func TestBuildExecRequest(t *testing.T) {
	t.Parallel()

	req := ric.BuildExecRequest(ric.ExistingContainer{Target: "box", Command: ric.Command{"ls", "/"}, User: "1000:1000"})

	assert.Equal(t, []string{"ls", "/"}, req.Cmd)
	assert.Equal(t, "1000:1000", req.User)
	assert.True(t, req.AttachStdout)
	assert.True(t, req.AttachStderr)
}

func TestResolveContainer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		target     string
		list       []ric.ContainerSummary
		listErr    error
		wantID     string
		wantErr    error
		candidates []string
	}{
		{
			name:   "single match",
			target: "web",
			list:   []ric.ContainerSummary{{ID: "a", Names: []string{"/web-1"}}},
			wantID: "a",
		},
		{
			name:    "no match",
			target:  "web",
			list:    []ric.ContainerSummary{},
			wantErr: ric.ErrNotFound,
		},
		{
			name:   "exact name wins",
			target: "web",
			list: []ric.ContainerSummary{
				{ID: "a", Names: []string{"/web-1"}},
				{ID: "b", Names: []string{"/web"}},
			},
			wantID: "b",
		},
		{
			name:   "exact id wins",
			target: "c0ffee",
			list: []ric.ContainerSummary{
				{ID: "a", Names: []string{"/c0ffee-shop"}},
				{ID: "c0ffee", Names: []string{"/barista"}},
			},
			wantID: "c0ffee",
		},
		{
			name:   "ambiguous",
			target: "web",
			list: []ric.ContainerSummary{
				{ID: "a", Names: []string{"/web-1"}},
				{ID: "b", Names: []string{"/web-2"}},
			},
			wantErr:    ric.ErrAmbiguous,
			candidates: []string{"web-1", "web-2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			engine := ricmock.New()
			engine.On("ListContainers", mock.Anything, tt.target).Return(tt.list, tt.listErr)

			got, err := ric.ResolveContainer(t.Context(), engine, tt.target)
			if tt.wantErr != nil {
				var resErr *ric.ResolutionError
				require.ErrorAs(t, err, &resErr)
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.target, resErr.Name)
				assert.Equal(t, tt.candidates, resErr.Candidates)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestResolveContainer_ListFails(t *testing.T) {
	t.Parallel()

	engine := ricmock.New()
	engine.On("ListContainers", mock.Anything, "web").Return(nil, errors.New("timeout"))

	_, err := ric.ResolveContainer(t.Context(), engine, "web")

	var engineErr *ric.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, ric.OpList, engineErr.Op)
}

func TestEnsureImage(t *testing.T) {
	t.Parallel()

	t.Run("cached tag skips the pull", func(t *testing.T) {
		t.Parallel()

		engine := ricmock.New()
		engine.On("ListImages", mock.Anything).Return([]ric.Image{{RepoTags: []string{"alpine:3.20"}}}, nil)

		require.NoError(t, ric.EnsureImage(t.Context(), engine, "alpine:3.20", logger.Discard()))
		engine.AssertNotCalled(t, "PullImage", mock.Anything, mock.Anything)
	})

	t.Run("unqualified ref is pulled as latest", func(t *testing.T) {
		t.Parallel()

		engine := ricmock.New()
		engine.On("ListImages", mock.Anything).Return([]ric.Image{{RepoTags: []string{"alpine:3.20"}}}, nil)
		engine.On("PullImage", mock.Anything, "alpine:latest").Return(ricmock.PullProgress(), nil)

		require.NoError(t, ric.EnsureImage(t.Context(), engine, "alpine", logger.Discard()))
		engine.AssertExpectations(t)
	})

	t.Run("garbled progress is not fatal", func(t *testing.T) {
		t.Parallel()

		engine := ricmock.New()
		engine.On("ListImages", mock.Anything).Return([]ric.Image{}, nil)
		engine.On("PullImage", mock.Anything, "alpine:latest").Return(errReader("{not json"), nil)

		require.NoError(t, ric.EnsureImage(t.Context(), engine, "alpine", logger.Discard()))
	})

	t.Run("list failure", func(t *testing.T) {
		t.Parallel()

		engine := ricmock.New()
		engine.On("ListImages", mock.Anything).Return(nil, errors.New("timeout"))

		err := ric.EnsureImage(t.Context(), engine, "alpine", logger.Discard())

		var engineErr *ric.EngineError
		require.ErrorAs(t, err, &engineErr)
		assert.Equal(t, ric.OpList, engineErr.Op)
	})
}

type errReader string

func (e errReader) Read(p []byte) (int, error) {
	n := copy(p, e)

	return n, errors.New("connection reset")
}
