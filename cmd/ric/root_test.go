package main

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/ruffel/ric"
	ricmock "github.com/ruffel/ric/providers/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	app

	out   bytes.Buffer
	err   bytes.Buffer
	hosts []string
}

func newTestApp(engine ric.Engine) *testApp {
	ta := &testApp{}
	ta.app = app{
		stdout: &ta.out,
		stderr: &ta.err,
		newEngine: func(host string) (ric.Engine, error) {
			ta.hosts = append(ta.hosts, host)

			return engine, nil
		},
		signals: func() (<-chan os.Signal, func()) {
			return make(chan os.Signal), func() {}
		},
	}

	return ta
}

// expectNewContainer sets up a successful fresh-container run that exits with code.
func expectNewContainer(engine *ricmock.Engine, image string, code int64) {
	engine.On("Ping", mock.Anything).Return(nil)
	engine.On("ListImages", mock.Anything).Return([]ric.Image{{ID: "sha256:1", RepoTags: []string{image}}}, nil)
	engine.On("CreateContainer", mock.Anything, mock.MatchedBy(func(req ric.CreateRequest) bool {
		return req.Image == image
	})).Return("c1", nil)
	engine.On("StartContainer", mock.Anything, "c1").Return(nil)
	engine.On("ContainerLogs", mock.Anything, "c1").Return(ricmock.Stream(ricmock.Stdout("hello\n")), nil)
	engine.On("WaitContainer", mock.Anything, "c1").Return(code, nil)
	engine.On("RemoveContainer", mock.Anything, "c1").Return(nil)
	engine.On("Close").Return(nil)
}

func TestExecute_ConfigErrorsBeforeEngine(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "neither image nor container",
			args:    []string{"--", "ls"},
			wantErr: "must provide either an image or a container",
		},
		{
			name:    "both flags",
			args:    []string{"-i", "debian", "-c", "box", "--", "ls"},
			wantErr: "cannot be used together",
		},
		{
			name:    "flag and env conflict",
			args:    []string{"-i", "debian", "--", "ls"},
			env:     map[string]string{"RIC_CONTAINER": "box"},
			wantErr: "cannot be used together",
		},
		{
			name:    "bad mount",
			args:    []string{"-i", "debian", "-m", "/data", "--", "ls"},
			wantErr: "invalid mount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			engine := ricmock.New()
			ta := newTestApp(engine)
			code := ta.execute(tt.args)

			assert.Equal(t, exitError, code)
			assert.Contains(t, ta.err.String(), tt.wantErr)
			assert.Empty(t, ta.hosts, "no engine may be created")
			engine.AssertNotCalled(t, "Ping", mock.Anything)
		})
	}
}

func TestExecute_EmptyCommand(t *testing.T) {
	engine := ricmock.New()
	ta := newTestApp(engine)

	code := ta.execute([]string{"--image", "debian"})

	assert.Equal(t, exitOK, code)
	assert.Contains(t, ta.err.String(), "no command given")
	assert.Empty(t, ta.hosts)
	engine.AssertExpectations(t)
}

func TestExecute_EmptyCommandWithoutTarget(t *testing.T) {
	ta := newTestApp(ricmock.New())

	assert.Equal(t, exitOK, ta.execute(nil))
	assert.Empty(t, ta.hosts)
}

func TestExecute_FlagOverridesEnv(t *testing.T) {
	t.Setenv("RIC_IMAGE", "env-image")
	t.Setenv("RIC_HOST", "tcp://env:2375")

	engine := ricmock.New()
	expectNewContainer(engine, "flag-image:latest", 0)

	ta := newTestApp(engine)
	code := ta.execute([]string{"--image", "flag-image", "--host", "tcp://flag:2375", "--", "echo", "hello"})

	require.Equal(t, exitOK, code, ta.err.String())
	assert.Equal(t, "hello\n", ta.out.String())
	assert.Equal(t, []string{"tcp://flag:2375"}, ta.hosts)
	engine.AssertExpectations(t)
}

func TestExecute_CommandWithoutSeparator(t *testing.T) {
	engine := ricmock.New()
	expectNewContainer(engine, "debian:latest", 0)

	ta := newTestApp(engine)
	require.Equal(t, exitOK, ta.execute([]string{"-i", "debian", "echo", "-n", "hi"}), ta.err.String())

	engine.AssertCalled(t, "CreateContainer", mock.Anything, mock.MatchedBy(func(req ric.CreateRequest) bool {
		return assert.ObjectsAreEqual([]string{"echo", "-n", "hi"}, req.Cmd)
	}))
}

func TestExecute_EnvOnly(t *testing.T) {
	t.Setenv("RIC_IMAGE", "env-image")
	t.Setenv("RIC_ROOT", "true")
	t.Setenv("RIC_MOUNTS", `/a:/a "/my docs:/docs:ro"`)

	engine := ricmock.New()
	expectNewContainer(engine, "env-image:latest", 0)

	ta := newTestApp(engine)
	require.Equal(t, exitOK, ta.execute([]string{"--", "ls"}), ta.err.String())

	engine.AssertCalled(t, "CreateContainer", mock.Anything, mock.MatchedBy(func(req ric.CreateRequest) bool {
		return req.User == string(ric.RootIdentity) &&
			len(req.Binds) == 3 &&
			req.Binds[0] == "/a:/a" &&
			req.Binds[1] == "/my docs:/docs:ro"
	}))
}

func TestExecute_MountFlagsReplaceEnv(t *testing.T) {
	t.Setenv("RIC_MOUNTS", "/env:/env")

	engine := ricmock.New()
	expectNewContainer(engine, "debian:latest", 0)

	ta := newTestApp(engine)
	require.Equal(t, exitOK, ta.execute([]string{"-i", "debian", "-m", "/b:/b", "-m", "/a:/a", "--", "ls"}))

	engine.AssertCalled(t, "CreateContainer", mock.Anything, mock.MatchedBy(func(req ric.CreateRequest) bool {
		return len(req.Binds) == 3 && req.Binds[0] == "/b:/b" && req.Binds[1] == "/a:/a"
	}))
}

func TestExecute_ExitCode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "not propagated by default", args: []string{"-i", "debian", "--", "false"}, want: exitOK},
		{name: "propagated on request", args: []string{"-i", "debian", "--propagate-exit-code", "--", "false"}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := ricmock.New()
			expectNewContainer(engine, "debian:latest", 3)

			ta := newTestApp(engine)
			assert.Equal(t, tt.want, ta.execute(tt.args))
			assert.NotContains(t, ta.err.String(), "Error:")
		})
	}
}

func TestExecute_EngineUnreachable(t *testing.T) {
	engine := ricmock.New()
	engine.On("Ping", mock.Anything).Return(errors.New("dial unix /var/run/docker.sock: connect: no such file or directory"))
	engine.On("Close").Return(nil)

	ta := newTestApp(engine)
	code := ta.execute([]string{"-i", "debian", "--", "ls"})

	assert.Equal(t, exitError, code)
	assert.Contains(t, ta.err.String(), "container engine unreachable")
	assert.Contains(t, ta.err.String(), "Docker daemon")
	engine.AssertNotCalled(t, "ListImages", mock.Anything)
}

func TestExecute_ExistingContainer(t *testing.T) {
	engine := ricmock.New()
	engine.On("Ping", mock.Anything).Return(nil)
	engine.On("ListContainers", mock.Anything, "run_in_container").
		Return([]ric.ContainerSummary{{ID: "abc", Names: []string{"/run_in_container"}, State: "running"}}, nil)
	engine.On("CreateExec", mock.Anything, "abc", mock.Anything).Return("exec1", nil)
	engine.On("AttachExec", mock.Anything, "exec1").Return(ricmock.Stream(ricmock.Stdout("bin\netc\n")), nil)
	engine.On("InspectExec", mock.Anything, "exec1").Return(ric.ExecState{ExitCode: 0}, nil)
	engine.On("Close").Return(nil)

	ta := newTestApp(engine)
	require.Equal(t, exitOK, ta.execute([]string{"--container", "run_in_container", "--", "ls", "/"}))

	assert.Equal(t, "bin\netc\n", ta.out.String())
	engine.AssertNotCalled(t, "KillContainer", mock.Anything, mock.Anything)
	engine.AssertNotCalled(t, "RemoveContainer", mock.Anything, mock.Anything)
}

func TestExecute_AmbiguousContainer(t *testing.T) {
	engine := ricmock.New()
	engine.On("Ping", mock.Anything).Return(nil)
	engine.On("ListContainers", mock.Anything, "web").Return([]ric.ContainerSummary{
		{ID: "a", Names: []string{"/web-1"}},
		{ID: "b", Names: []string{"/web-2"}},
	}, nil)
	engine.On("Close").Return(nil)

	ta := newTestApp(engine)

	assert.Equal(t, exitError, ta.execute([]string{"-c", "web", "--", "ls"}))
	assert.Contains(t, ta.err.String(), "web-1, web-2")
	assert.Contains(t, ta.err.String(), "full container name")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitError, exitCode(errors.New("boom")))
	assert.Equal(t, exitInterrupted, exitCode(&exitCodeError{Code: exitInterrupted, Silent: true}))
}
