package ric

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

// ContainerWorkDir is the directory inside a new container where the caller's
// working directory is mounted and where the command runs.
const ContainerWorkDir = "/tmp"

// ManagedLabel marks containers created by ric.
const ManagedLabel = "ric.managed"

const defaultTag = "latest"

// ImageRef identifies an image as "repository[:tag]".
type ImageRef string

// Qualified returns the reference with ":latest" appended when it carries no tag.
// A reference containing a colon is returned unchanged.
func (r ImageRef) Qualified() string {
	s := string(r)
	if strings.Contains(s, ":") {
		return s
	}

	return s + ":" + defaultTag
}

func (r ImageRef) String() string {
	return string(r)
}

// Mount binds a host path into a container.
type Mount struct {
	HostPath      string
	ContainerPath string
	Mode          string // Optional, e.g. "ro"
}

// String renders the mount in the engine's bind format "host:container[:mode]".
func (m Mount) String() string {
	if m.Mode == "" {
		return m.HostPath + ":" + m.ContainerPath
	}

	return m.HostPath + ":" + m.ContainerPath + ":" + m.Mode
}

// Identity is the "uid:gid" pair a command runs as.
type Identity string

// RootIdentity runs the command as root.
const RootIdentity Identity = "0:0"

// CurrentIdentity returns the uid:gid of the invoking process.
func CurrentIdentity() Identity {
	return Identity(fmt.Sprintf("%d:%d", os.Getuid(), os.Getgid()))
}

func (i Identity) String() string {
	return string(i)
}

// Command is the argv of the contained command.
type Command []string

// Empty reports whether there is nothing to run.
func (c Command) Empty() bool {
	return len(c) == 0
}

// String returns a shell-quoted representation of the command.
func (c Command) String() string {
	return shellquote.Join(c...)
}

// Argv returns the argv passed to the engine.
//
// A single argument that looks like a shell script (whitespace or shell
// operators) is wrapped in "sh -c" so that `ric -- "ls | wc -l"` behaves as it
// would in a local shell.
func (c Command) Argv() []string {
	if len(c) == 1 && isScript(c[0]) {
		return ShellCommand(c[0])
	}

	return []string(c)
}

// ShellCommand returns the argv running script through the POSIX shell.
func ShellCommand(script string) []string {
	return []string{"sh", "-c", script}
}

func isScript(s string) bool {
	return strings.ContainsAny(s, " \t\n|&;<>()$`\\\"'*?")
}

// Invocation is the immutable input to a run: either NewContainer or ExistingContainer.
type Invocation interface {
	// Validate checks the invocation is well-formed.
	Validate() error

	isInvocation()
}

// NewContainer runs the command in a fresh container created from Image.
type NewContainer struct {
	Image   ImageRef
	Command Command
	Mounts  []Mount
	// WorkDir is the host directory mounted at ContainerWorkDir. Defaults to the process working directory.
	WorkDir string
	User    Identity
	// Name of the container. Generated when empty.
	Name string
}

// Validate checks the invocation is well-formed.
func (n NewContainer) Validate() error {
	if strings.TrimSpace(string(n.Image)) == "" {
		return &ConfigError{Err: ErrNoTarget}
	}

	if n.Command.Empty() {
		return &ConfigError{Err: ErrEmptyCommand}
	}

	return nil
}

func (NewContainer) isInvocation() {}

// ExistingContainer execs the command inside a running container it does not own.
type ExistingContainer struct {
	// Target is the container name (or id) to resolve.
	Target  string
	Command Command
	User    Identity
}

// Validate checks the invocation is well-formed.
func (e ExistingContainer) Validate() error {
	if strings.TrimSpace(e.Target) == "" {
		return &ConfigError{Err: ErrNoTarget}
	}

	if e.Command.Empty() {
		return &ConfigError{Err: ErrEmptyCommand}
	}

	return nil
}

func (ExistingContainer) isInvocation() {}

// Result describes a finished run.
type Result struct {
	ContainerID string
	ExitCode    int           // Exit status of the contained command, when observed
	Interrupted bool          // The run was cut short by a signal
	Duration    time.Duration // Time from image resolution to cleanup
}

// Success returns true if the command completed with exit code 0 and was not interrupted.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && !r.Interrupted
}

// Stream identifies the origin channel of a LogEvent.
type Stream int

const (
	// StreamStdout is the command's standard output.
	StreamStdout Stream = iota
	// StreamStderr is the command's standard error.
	StreamStderr
	// StreamStdinEcho is input echoed back by the engine.
	StreamStdinEcho
)

func (s Stream) String() string {
	switch s {
	case StreamStdout:
		return "stdout"
	case StreamStderr:
		return "stderr"
	case StreamStdinEcho:
		return "stdin"
	default:
		return "unknown"
	}
}

// LogEvent is one frame of a demultiplexed container stream.
type LogEvent struct {
	Stream Stream
	Data   []byte
}

// Image is a locally cached image.
type Image struct {
	ID       string
	RepoTags []string
}

// HasTag reports whether ref is one of the image's repo tags.
func (i Image) HasTag(ref string) bool {
	for _, tag := range i.RepoTags {
		if tag == ref {
			return true
		}
	}

	return false
}

// ContainerSummary is an entry of a container list.
type ContainerSummary struct {
	ID    string
	Names []string // As reported by the engine, usually with a leading "/"
	Image string
	State string
}

// HasName reports whether name is one of the container's names.
func (c ContainerSummary) HasName(name string) bool {
	for _, n := range c.Names {
		if strings.TrimPrefix(n, "/") == strings.TrimPrefix(name, "/") {
			return true
		}
	}

	return false
}

// CreateRequest is the configuration of a new container.
type CreateRequest struct {
	Name       string
	Image      string
	Cmd        []string
	Binds      []string // "host:container[:mode]", in mount order
	WorkingDir string
	User       string
	Labels     map[string]string
}

// ExecRequest is the configuration of an exec instance.
type ExecRequest struct {
	Cmd          []string
	User         string
	WorkingDir   string
	AttachStdout bool
	AttachStderr bool
}

// ExecState is the observed state of an exec instance.
type ExecState struct {
	Running  bool
	ExitCode int
}
