package ric

import (
	"context"
	"strings"
)

// BuildCreateRequest translates a NewContainer invocation into a container configuration.
//
// User mounts keep their order and hostDir is always mounted last at
// ContainerWorkDir, which is also the working directory.
func BuildCreateRequest(inv NewContainer, hostDir string) CreateRequest {
	binds := make([]string, 0, len(inv.Mounts)+1)
	for _, m := range inv.Mounts {
		binds = append(binds, m.String())
	}

	binds = append(binds, Mount{HostPath: hostDir, ContainerPath: ContainerWorkDir}.String())

	return CreateRequest{
		Name:       inv.Name,
		Image:      inv.Image.Qualified(),
		Cmd:        inv.Command.Argv(),
		Binds:      binds,
		WorkingDir: ContainerWorkDir,
		User:       inv.User.String(),
		Labels:     map[string]string{ManagedLabel: "true"},
	}
}

// BuildExecRequest translates an ExistingContainer invocation into an exec configuration.
// Only stdout and stderr are attached; there is no interactive stdin.
func BuildExecRequest(inv ExistingContainer) ExecRequest {
	return ExecRequest{
		Cmd:          inv.Command.Argv(),
		User:         inv.User.String(),
		AttachStdout: true,
		AttachStderr: true,
	}
}

// ResolveContainer finds the running container called name.
//
// The engine's name filter also matches substrings, so an exact name (or id)
// match wins. Otherwise a single candidate is accepted and several candidates
// are ambiguous.
func ResolveContainer(ctx context.Context, engine Engine, name string) (ContainerSummary, error) {
	matches, err := engine.ListContainers(ctx, name)
	if err != nil {
		return ContainerSummary{}, &EngineError{Op: OpList, Err: err}
	}

	if len(matches) == 0 {
		return ContainerSummary{}, &ResolutionError{Name: name, Err: ErrNotFound}
	}

	for _, c := range matches {
		if c.ID == name || c.HasName(name) {
			return c, nil
		}
	}

	if len(matches) == 1 {
		return matches[0], nil
	}

	candidates := make([]string, 0, len(matches))
	for _, c := range matches {
		candidates = append(candidates, displayName(c))
	}

	return ContainerSummary{}, &ResolutionError{Name: name, Candidates: candidates, Err: ErrAmbiguous}
}

func displayName(c ContainerSummary) string {
	if len(c.Names) > 0 {
		return strings.TrimPrefix(c.Names[0], "/")
	}

	return c.ID
}
