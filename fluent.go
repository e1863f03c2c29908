package ric

import "strings"

// Builder provides a fluent API for constructing an Invocation.
// Exactly one of Image or Container must be set before Build.
type Builder struct {
	image     ImageRef
	container string
	command   Command
	mounts    []Mount
	workDir   string
	root      bool
	name      string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// FromImage starts a NewContainer invocation.
func FromImage(image string) *Builder {
	return NewBuilder().Image(image)
}

// InContainer starts an ExistingContainer invocation.
func InContainer(name string) *Builder {
	return NewBuilder().Container(name)
}

// Image selects the image of a fresh container.
func (b *Builder) Image(image string) *Builder {
	b.image = ImageRef(strings.TrimSpace(image))
	return b
}

// Container selects an existing container by name or id.
func (b *Builder) Container(name string) *Builder {
	b.container = strings.TrimSpace(name)
	return b
}

// Command sets the argv to run.
func (b *Builder) Command(argv ...string) *Builder {
	b.command = append(Command(nil), argv...)
	return b
}

// Mount adds a bind mount. Mounts keep the order they were added in.
func (b *Builder) Mount(m Mount) *Builder {
	b.mounts = append(b.mounts, m)
	return b
}

// Mounts adds several bind mounts.
func (b *Builder) Mounts(ms ...Mount) *Builder {
	b.mounts = append(b.mounts, ms...)
	return b
}

// WorkDir sets the host directory mounted at ContainerWorkDir.
func (b *Builder) WorkDir(dir string) *Builder {
	b.workDir = dir
	return b
}

// Root runs the command as 0:0 instead of the invoking user.
func (b *Builder) Root(root bool) *Builder {
	b.root = root
	return b
}

// Name sets the name of a fresh container.
func (b *Builder) Name(name string) *Builder {
	b.name = name
	return b
}

// Build returns the constructed Invocation.
// It fails with a ConfigError when neither or both targets are set, or when the command is empty.
func (b *Builder) Build() (Invocation, error) {
	user := CurrentIdentity()
	if b.root {
		user = RootIdentity
	}

	var inv Invocation

	switch {
	case b.image != "" && b.container != "":
		return nil, &ConfigError{Err: ErrBothTargets}
	case b.image != "":
		inv = NewContainer{
			Image:   b.image,
			Command: b.command,
			Mounts:  b.mounts,
			WorkDir: b.workDir,
			User:    user,
			Name:    b.name,
		}
	case b.container != "":
		inv = ExistingContainer{
			Target:  b.container,
			Command: b.command,
			User:    user,
		}
	default:
		return nil, &ConfigError{Err: ErrNoTarget}
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	return inv, nil
}
