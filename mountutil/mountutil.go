// Package mountutil parses bind-mount specifications given on the command line
// or in the environment.
package mountutil

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"github.com/ruffel/ric"
)

// ErrInvalidMount indicates a mount specification that is not "source:container[:options]".
var ErrInvalidMount = errors.New("invalid mount")

// Options accepted in the comma-separated third field, as the engine knows them.
var validOptions = map[string]bool{
	"ro":         true,
	"rw":         true,
	"z":          true,
	"Z":          true,
	"shared":     true,
	"rshared":    true,
	"slave":      true,
	"rslave":     true,
	"private":    true,
	"rprivate":   true,
	"nocopy":     true,
	"consistent": true,
	"cached":     true,
	"delegated":  true,
}

// Parse parses a single "source:container[:options]" specification.
//
// A source starting with "/", "." or "~" is a host path and is made absolute
// relative to the process working directory. Any other source is a named
// volume and is passed through untouched. The container path must be absolute.
func Parse(spec string) (ric.Mount, error) {
	parts := strings.Split(strings.TrimSpace(spec), ":")

	if len(parts) < 2 || len(parts) > 3 {
		return ric.Mount{}, fmt.Errorf("%w %q: expected source:container[:options]", ErrInvalidMount, spec)
	}

	m := ric.Mount{HostPath: parts[0], ContainerPath: parts[1]}
	if len(parts) == 3 {
		m.Mode = parts[2]
	}

	return Normalize(m)
}

// ParseAll parses each specification in order. Order is preserved.
func ParseAll(specs []string) ([]ric.Mount, error) {
	mounts := make([]ric.Mount, 0, len(specs))

	for _, spec := range specs {
		if strings.TrimSpace(spec) == "" {
			continue
		}

		m, err := Parse(spec)
		if err != nil {
			return nil, err
		}

		mounts = append(mounts, m)
	}

	return mounts, nil
}

// SplitList splits a shell-quoted list of specifications, as found in RIC_MOUNTS.
//
//	RIC_MOUNTS='/data:/data "/my docs:/docs:ro"'
func SplitList(list string) ([]string, error) {
	specs, err := shlex.Split(list)
	if err != nil {
		return nil, fmt.Errorf("%w list %q: %w", ErrInvalidMount, list, err)
	}

	return specs, nil
}

// Normalize validates m and makes a host path source absolute.
func Normalize(m ric.Mount) (ric.Mount, error) {
	if m.HostPath == "" || m.ContainerPath == "" {
		return ric.Mount{}, fmt.Errorf("%w %q: empty path", ErrInvalidMount, m.String())
	}

	if !path.IsAbs(m.ContainerPath) {
		return ric.Mount{}, fmt.Errorf("%w %q: container path must be absolute", ErrInvalidMount, m.String())
	}

	if m.Mode != "" {
		for opt := range strings.SplitSeq(m.Mode, ",") {
			if !validOptions[opt] {
				return ric.Mount{}, fmt.Errorf("%w %q: unknown option %q", ErrInvalidMount, m.String(), opt)
			}
		}
	}

	m.ContainerPath = path.Clean(m.ContainerPath)

	if !isHostPath(m.HostPath) {
		return m, nil
	}

	host, err := expandHome(m.HostPath)
	if err != nil {
		return ric.Mount{}, err
	}

	host, err = filepath.Abs(host)
	if err != nil {
		return ric.Mount{}, fmt.Errorf("%w %q: cannot resolve host path: %w", ErrInvalidMount, m.String(), err)
	}

	m.HostPath = host

	return m, nil
}

// isHostPath reports whether source names a host path rather than a named volume.
func isHostPath(source string) bool {
	return strings.HasPrefix(source, "/") || strings.HasPrefix(source, ".") || strings.HasPrefix(source, "~")
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrInvalidMount, p, err)
	}

	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
