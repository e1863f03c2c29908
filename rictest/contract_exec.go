package rictest

import (
	"strings"

	"github.com/ruffel/ric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execContracts() []TestCase {
	return []TestCase{
		{
			Category:    CategoryExec,
			Name:        "resolve-by-name",
			Description: "A running container must resolve by its name",
			Prereq:      imagePresent,
			Run: func(t T, engine ric.Engine) {
				id, name := startedContainer(t, engine)

				got, err := ric.ResolveContainer(t.Context(), engine, name)
				require.NoError(t, err)
				assert.Equal(t, id, got.ID)
			},
		},
		{
			Category:    CategoryExec,
			Name:        "exec-output-and-exit-code",
			Description: "Exec output must be relayed and its exit code inspectable",
			Prereq:      imagePresent,
			Run: func(t T, engine ric.Engine) {
				id, _ := startedContainer(t, engine)

				execID, err := engine.CreateExec(t.Context(), id, ric.ExecRequest{
					Cmd:          []string{"sh", "-c", "echo hello; exit 3"},
					AttachStdout: true,
					AttachStderr: true,
				})
				require.NoError(t, err)

				stream, err := engine.AttachExec(t.Context(), execID)
				require.NoError(t, err)

				defer func() { _ = stream.Close() }()

				stdout, _ := relayed(t, stream)
				assert.Equal(t, "hello", strings.TrimSpace(stdout))

				require.Eventually(t, func() bool {
					state, err := engine.InspectExec(t.Context(), execID)

					return err == nil && !state.Running && state.ExitCode == 3
				}, cleanupTimeout, pollInterval)
			},
		},
		{
			Category:    CategoryExec,
			Name:        "exec-leaves-container-running",
			Description: "Running a command in an existing container must not stop it",
			Prereq:      imagePresent,
			Run: func(t T, engine ric.Engine) {
				id, name := startedContainer(t, engine)

				result, err := ric.NewRunner(engine, ric.WithLogger(discard())).
					Run(t.Context(), ric.ExistingContainer{Target: name, Command: ric.Command{"ls", "/"}, User: ric.RootIdentity})
				require.NoError(t, err)
				assert.True(t, result.Success())

				got, err := ric.ResolveContainer(t.Context(), engine, name)
				require.NoError(t, err)
				assert.Equal(t, id, got.ID)
				assert.Equal(t, "running", got.State)
			},
		},
	}
}
