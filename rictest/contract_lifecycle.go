package rictest

import (
	"strings"

	"github.com/ruffel/ric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitExitCode = 23

func lifecycleContracts() []TestCase {
	return []TestCase{
		{
			Category:    CategoryLifecycle,
			Name:        "logs-follow-until-exit",
			Description: "Logs must carry both streams and end when the container exits",
			Prereq:      imagePresent,
			Run: func(t T, engine ric.Engine) {
				id, _ := createContainer(t, engine, "sh", "-c", "echo out; echo err >&2")
				require.NoError(t, engine.StartContainer(t.Context(), id))

				logs, err := engine.ContainerLogs(t.Context(), id)
				require.NoError(t, err)

				defer func() { _ = logs.Close() }()

				stdout, stderr := relayed(t, logs)
				assert.Equal(t, "out", strings.TrimSpace(stdout))
				assert.Equal(t, "err", strings.TrimSpace(stderr))

				code, err := engine.WaitContainer(t.Context(), id)
				require.NoError(t, err)
				assert.Equal(t, int64(0), code)
			},
		},
		{
			Category:    CategoryLifecycle,
			Name:        "wait-reports-exit-code",
			Description: "WaitContainer must return the contained process's exit code",
			Prereq:      imagePresent,
			Run: func(t T, engine ric.Engine) {
				id, _ := createContainer(t, engine, "sh", "-c", "exit 23")
				require.NoError(t, engine.StartContainer(t.Context(), id))

				code, err := engine.WaitContainer(t.Context(), id)
				require.NoError(t, err)
				assert.Equal(t, int64(waitExitCode), code)
			},
		},
		{
			Category:    CategoryLifecycle,
			Name:        "kill-then-remove",
			Description: "A killed container must be removable and then gone",
			Prereq:      imagePresent,
			Run: func(t T, engine ric.Engine) {
				id, _ := startedContainer(t, engine)

				require.NoError(t, engine.KillContainer(t.Context(), id))
				require.NoError(t, ric.Teardown(t.Context(), engine, id))

				err := engine.RemoveContainer(t.Context(), id)
				require.ErrorIs(t, err, ric.ErrNotFound)
			},
		},
		{
			Category:    CategoryLifecycle,
			Name:        "remove-created-container",
			Description: "A container that never started must be removable",
			Prereq:      imagePresent,
			Run: func(t T, engine ric.Engine) {
				id, _ := createContainer(t, engine, "true")
				require.NoError(t, ric.Teardown(t.Context(), engine, id))
			},
		},
	}
}
