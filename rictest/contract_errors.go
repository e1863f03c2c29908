package rictest

import (
	"github.com/ruffel/ric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unknownContainer = "rictest-does-not-exist-7f3a"

func errorContracts() []TestCase {
	return []TestCase{
		{
			Category:    CategoryErrors,
			Name:        "remove-unknown-is-not-found",
			Description: "Removing an unknown container must wrap ric.ErrNotFound",
			Run: func(t T, engine ric.Engine) {
				err := engine.RemoveContainer(t.Context(), unknownContainer)
				require.ErrorIs(t, err, ric.ErrNotFound)
			},
		},
		{
			Category:    CategoryErrors,
			Name:        "kill-unknown-is-not-found",
			Description: "Killing an unknown container must wrap ric.ErrNotFound",
			Run: func(t T, engine ric.Engine) {
				err := engine.KillContainer(t.Context(), unknownContainer)
				require.ErrorIs(t, err, ric.ErrNotFound)
			},
		},
		{
			Category:    CategoryErrors,
			Name:        "list-unknown-is-empty",
			Description: "Listing an unknown name must succeed with no matches",
			Run: func(t T, engine ric.Engine) {
				list, err := engine.ListContainers(t.Context(), unknownContainer)
				require.NoError(t, err)
				assert.Empty(t, list)
			},
		},
		{
			Category:    CategoryErrors,
			Name:        "resolve-unknown-is-resolution-error",
			Description: "Resolving an unknown name must return a *ric.ResolutionError",
			Run: func(t T, engine ric.Engine) {
				_, err := ric.ResolveContainer(t.Context(), engine, unknownContainer)

				var resErr *ric.ResolutionError
				require.ErrorAs(t, err, &resErr)
				require.ErrorIs(t, err, ric.ErrNotFound)
			},
		},
		{
			Category:    CategoryErrors,
			Name:        "teardown-unknown-succeeds",
			Description: "Teardown must treat a missing container as removed",
			Run: func(t T, engine ric.Engine) {
				require.NoError(t, ric.Teardown(t.Context(), engine, unknownContainer))
			},
		},
	}
}
