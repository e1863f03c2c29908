package rictest

import (
	"github.com/ruffel/ric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coreContracts() []TestCase {
	return []TestCase{
		{
			Category:    CategoryCore,
			Name:        "ping",
			Description: "A reachable engine must answer Ping",
			Run: func(t T, engine ric.Engine) {
				require.NoError(t, engine.Ping(t.Context()))
			},
		},
		{
			Category:    CategoryCore,
			Name:        "image-cached-after-ensure",
			Description: "After EnsureImage the image must be listed locally",
			Prereq:      imagePresent,
			Run: func(t T, engine ric.Engine) {
				images, err := engine.ListImages(t.Context())
				require.NoError(t, err)

				found := false
				for _, img := range images {
					found = found || img.HasTag(ContractImage.Qualified())
				}

				assert.True(t, found, "%s not listed", ContractImage)
			},
		},
	}
}
