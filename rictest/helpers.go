package rictest

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/ruffel/ric"
	"github.com/ruffel/ric/logger"
	"github.com/stretchr/testify/require"
)

const (
	cleanupTimeout = 30 * time.Second
	pollInterval   = 100 * time.Millisecond
)

// imagePresent pulls ContractImage if needed.
func imagePresent(t T, engine ric.Engine) (bool, string) {
	if err := ric.EnsureImage(t.Context(), engine, ContractImage, logger.Discard()); err != nil {
		return false, err.Error()
	}

	return true, ""
}

// createContainer creates a labelled container from ContractImage and removes it when the test ends.
// It returns the container's id and name.
func createContainer(t T, engine ric.Engine, cmd ...string) (string, string) {
	name := "rictest-" + uuid.NewString()[:8]
	req := ric.CreateRequest{
		Name:       name,
		Image:      ContractImage.Qualified(),
		Cmd:        cmd,
		WorkingDir: "/",
		Labels:     map[string]string{ric.ManagedLabel: "true"},
	}

	id, err := engine.CreateContainer(t.Context(), req)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()

		_ = ric.Teardown(ctx, engine, id)
	})

	return id, name
}

// startedContainer creates and starts a container that stays up until killed.
func startedContainer(t T, engine ric.Engine) (string, string) {
	id, name := createContainer(t, engine, "sleep", "300")
	require.NoError(t, engine.StartContainer(t.Context(), id))

	return id, name
}

// relayed runs Relay over stream and returns what was written to stdout and stderr.
func relayed(t T, stream io.Reader) (string, string) {
	var stdout, stderr bytes.Buffer

	require.NoError(t, ric.Relay(stream, &stdout, &stderr))

	return stdout.String(), stderr.String()
}

func discard() logger.Logger {
	return logger.Discard()
}
