package ric

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/ruffel/ric/logger"
)

// EnsureImage makes sure ref is cached locally, pulling it when needed.
//
// The reference is tag-qualified before it is compared against the cache.
// Errors reported inside the pull progress stream are logged and the pull
// carries on; only failing to start the pull is an error.
func EnsureImage(ctx context.Context, engine Engine, ref ImageRef, log logger.Logger) error {
	qualified := ref.Qualified()
	log = log.WithFields("image", qualified)

	images, err := engine.ListImages(ctx)
	if err != nil {
		return &EngineError{Op: OpList, Err: err}
	}

	for _, img := range images {
		if img.HasTag(qualified) {
			log.Debug("Image already downloaded")

			return nil
		}
	}

	log.Info("Pulling image")

	progress, err := engine.PullImage(ctx, qualified)
	if err != nil {
		return &EngineError{Op: OpPull, Err: err}
	}

	defer func() { _ = progress.Close() }()

	drainPull(progress, log)

	return nil
}

// drainPull consumes a pull progress stream to completion.
func drainPull(r io.Reader, log logger.Logger) {
	dec := json.NewDecoder(r)

	for {
		var msg jsonmessage.JSONMessage

		err := dec.Decode(&msg)
		if errors.Is(err, io.EOF) {
			return
		}

		if err != nil {
			log.Error("Failed to read pull progress", err)

			return
		}

		if msg.Error != nil {
			log.Error("Pull reported an error", "layer", msg.ID, "error", msg.Error.Message)

			continue
		}

		log.Debug(msg.Status, "layer", msg.ID)
	}
}
