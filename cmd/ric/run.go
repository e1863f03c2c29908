package main

import (
	"context"
	"fmt"

	"github.com/ruffel/ric"
	"github.com/ruffel/ric/mountutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func (a *app) run(cmd *cobra.Command, v *viper.Viper, args []string) error {
	log := newLogger(a.stderr, v.GetString(flagLogLevel))

	// Cobra strips the "--" separator; flag parsing stops at the first argument.
	command := ric.Command(args)

	if command.Empty() {
		_, _ = fmt.Fprintln(a.stderr, warnStyle.Render("Warning: ")+"no command given, nothing to do")

		return nil
	}

	mounts, err := mountSpecs(cmd, v)
	if err != nil {
		return &ric.ConfigError{Err: err}
	}

	inv, err := ric.NewBuilder().
		Image(v.GetString(flagImage)).
		Container(v.GetString(flagContainer)).
		Command(command...).
		Mounts(mounts...).
		Root(v.GetBool(flagRoot)).
		Build()
	if err != nil {
		return err
	}

	engine, err := a.connect(cmd.Context(), v.GetString(flagHost))
	if err != nil {
		return err
	}

	defer func() { _ = engine.Close() }()

	runner := ric.NewRunner(engine,
		ric.WithStdout(a.stdout),
		ric.WithStderr(a.stderr),
		ric.WithLogger(log),
		ric.WithSignals(a.signals),
	)

	result, err := runner.Run(cmd.Context(), inv)
	if err != nil {
		return err
	}

	log.Debug("Command finished", "container", result.ContainerID, "exit_code", result.ExitCode, "duration", result.Duration.String())

	switch {
	case result.Interrupted:
		return &exitCodeError{Code: exitInterrupted, Silent: true}
	case !result.Success() && v.GetBool(flagPropagateExitCode):
		return &exitCodeError{
			Code:   result.ExitCode,
			Err:    &ric.ExitError{Command: command, ExitCode: result.ExitCode},
			Silent: true,
		}
	case !result.Success():
		log.Info("Command exited with a non-zero code", "exit_code", result.ExitCode)
	}

	return nil
}

// connect creates the engine client and checks the daemon answers.
func (a *app) connect(ctx context.Context, host string) (ric.Engine, error) {
	engine, err := a.newEngine(host)
	if err != nil {
		return nil, &ric.EngineError{Op: ric.OpConnect, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := engine.Ping(ctx); err != nil {
		_ = engine.Close()

		return nil, &ric.EngineError{Op: ric.OpConnect, Err: err}
	}

	return engine, nil
}

// mountSpecs returns the --mounts flags, or the RIC_MOUNTS list when no flag was given.
func mountSpecs(cmd *cobra.Command, v *viper.Viper) ([]ric.Mount, error) {
	var specs []string

	if cmd.Flags().Changed(flagMounts) {
		flagSpecs, err := cmd.Flags().GetStringArray(flagMounts)
		if err != nil {
			return nil, err
		}

		specs = flagSpecs
	} else if list := v.GetString(flagMounts); list != "" {
		envSpecs, err := mountutil.SplitList(list)
		if err != nil {
			return nil, err
		}

		specs = envSpecs
	}

	return mountutil.ParseAll(specs)
}
