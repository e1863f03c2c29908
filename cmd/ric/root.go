package main

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/ruffel/ric"
	"github.com/ruffel/ric/logger"
	"github.com/ruffel/ric/providers/docker"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix   = "RIC"
	pingTimeout = 10 * time.Second
)

// Flag names, also the viper keys. RIC_<NAME> in the environment sets the same value.
const (
	flagImage             = "image"
	flagContainer         = "container"
	flagMounts            = "mounts"
	flagRoot              = "root"
	flagHost              = "host"
	flagLogLevel          = "log-level"
	flagPropagateExitCode = "propagate-exit-code"
)

// engineFactory connects to the engine at host. An empty host means the environment default.
type engineFactory func(host string) (ric.Engine, error)

type app struct {
	stdout    io.Writer
	stderr    io.Writer
	newEngine engineFactory
	signals   ric.SignalSource
}

func newDockerEngine(host string) (ric.Engine, error) {
	var opts []docker.Option
	if host != "" {
		opts = append(opts, docker.WithHost(host))
	}

	return docker.New(opts...)
}

// execute runs the CLI with args and returns the process exit code.
func (a *app) execute(args []string) int {
	cmd := a.newRootCmd()
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	if err != nil {
		report(a.stderr, err)
	}

	return exitCode(err)
}

func (a *app) newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "ric [flags] -- command [args...]",
		Short: "Run a command in a container",
		Long: `Runs a command in a fresh container created from --image, or inside a running
container named by --container, and relays its output.

The current directory is mounted at /tmp in fresh containers, which are always
removed afterwards, including on Ctrl-C.`,
		Example: `  ric --image debian -- ls -l
  ric -i alpine -m /data:/data:ro -- "cat /data/*.txt | wc -l"
  RIC_CONTAINER=builder ric --root -- make install`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, v, args)
		},
	}

	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	flags := cmd.Flags()
	flags.SetInterspersed(false)

	flags.StringP(flagImage, "i", "", "image for a fresh container (env RIC_IMAGE)")
	flags.StringP(flagContainer, "c", "", "running container to exec into (env RIC_CONTAINER)")
	flags.StringArrayP(flagMounts, "m", nil, "bind mount host:container[:mode], repeatable (env RIC_MOUNTS, shell-quoted list)")
	flags.BoolP(flagRoot, "r", false, "run as root instead of the current uid:gid (env RIC_ROOT)")
	flags.String(flagHost, "", "Docker daemon address, defaults to DOCKER_HOST (env RIC_HOST)")
	flags.String(flagLogLevel, "warn", "log level: debug, info, warn, error (env RIC_LOG_LEVEL)")
	flags.Bool(flagPropagateExitCode, false, "exit with the command's exit code (env RIC_PROPAGATE_EXIT_CODE)")

	bindConfig(v, flags)

	return cmd
}

// bindConfig wires flags and RIC_* variables into v, flags taking precedence.
// Mounts are left out: their environment form is a shell-quoted list, see mountSpecs.
func bindConfig(v *viper.Viper, flags *pflag.FlagSet) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == flagMounts {
			return
		}

		// Only fails for a nil flag.
		_ = v.BindPFlag(f.Name, f)
	})
}

func newLogger(w io.Writer, level string) logger.Logger {
	return logger.New("ric", w, level)
}
