package ric

import (
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ruffel/ric/logger"
)

// DefaultCleanupTimeout bounds the kill and remove calls issued during teardown.
const DefaultCleanupTimeout = 30 * time.Second

// DefaultNamePrefix prefixes generated container names.
const DefaultNamePrefix = "ric-"

// SignalSource subscribes to interrupt signals. The returned function stops the subscription.
type SignalSource func() (<-chan os.Signal, func())

// Config holds configuration derived from options.
type Config struct {
	Stdout         io.Writer
	Stderr         io.Writer
	Logger         logger.Logger
	Signals        SignalSource
	WorkDir        string // Host directory mounted at ContainerWorkDir when an invocation leaves it empty
	CleanupTimeout time.Duration
	NamePrefix     string
}

// DefaultConfig returns defaults: process stdio, stderr logging, SIGINT/SIGTERM.
func DefaultConfig() Config {
	return Config{
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		Logger:         logger.Default(),
		Signals:        NotifySignals,
		CleanupTimeout: DefaultCleanupTimeout,
		NamePrefix:     DefaultNamePrefix,
	}
}

// Option defines a functional option for a Runner.
type Option func(*Config)

// WithStdout sets where the command's stdout (and stdin echo) is written.
func WithStdout(w io.Writer) Option {
	return func(c *Config) {
		c.Stdout = w
	}
}

// WithStderr sets where the command's stderr is written.
func WithStderr(w io.Writer) Option {
	return func(c *Config) {
		c.Stderr = w
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithSignals replaces the interrupt signal source.
func WithSignals(src SignalSource) Option {
	return func(c *Config) {
		c.Signals = src
	}
}

// WithWorkDir sets the host directory mounted at ContainerWorkDir.
func WithWorkDir(dir string) Option {
	return func(c *Config) {
		c.WorkDir = dir
	}
}

// WithCleanupTimeout bounds each teardown sequence.
func WithCleanupTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.CleanupTimeout = d
		}
	}
}

// WithNamePrefix sets the prefix of generated container names.
func WithNamePrefix(prefix string) Option {
	return func(c *Config) {
		c.NamePrefix = prefix
	}
}

// NotifySignals subscribes to SIGINT and SIGTERM.
func NotifySignals() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	return ch, func() { signal.Stop(ch) }
}
