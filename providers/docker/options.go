package docker

import "net/http"

// Option adjusts the Config used by New.
type Option func(*Config)

// WithConfig replaces the whole Config, e.g. one loaded by the CLI.
func WithConfig(c Config) Option {
	return func(dst *Config) { *dst = c }
}

// WithHost points the client at a daemon address such as "unix:///run/user/1000/docker.sock".
// It takes precedence over DOCKER_HOST.
func WithHost(host string) Option {
	return func(c *Config) { c.Host = host }
}

// WithVersion pins the Engine API version instead of negotiating it.
func WithVersion(version string) Option {
	return func(c *Config) { c.Version = version }
}

// WithHTTPClient supplies the transport, typically for TLS to a remote daemon.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Config) { c.HTTPClient = hc }
}

func newConfig(opts []Option) Config {
	var c Config
	for _, o := range opts {
		o(&c)
	}

	return c
}
