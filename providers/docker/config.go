package docker

import (
	"errors"
	"net/http"
	"strings"

	"github.com/docker/docker/client"
)

// DefaultHost is the engine's well-known local control socket.
const DefaultHost = client.DefaultDockerHost

// Config selects the daemon the Engine talks to.
type Config struct {
	Host       string       // Daemon address; empty means DOCKER_HOST, then DefaultHost
	Version    string       // API version; empty means negotiate on Ping
	HTTPClient *http.Client // Optional transport override
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Host != "" && !strings.Contains(c.Host, "://") {
		return errors.New("host must include a scheme, e.g. unix:// or tcp://")
	}

	return nil
}

// ClientOpts returns the client options for c. The environment (DOCKER_HOST,
// DOCKER_TLS_VERIFY, DOCKER_CERT_PATH) is read first so explicit fields win.
func (c Config) ClientOpts() []client.Opt {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}

	if c.Host != "" {
		opts = append(opts, client.WithHost(c.Host))
	}

	if c.Version != "" {
		opts = append(opts, client.WithVersion(c.Version))
	}

	if c.HTTPClient != nil {
		opts = append(opts, client.WithHTTPClient(c.HTTPClient))
	}

	return opts
}
