package docker

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("default", func(t *testing.T) {
		t.Parallel()

		engine, err := New()
		require.NoError(t, err)
		t.Cleanup(func() { _ = engine.Close() })

		assert.NotEmpty(t, engine.Host())
	})

	t.Run("explicit host", func(t *testing.T) {
		t.Parallel()

		engine, err := New(WithHost("tcp://127.0.0.1:2375"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = engine.Close() })

		assert.Equal(t, "tcp://127.0.0.1:2375", engine.Host())
	})

	t.Run("invalid host", func(t *testing.T) {
		t.Parallel()

		_, err := New(WithHost("localhost"))
		require.Error(t, err)
	})
}

func TestEngine_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	engine, err := New()
	require.NoError(t, err)

	require.NoError(t, engine.Close())
	require.NoError(t, engine.Close())
	require.Error(t, engine.Ping(t.Context()))
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty uses environment",
			config:  Config{},
			wantErr: false,
		},
		{
			name:    "unix socket",
			config:  Config{Host: DefaultHost},
			wantErr: false,
		},
		{
			name:    "missing scheme",
			config:  Config{Host: "/var/run/docker.sock"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ClientOpts(t *testing.T) {
	t.Parallel()

	assert.Len(t, Config{}.ClientOpts(), 2)
	assert.Len(t, Config{Host: DefaultHost, Version: "1.45", HTTPClient: &http.Client{}}.ClientOpts(), 5)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	c := newConfig([]Option{WithHost("unix:///tmp/d.sock"), WithVersion("1.44"), WithHTTPClient(http.DefaultClient)})

	assert.Equal(t, "unix:///tmp/d.sock", c.Host)
	assert.Equal(t, "1.44", c.Version)
	assert.Same(t, http.DefaultClient, c.HTTPClient)

	WithConfig(Config{Host: "tcp://h:1"})(&c)
	assert.Equal(t, Config{Host: "tcp://h:1"}, c)
}
