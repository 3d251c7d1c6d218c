package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, "http://127.0.0.1:9000", c.StoragePublicURL)
	assert.False(t, c.Offline)
	assert.Equal(t, "warn", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "127.0.0.1:50051", cfg.ServerEndpointAddr)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempFile(t, "client.yaml", "server_endpoint_addr: file:1\nstorage_public_url: http://file\nlog_level: debug\n")
	t.Setenv("PASSIONPATH_STORAGE_PUBLIC_URL", "http://env")
	os.Args = []string{"testbin", "-c", path, "-l", "error"}

	cfg := LoadConfig()

	assert.Equal(t, "file:1", cfg.ServerEndpointAddr)
	assert.Equal(t, "http://env", cfg.StoragePublicURL)
	assert.Equal(t, "error", cfg.LogLevel)
}
