package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "sqlite:pp.db", "-s", "secret",
			"-t", "1", "-r", "3", "-u", "user", "-p", "password", "-b", "dev-", "-g", "us-west-1", "-e", "http://endpoint", "-l", "debug",
		},
			expected: &Config{
				EndpointAddrGRPC:             "127.0.0.1:9090",
				DatabaseDSN:                  "sqlite:pp.db",
				SecretKey:                    "secret",
				AccessTokenValidityDuration:  1 * time.Minute,
				RefreshTokenValidityDuration: 3 * time.Minute,
				S3RootUser:                   "user",
				S3RootPassword:               "password",
				S3BucketPrefix:               "dev-",
				S3Region:                     "us-west-1",
				S3BaseEndpoint:               "http://endpoint",
				LogLevel:                     "debug",
			}},
		{name: "non-numeric duration", args: []string{"cmd", "-t", "soon"}, expectPanic: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}
			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
