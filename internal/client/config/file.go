package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/passionpath/internal/flagx"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the client configuration. Offline is a
// pointer so that an explicit false in the file can override a true default.
type FileConfig struct {
	ServerEndpointAddr string `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	StoragePublicURL   string `json:"storage_public_url" yaml:"storage_public_url"`
	Offline            *bool  `json:"offline" yaml:"offline"`
	LogLevel           string `json:"log_level" yaml:"log_level"`
}

// parseFile overlays cfg with the file named by -c/-config (JSON, or YAML for
// .yaml/.yml). Read or decode errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	if fc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = fc.ServerEndpointAddr
	}
	if fc.StoragePublicURL != "" {
		cfg.StoragePublicURL = fc.StoragePublicURL
	}
	if fc.Offline != nil {
		cfg.Offline = *fc.Offline
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
}

func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
