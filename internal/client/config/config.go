package config

// Config holds runtime settings for the My Passion Path terminal client.
//
// Fields:
//   - ServerEndpointAddr: host:port of the record-store gRPC endpoint.
//   - StoragePublicURL: base URL under which stored blobs are publicly readable,
//     e.g. "http://127.0.0.1:9000". Empty disables public links.
//   - Offline: run against the disconnected gateway; reads come back empty and
//     every write or auth call fails.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerEndpointAddr string `env:"PASSIONPATH_SERVER_ADDR"`
	StoragePublicURL   string `env:"PASSIONPATH_STORAGE_PUBLIC_URL"`
	Offline            bool   `env:"PASSIONPATH_OFFLINE"`
	LogLevel           string `env:"PASSIONPATH_CLIENT_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.StoragePublicURL = "http://127.0.0.1:9000"
	c.Offline = false
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the -c/-config file, the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
