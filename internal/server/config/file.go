package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/passionpath/internal/flagx"
	"github.com/dmitrijs2005/passionpath/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Durations accept
// strings such as "15m" or integer nanoseconds.
type FileConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN                  string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                    string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration"`
	S3RootUser                   string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3BucketPrefix               string         `json:"s3_bucket_prefix" yaml:"s3_bucket_prefix"`
	S3Region                     string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	LogLevel                     string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays cfg with the file named by -c/-config. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON. Only fields
// present in the file are copied. Read or decode errors panic.
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

	setString(&cfg.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.SecretKey, fc.SecretKey)
	if fc.AccessTokenValidityDuration.Duration > 0 {
		cfg.AccessTokenValidityDuration = fc.AccessTokenValidityDuration.Duration
	}
	if fc.RefreshTokenValidityDuration.Duration > 0 {
		cfg.RefreshTokenValidityDuration = fc.RefreshTokenValidityDuration.Duration
	}
	setString(&cfg.S3RootUser, fc.S3RootUser)
	setString(&cfg.S3RootPassword, fc.S3RootPassword)
	setString(&cfg.S3BucketPrefix, fc.S3BucketPrefix)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&cfg.LogLevel, fc.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseEnv overlays cfg with PASSIONPATH_* variables; unset variables keep
// the current value.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
