// Package config loads runtime configuration for the My Passion Path client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c or -config.
//  3. PASSIONPATH_* environment variables.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-s string   public storage base URL
//	-o          offline mode
//	-l string   log level
//
// # File schema
//
//	server_endpoint_addr: 127.0.0.1:50051
//	storage_public_url: http://127.0.0.1:9000
//	offline: false
//	log_level: warn
package config
