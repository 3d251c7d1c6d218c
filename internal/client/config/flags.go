package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/passionpath/internal/flagx"
)

// parseFlags reads selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   address:port of the backend gRPC endpoint
//	-s string   public storage base URL
//	-o          offline mode (use -o=true / -o=false when followed by other arguments)
//	-l string   log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-o", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerEndpointAddr, "a", config.ServerEndpointAddr, "address and port of the server")
	fs.StringVar(&config.StoragePublicURL, "s", config.StoragePublicURL, "public storage base URL")
	fs.BoolVar(&config.Offline, "o", config.Offline, "run without a server")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
