// Package flagx helps several configuration layers share os.Args without
// tripping over each other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the subset of args made of allowedFlags and their values.
//
// Both "-c conf.json" and "--config=conf.json" forms are recognised. A token
// following an allowed flag is treated as its value unless it starts with "-".
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}
	return filtered
}

// ConfigFileFlag extracts the configuration file path passed with -c or
// -config. Other arguments are ignored; an empty string means no file.
// The file format is chosen by the caller from the extension.
func ConfigFileFlag() string {
	var path string
	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file (JSON or YAML)")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)
	return path
}
