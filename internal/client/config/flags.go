package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/filedesk/internal/flagx"
)

// parseFlags overlays cfg with command-line flags.
//
//	-a string   backend base URL
//	-m string   storage mode (backend|direct)
//	-d string   session database path
//	-l string   log level
//
// Only these flags are looked at; the rest of args is ignored.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-m", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BackendURL, "a", cfg.BackendURL, "backend base URL")
	mode := fs.String("m", string(cfg.Storage.Mode), "storage mode (backend|direct)")
	fs.StringVar(&cfg.SessionDBPath, "d", cfg.SessionDBPath, "session database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	return cfg.Storage.Mode.UnmarshalText([]byte(*mode))
}
