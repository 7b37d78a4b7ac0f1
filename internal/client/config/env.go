package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/filedesk/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv overlays cfg with variables from a dotenv file and the process
// environment. Process variables win over the file. An explicitly named file
// (-e/-env) must exist; the default ".env" is optional.
func parseEnv(cfg *Config, args []string, environ []string) error {
	vars := map[string]string{}

	path := flagx.EnvFileFlag(args)
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	fileVars, err := godotenv.Read(path)
	switch {
	case err == nil:
		for k, v := range fileVars {
			vars[k] = v
		}
	case !explicit && errors.Is(err, fs.ErrNotExist):
	default:
		return err
	}

	for k, v := range env.ToMap(environ) {
		vars[k] = v
	}

	return env.ParseWithOptions(cfg, env.Options{Environment: vars})
}
