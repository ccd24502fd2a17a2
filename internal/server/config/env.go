package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// parseEnv overlays Config with variables from envFile and the process
// environment. Process variables win over the file; a missing file is
// not an error. Malformed values panic.
func parseEnv(config *Config, envFile string) {
	vars := map[string]string{}

	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}

	for k, v := range env.ToMap(os.Environ()) {
		vars[k] = v
	}

	if err := env.ParseWithOptions(config, env.Options{Environment: vars}); err != nil {
		panic(err)
	}
}
