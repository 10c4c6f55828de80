package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// DotEnvGetenv returns a getenv that consults base first and falls back to
// values read from the given .env files (default ".env"). Missing files are
// ignored; malformed files are an error. The process environment is never
// modified.
func DotEnvGetenv(base func(string) string, paths ...string) (func(string) string, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	fileEnv := map[string]string{}
	for _, p := range paths {
		m, err := godotenv.Read(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		for k, v := range m {
			if _, seen := fileEnv[k]; !seen {
				fileEnv[k] = v
			}
		}
	}

	return func(k string) string {
		if v := base(k); v != "" {
			return v
		}
		return fileEnv[k]
	}, nil
}
