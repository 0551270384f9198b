package config

import (
	"os"
	"strings"
)

// LoadEnv loads environment variables from a .env file. Lines are
// KEY=VALUE; blank lines and #-comments are skipped.
func LoadEnv(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		key = strings.TrimSpace(key)
		if key != "" {
			os.Setenv(key, strings.TrimSpace(value))
		}
	}

	return nil
}

// LoadEnvOptional loads a .env file if it exists and does nothing
// otherwise.
func LoadEnvOptional(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return LoadEnv(path)
}
