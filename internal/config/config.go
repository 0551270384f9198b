package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads, decodes and defaults a TOML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	expandEnvVars(&cfg)

	return &cfg, nil
}

// expandEnvVars expands ${VAR} references in the fields that commonly
// carry secrets or paths, then expands ~ in the workspace path.
func expandEnvVars(c *Config) {
	c.Providers.OpenAI.APIKey = expandEnv(c.Providers.OpenAI.APIKey)
	c.Providers.Anthropic.APIKey = expandEnv(c.Providers.Anthropic.APIKey)
	c.Providers.Gemini.APIKey = expandEnv(c.Providers.Gemini.APIKey)
	c.Providers.GLM.APIKey = expandEnv(c.Providers.GLM.APIKey)

	c.Workspace.Path = expandHome(expandEnv(c.Workspace.Path))
}

// expandEnv resolves a single "${VAR}" or "${VAR:default}" reference.
// Values without the ${ prefix pass through unchanged; an unset variable
// without a default expands to the empty string.
func expandEnv(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}

	inner := value[2 : len(value)-1]
	name, def, hasDefault := strings.Cut(inner, ":")
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	if hasDefault {
		return def
	}
	return ""
}

// expandHome expands a leading ~/ to the user home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
