package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const commandoFile = "commando.yaml"

// LoadCommando loads the shooter configuration.
// Search order: customPath -> ~/.arcade/configs/commando.yaml -> ./configs/commando.yaml -> embedded default.
// Keys missing from a file keep their default values.
func LoadCommando(customPath string) (CommandoConfig, error) {
	// Try custom path first; failures here are reported since the user asked for it
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultCommandoConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := ParseCommando(data)
		if err != nil {
			return DefaultCommandoConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then local configs directory
	for _, path := range []string{userConfigPath(commandoFile), filepath.Join("configs", commandoFile)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := ParseCommando(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := ParseCommando(defaultCommandoYAML)
	if err != nil {
		return DefaultCommandoConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ParseCommando decodes a YAML document on top of the defaults and validates it.
func ParseCommando(data []byte) (CommandoConfig, error) {
	cfg := DefaultCommandoConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultCommandoConfig(), err
	}
	if err := cfg.Validate(); err != nil {
		return DefaultCommandoConfig(), err
	}
	return cfg, nil
}

// MarshalCommando encodes a configuration as YAML.
func MarshalCommando(cfg CommandoConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: cannot encode: %w", err)
	}
	return data, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}
