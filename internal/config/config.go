// Package config loads service configuration from an optional YAML file and
// environment variables.
package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Engine   EngineConfig   `koanf:"engine"`
	Storage  StorageConfig  `koanf:"storage"`
	Analysis AnalysisConfig `koanf:"analysis"`
}

type ServerConfig struct {
	Port   int    `koanf:"port"`
	APIKey string `koanf:"api_key"` // empty disables admin auth
}

// EngineConfig points at the Data Machine instance. An empty BaseURL selects
// the in-memory engine store; nothing is registered anywhere in that mode.
type EngineConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
}

type StorageConfig struct {
	Path string `koanf:"path"`
}

type AnalysisConfig struct {
	Model string `koanf:"model"`
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads config.yaml if present, then overlays DM_-prefixed environment
// variables (DM_ENGINE__BASE_URL becomes engine.base_url).
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider("config.yaml"), yaml.Parser()); err != nil {
		// File not found is OK, we'll use env vars
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("DM_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "DM_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	// Default values
	if !k.Exists("server.port") {
		k.Set("server.port", 8085)
	}
	if !k.Exists("storage.path") {
		k.Set("storage.path", "./data/registrar.db")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	// Substitute environment variables in API keys
	cfg.Engine.APIKey = substituteEnvVars(cfg.Engine.APIKey)
	cfg.Server.APIKey = substituteEnvVars(cfg.Server.APIKey)

	return &cfg, nil
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return match
	})
}
