package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/bikecast/core/factory"
)

// EnvPrefix prefixes environment overrides, e.g. BIKECAST_GENERATOR__SEED=7.
const EnvPrefix = "BIKECAST_"

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "bikecast.yaml"

type Config struct {
	Generator GeneratorConfig        `json:"generator"`
	Output    OutputConfig           `json:"output"`
	Sinks     []factory.ModuleConfig `json:"sinks"`
	Metrics   MetricsConfig          `json:"metrics"`
	Logging   LoggingConfig          `json:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Generator: DefaultGenerator(),
		Output:    OutputConfig{Path: DefaultOutputPath},
		Logging:   LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads the configuration file at path and applies environment
// overrides on top of the defaults. An empty path falls back to DefaultFile,
// which may be missing.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Output.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Output.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	for i, s := range cfg.Sinks {
		if s.Type == "" {
			return nil, fmt.Errorf("sinks[%d]: type is required", i)
		}
	}
	return &cfg, nil
}
