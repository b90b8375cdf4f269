package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	// batch output
	OutDir    string `toml:"out_dir"`
	Format    string `toml:"format"`
	Overwrite bool   `toml:"overwrite"`
	// athlete, used for FIT import
	WeightKG float64 `toml:"weight_kg"`
	Height   float64 `toml:"height"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	name, err := section(env)
	if err != nil {
		return nil, err
	}
	cfg := t.Production
	if name == "development" {
		cfg = t.Development
	}
	if cfg == nil {
		return nil, fmt.Errorf("no [%s] section in config", name)
	}
	return cfg, nil
}

func section(env string) (string, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return "development", nil
	case "prod", "production":
		return "production", nil
	default:
		return "", fmt.Errorf("unknown env: %s", env)
	}
}

// Default is used when no config file is given.
func Default() *Config {
	return &Config{
		LogLevel:  "warn",
		Format:    "jsonl",
		Overwrite: true,
	}
}

// Load reads the TOML file at path and returns the section for env.
// Unset keys fall back to Default.
func Load(env, path string) (*Config, error) {
	name, err := section(env)
	if err != nil {
		return nil, err
	}
	t := Toml{Development: Default(), Production: Default()}
	md, err := toml.DecodeFile(path, &t)
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if !md.IsDefined(name) {
		return nil, fmt.Errorf("no [%s] section in config", name)
	}
	return t.Get(env)
}
