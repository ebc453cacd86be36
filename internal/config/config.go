package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Source kinds accepted in dataset.source
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Dataset DatasetConfig `yaml:"dataset"`
	Model   ModelConfig   `yaml:"model"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"` // HTTP Listen Address (e.g. :8501)
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatasetConfig struct {
	Source string `yaml:"source"` // csv, postgres or sqlite
	Path   string `yaml:"path"`   // CSV path
	DSN    string `yaml:"dsn"`
	Table  string `yaml:"table"`
}

type ModelConfig struct {
	Target         string   `yaml:"target"`
	DropSubstrings []string `yaml:"drop_substrings"`
}

type LoggingConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8501",
			AllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		},
		Dataset: DatasetConfig{
			Source: SourceCSV,
			Path:   "data/final.csv",
		},
		Model: ModelConfig{
			Target:         "price",
			DropSubstrings: []string{"recession", "popular", "age"},
		},
		Logging: LoggingConfig{
			File:  "logs/app.log",
			Level: "info",
		},
	}
}

// Load reads the YAML file at configPath. With an empty path the usual
// locations are searched and defaults are used when none exists.
// PORT, when set, overrides server.addr.
func Load(configPath string) (*Config, error) {
	cfg := defaults()

	if configPath == "" {
		for _, p := range []string{"configs/estimator.yaml", "estimator.yaml"} {
			data, err := os.ReadFile(p)
			if err == nil {
				if err := yaml.Unmarshal(data, cfg); err != nil {
					return cfg, err
				}
				break
			}
		}
		applyDefaults(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		applyDefaults(cfg)
		return cfg, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, err
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := defaults()
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Dataset.Source == "" {
		cfg.Dataset.Source = def.Dataset.Source
	}
	if cfg.Dataset.Source == SourceCSV && cfg.Dataset.Path == "" {
		cfg.Dataset.Path = def.Dataset.Path
	}
	if cfg.Model.Target == "" {
		cfg.Model.Target = def.Model.Target
	}
	// an explicit empty list keeps every column
	if cfg.Model.DropSubstrings == nil {
		cfg.Model.DropSubstrings = def.Model.DropSubstrings
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
}
