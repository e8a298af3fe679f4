package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceSheet    = "sheet"
	SourcePostgres = "postgres"
)

// DefaultSampleSize is how many questions a session draws when unset.
const DefaultSampleSize = 10

type Config struct {
	Server struct {
		Port        string   `yaml:"port"`
		CORSOrigins []string `yaml:"corsOrigins"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		// TTL is the idle session lifetime for both session stores.
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		// TTL is the question bank cache lifetime; zero disables caching.
		TTL                    string `yaml:"ttl"`
		SampleSize             int    `yaml:"sampleSize"`
		AutoFinishOnLastAnswer bool   `yaml:"autoFinishOnLastAnswer"`
	} `yaml:"quiz"`
	Source struct {
		Kind       string `yaml:"kind"`
		URL        string `yaml:"url"`
		Path       string `yaml:"path"`
		Timeout    string `yaml:"timeout"`
		HeaderRows int    `yaml:"headerRows"`
	} `yaml:"source"`
}

// Load reads YAML config from path and fills defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

// Default returns a config that serves the embedded bank from memory.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Quiz.SampleSize == 0 {
		c.Quiz.SampleSize = DefaultSampleSize
	}
	if c.Source.Kind == "" {
		c.Source.Kind = SourceEmbedded
	}
}

// Validate checks that the selected source has what it needs.
func (c Config) Validate() error {
	switch c.Source.Kind {
	case SourceEmbedded:
	case SourceFile:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for kind %q", c.Source.Kind)
		}
	case SourceSheet:
		if c.Source.URL == "" {
			return fmt.Errorf("source.url is required for kind %q", c.Source.Kind)
		}
	case SourcePostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("postgres.url is required for kind %q", c.Source.Kind)
		}
	default:
		return fmt.Errorf("unknown source.kind %q", c.Source.Kind)
	}
	if c.Quiz.SampleSize < 0 {
		return fmt.Errorf("quiz.sampleSize must not be negative")
	}
	if c.Source.HeaderRows < 0 {
		return fmt.Errorf("source.headerRows must not be negative")
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
