// Package config loads and validates ranker configuration.
//
// Precedence, lowest to highest: built-in defaults, config file
// (.ranker.yaml in the working directory, then ~/.config/ranker/config.yaml),
// RANKER_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	errs "github.com/mwmbl/ranker/internal/errors"
	"github.com/mwmbl/ranker/internal/rank"
)

// ConfigFileName is the per-directory config file.
const ConfigFileName = ".ranker.yaml"

// Config is the complete ranker configuration.
type Config struct {
	Version int           `yaml:"version"`
	Search  SearchConfig  `yaml:"search"`
	Ranking rank.Weights  `yaml:"ranking"`
	Logging LoggingConfig `yaml:"logging"`
}

// SearchConfig configures the remote search client and fan-out.
type SearchConfig struct {
	// Endpoint is the remote lexical search API.
	Endpoint string `yaml:"endpoint"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `yaml:"timeout"`

	// Parallelism caps concurrent fan-out requests.
	Parallelism int `yaml:"parallelism"`

	// PerTermLimit caps hits requested per query term.
	PerTermLimit int `yaml:"per_term_limit"`

	// CacheSize is the LRU size for memoized term responses.
	CacheSize int `yaml:"cache_size"`

	// MaxRetries is the retry budget per request.
	MaxRetries int `yaml:"max_retries"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level"`

	// FilePath is the log file path. Empty means the default location.
	FilePath string `yaml:"file_path"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Search: SearchConfig{
			Endpoint:     "https://api.mwmbl.org/search",
			Timeout:      10 * time.Second,
			Parallelism:  4,
			PerTermLimit: 20,
			CacheSize:    256,
			MaxRetries:   2,
		},
		Ranking: rank.DefaultWeights(),
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads configuration from the first config file found, then applies
// environment overrides. A missing file is not an error; a malformed one is.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range candidatePaths() {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, errs.New(errs.ErrCodeConfigNotFound,
				fmt.Sprintf("reading %s", path), err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errs.ConfigError(fmt.Sprintf("parsing %s", path), err)
		}
		break
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func candidatePaths() []string {
	paths := []string{ConfigFileName}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "ranker", "config.yaml"))
	}
	return paths
}

// applyEnv overrides config values from RANKER_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("RANKER_ENDPOINT"); v != "" {
		c.Search.Endpoint = v
	}
	if v := os.Getenv("RANKER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Search.Timeout = d
		}
	}
	if v := os.Getenv("RANKER_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.Parallelism = n
		}
	}
	if v := os.Getenv("RANKER_PER_TERM_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.PerTermLimit = n
		}
	}
	if v := os.Getenv("RANKER_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.CacheSize = n
		}
	}
	if v := os.Getenv("RANKER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Search.Endpoint == "" {
		return errs.ConfigError("search.endpoint must not be empty", nil)
	}
	if c.Search.Timeout <= 0 {
		return errs.ConfigError("search.timeout must be positive", nil)
	}
	if c.Search.Parallelism < 1 {
		return errs.ConfigError("search.parallelism must be at least 1", nil)
	}
	if c.Search.PerTermLimit < 1 {
		return errs.ConfigError("search.per_term_limit must be at least 1", nil)
	}
	w := c.Ranking
	if w.Title < 0 || w.Extract < 0 || w.Domain < 0 || w.Path < 0 {
		return errs.ConfigError("ranking weights must not be negative", nil)
	}
	if w.Title+w.Extract+w.Domain+w.Path == 0 {
		return errs.ConfigError("at least one ranking weight must be positive", nil)
	}
	return nil
}
