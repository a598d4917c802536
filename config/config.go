package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for learnrag.
type Config struct {
	Chunk    ChunkConfig    `yaml:"chunk"`
	Retrieve RetrieveConfig `yaml:"retrieve"`
	Prompt   PromptConfig   `yaml:"prompt"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ChunkConfig holds chunking budgets, in characters.
type ChunkConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK            int           `yaml:"top_k"`
	MinScore        float64       `yaml:"min_score"` // results at or below this score are dropped
	PhraseBonus     float64       `yaml:"phrase_bonus"`
	PhraseBonusOnce bool          `yaml:"phrase_bonus_once"`
	CacheSize       int           `yaml:"cache_size"` // 0 disables the result cache
	CacheTTL        time.Duration `yaml:"cache_ttl"`
}

// PromptConfig holds prompt defaults.
type PromptConfig struct {
	DefaultLevel   string `yaml:"default_level"`
	DefaultSubject string `yaml:"default_subject"`
	ExcerptLength  int    `yaml:"excerpt_length"`
}

// IngestConfig controls which files directory ingestion picks up.
type IngestConfig struct {
	Includes     []string `yaml:"includes"`
	Excludes     []string `yaml:"excludes"`
	MaxFileBytes int64    `yaml:"max_file_bytes"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	RateLimit       float64       `yaml:"rate_limit"` // requests per second, 0 = disabled
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

var validLevels = map[string]bool{"beginner": true, "intermediate": true, "advanced": true}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Chunk: ChunkConfig{
			Size:    500,
			Overlap: 100,
		},
		Retrieve: RetrieveConfig{
			TopK:        5,
			MinScore:    0.1,
			PhraseBonus: 5,
			CacheSize:   128,
			CacheTTL:    5 * time.Minute,
		},
		Prompt: PromptConfig{
			DefaultLevel:   "intermediate",
			DefaultSubject: "General",
			ExcerptLength:  150,
		},
		Ingest: IngestConfig{
			Includes:     []string{"**/*.txt", "**/*.md"},
			Excludes:     []string{"**/.git/**", "**/node_modules/**"},
			MaxFileBytes: 10 * 1024 * 1024,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3001,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for learnrag.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "learnrag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".learnrag", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := getenv("LEARNRAG_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Chunk.Size <= 0 {
		return fmt.Errorf("chunk.size must be positive, got %d", c.Chunk.Size)
	}
	if c.Chunk.Overlap < 0 {
		return fmt.Errorf("chunk.overlap must not be negative, got %d", c.Chunk.Overlap)
	}
	if c.Retrieve.TopK <= 0 {
		return fmt.Errorf("retrieve.top_k must be positive, got %d", c.Retrieve.TopK)
	}
	if !validLevels[strings.ToLower(c.Prompt.DefaultLevel)] {
		return fmt.Errorf("prompt.default_level must be beginner, intermediate or advanced, got %q", c.Prompt.DefaultLevel)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
