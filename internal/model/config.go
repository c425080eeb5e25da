package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the full runtime configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Store   StoreConfig   `yaml:"store"`
	Cache   CacheConfig   `yaml:"cache"`
	LLM     LLMConfig     `yaml:"llm"`
	Output  OutputConfig  `yaml:"output"`
	Workers WorkersConfig `yaml:"workers"`
}

// APIConfig configures the case-law verification API client.
type APIConfig struct {
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	UserAgent         string        `yaml:"user_agent"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// StoreConfig selects and configures the citation store backend.
type StoreConfig struct {
	// Driver is one of "disk", "postgres", "memory".
	Driver string `yaml:"driver"`
	// Path is the records file for the disk driver.
	Path string `yaml:"path"`
	// DSN is the connection string for the postgres driver.
	DSN string `yaml:"dsn"`
}

// CacheConfig configures the verification response cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// LLMConfig configures the optional verification brief generator.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"` // openai, ollama
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"-"`
	BaseURL  string `yaml:"base_url,omitempty"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// WorkersConfig controls batch concurrency. Lines within one document are
// always processed sequentially; this only applies across documents.
type WorkersConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// ConfigDir returns the citehound configuration directory.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".citehound"
	}
	return filepath.Join(home, ".citehound")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dir := ConfigDir()
	return &Config{
		API: APIConfig{
			BaseURL:           "https://www.courtlistener.com/api/rest/v4",
			Timeout:           30 * time.Second,
			UserAgent:         "citehound/0.2 (+https://github.com/mkoval/citehound)",
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Store: StoreConfig{
			Driver: "disk",
			Path:   filepath.Join(dir, "records.json"),
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       filepath.Join(dir, "cache"),
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Output: OutputConfig{
			Verbose: false,
		},
		Workers: WorkersConfig{
			Concurrency: 4,
		},
	}
}
