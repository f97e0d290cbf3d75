package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"debloat/internal/domain"
)

// Provider selector indices as exposed on the CLI.
const (
	ProviderOllama   = 0
	ProviderOpenAI   = 1
	ProviderDeepSeek = 2
)

// Config holds all configuration for the debloat tool.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Chunk   ChunkConfig   `yaml:"chunk"`
	Guard   GuardConfig   `yaml:"guard"`
	History HistoryConfig `yaml:"history"`
}

// BackendConfig holds inference backend configuration.
type BackendConfig struct {
	Provider        string  `yaml:"provider"` // "ollama", "openai", "deepseek"
	Model           string  `yaml:"model"`
	BaseURL         string  `yaml:"base_url"`    // override endpoint, empty = provider default
	APIKeyEnv       string  `yaml:"api_key_env"` // environment variable for the API key
	Temperature     float64 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
	TimeoutSeconds  int     `yaml:"timeout_seconds"`
}

// ChunkConfig holds chunk planning configuration.
type ChunkConfig struct {
	WindowSize int `yaml:"window_size"` // window size in bytes
}

// GuardConfig restricts which files the tool will rewrite.
type GuardConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// HistoryConfig holds run-history store configuration.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"` // empty = ~/.debloat/history.db
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			Provider:        "openai",
			Model:           "", // provider default
			APIKeyEnv:       "OPENAI_API_KEY",
			Temperature:     0.1,
			MaxOutputTokens: 4596,
			TimeoutSeconds:  120,
		},
		Chunk: ChunkConfig{
			WindowSize: 4096,
		},
		Guard: GuardConfig{
			Includes: []string{"**/*.go", "**/*.py", "**/*.js", "**/*.ts", "**/*.java", "**/*.c", "**/*.cpp", "**/*.h", "**/*.rs", "**/*.rb", "**/*.sh"},
			Excludes: []string{"**/node_modules/**", "**/vendor/**", "**/.git/**", "**/*.min.js", "**/*.bak"},
		},
		History: HistoryConfig{
			Enabled: true,
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
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for debloat.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "debloat.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".debloat", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the startup invariants of the configuration.
func (c *Config) Validate() error {
	if c.Chunk.WindowSize <= 1 {
		return fmt.Errorf("%w: window_size %d yields zero stride", domain.ErrConfig, c.Chunk.WindowSize)
	}
	if c.Backend.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: timeout_seconds must be > 0", domain.ErrConfig)
	}
	switch c.Backend.Provider {
	case "ollama", "openai", "deepseek":
	default:
		return fmt.Errorf("%w: unknown provider %q", domain.ErrConfig, c.Backend.Provider)
	}
	return nil
}

// ApplyProviderIndex maps the CLI provider selector onto the backend config.
func (c *Config) ApplyProviderIndex(idx int) error {
	switch idx {
	case ProviderOllama:
		c.Backend.Provider = "ollama"
		c.Backend.APIKeyEnv = ""
	case ProviderOpenAI:
		c.Backend.Provider = "openai"
		if c.Backend.APIKeyEnv == "" {
			c.Backend.APIKeyEnv = "OPENAI_API_KEY"
		}
	case ProviderDeepSeek:
		c.Backend.Provider = "deepseek"
		c.Backend.APIKeyEnv = "DEEPSEEK_API_KEY"
	default:
		return fmt.Errorf("%w: provider selector %d out of range", domain.ErrConfig, idx)
	}
	return nil
}

// HistoryDBPath returns the path to the run-history database.
func (c *Config) HistoryDBPath() (string, error) {
	if c.History.DBPath != "" {
		return c.History.DBPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".debloat", "history.db"), nil
}

// EnsureHistoryDir ensures the directory holding the history database exists.
func EnsureHistoryDir(dbPath string) error {
	return os.MkdirAll(filepath.Dir(dbPath), 0755)
}
