// Package config loads brainy configuration.
//
// Precedence (highest to lowest):
//  1. Environment variables (BRAINY_AI_MODEL -> ai.model, plus GEMINI_API_KEY)
//  2. YAML config file (~/.config/brainy/config.yaml)
//  3. Defaults
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dori/brainy/internal/logging"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix         = "BRAINY_"
	maxConfigFileSize = 1024 * 1024 // 1MB
)

// Config holds application configuration
type Config struct {
	DataDir string         `koanf:"data_dir"`
	AI      AIConfig       `koanf:"ai"`
	Log     logging.Config `koanf:"log"`
	UI      UIConfig       `koanf:"ui"`
	Notify  NotifyConfig   `koanf:"notify"`
}

// AIConfig configures the generative-text gateway. An empty APIKey puts
// every AI feature into offline mode.
type AIConfig struct {
	Provider  string        `koanf:"provider"` // gemini or openai
	APIKey    string        `koanf:"api_key"`
	Model     string        `koanf:"model"`
	BaseURL   string        `koanf:"base_url"`
	Timeout   time.Duration `koanf:"timeout"`
	RateLimit float64       `koanf:"rate_limit"` // requests per second
	Burst     int           `koanf:"burst"`
}

// UIConfig holds TUI settings
type UIConfig struct {
	Theme     string `koanf:"theme"`
	StartView string `koanf:"start_view"`
}

// NotifyConfig controls desktop notifications
type NotifyConfig struct {
	Enabled bool `koanf:"enabled"`
}

// DefaultDataDir returns the default data directory path
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".brainy"
	}
	return filepath.Join(home, ".local", "share", "brainy")
}

// DefaultPath returns the default config file path
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".brainy", "config.yaml")
	}
	return filepath.Join(home, ".config", "brainy", "config.yaml")
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	dataDir := DefaultDataDir()
	return &Config{
		DataDir: dataDir,
		AI: AIConfig{
			Provider:  "gemini",
			Model:     "gemini-2.5-flash",
			Timeout:   60 * time.Second,
			RateLimit: 1,
			Burst:     3,
		},
		Log: logging.NewDefaultConfig(dataDir),
		UI: UIConfig{
			Theme:     "nord",
			StartView: "dashboard",
		},
		Notify: NotifyConfig{Enabled: true},
	}
}

// Load reads the YAML file at path (DefaultPath if empty; a missing file is
// fine) and then applies environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	k := koanf.New(".")

	content, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	if content != nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	dataDirSet := k.Exists("data_dir")
	logOutputSet := k.Exists("log.output")
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The log file follows a relocated data dir unless it was set explicitly
	if dataDirSet && !logOutputSet {
		cfg.Log.Output = filepath.Join(cfg.DataDir, "brainy.log")
	}

	// The one credential the app knows about by its conventional name
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envKey maps BRAINY_SECTION_FIELD_NAME to section.field_name. Only the first
// underscore separates the section; top-level keys keep theirs.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if lower == "data_dir" {
		return lower
	}
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	switch c.AI.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("ai.provider must be 'gemini' or 'openai', got %q", c.AI.Provider)
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be > 0")
	}
	if c.AI.RateLimit <= 0 || c.AI.Burst <= 0 {
		return fmt.Errorf("ai.rate_limit and ai.burst must be > 0")
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// DBPath returns the SQLite database path inside the data dir
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "brainy.db")
}

// AIConfigured reports whether a credential is present
func (c *Config) AIConfigured() bool {
	return c.AI.APIKey != ""
}
