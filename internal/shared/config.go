package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Client  ClientConfig  `toml:"client"`
	Session SessionConfig `toml:"session"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	UploadsDir string `toml:"uploads_dir"`
}

// Addr returns the host:port the HTTP server binds to.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DataConfig contains settings for the JSON file store.
type DataConfig struct {
	Dir          string `toml:"dir"`
	SnapshotPath string `toml:"snapshot_path"`
}

// ClientConfig contains settings for the display/admin clients.
type ClientConfig struct {
	BaseURL          string `toml:"base_url"`
	CachePath        string `toml:"cache_path"`
	TokenPath        string `toml:"token_path"`
	PollIntervalSecs int    `toml:"poll_interval_secs"`
}

// SessionConfig contains session store settings.
//
// Redis connection details come from the environment (see [LoadEnv]),
// not from the config file, so that deployments can swap backends
// without touching config.toml.
type SessionConfig struct {
	Backend string `toml:"backend"` // "memory" or "redis"
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv overlays environment variables from a .env file if one exists.
//
// A missing file is not an error; explicit environment variables always win.
func LoadEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// GetEnv returns the environment variable for key, or fallback when unset.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
