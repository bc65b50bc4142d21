package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// TokenEnvVar names the environment variable consulted, at call time, when no token is configured.
const TokenEnvVar = "GENIUS_API_TOKEN"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Client      ClientConfig      `toml:"client"`
	Database    DatabaseConfig    `toml:"database"`
	Batch       BatchConfig       `toml:"batch"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Genius GeniusConfig `toml:"genius"`
}

// GeniusConfig contains Genius API credentials and endpoint settings.
type GeniusConfig struct {
	AccessToken string `toml:"access_token"`
	BaseURL     string `toml:"base_url"`
	UserAgent   string `toml:"user_agent"`
}

// ClientConfig tunes request pacing for the API client.
type ClientConfig struct {
	PerPage  int     `toml:"per_page"`
	MinDelay float64 `toml:"min_delay"`
	MaxDelay float64 `toml:"max_delay"`
	Timeout  float64 `toml:"timeout"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// BatchConfig contains settings for concurrent batch fetches.
type BatchConfig struct {
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// Delays returns the pagination pause bounds as durations.
func (c ClientConfig) Delays() (time.Duration, time.Duration) {
	return seconds(c.MinDelay), seconds(c.MaxDelay)
}

// TimeoutDuration returns the HTTP timeout, zero meaning the transport default.
func (c ClientConfig) TimeoutDuration() time.Duration {
	return seconds(c.Timeout)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
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

// SaveConfig writes config to path as TOML.
//
// The file may hold an access token, so it is written owner-only.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads KEY=value pairs from the given dotenv files into the process environment.
//
// Missing files are ignored and variables that are already set are left alone.
func LoadEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		_ = godotenv.Load(p)
	}
}
