package appconf

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML configuration file. Every field has a
// command-line flag counterpart in cmd/api; flags win when both are set.
type FileConfig struct {
	Server ServerConfig `yaml:"server" validate:"required"`
	DB     DBConfig     `yaml:"db"`
	ORS    ORSConfig    `yaml:"ors"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	Port      int      `yaml:"port" validate:"gt=0,lte=65535"`
	Env       string   `yaml:"env" validate:"omitempty,oneof=development test staging production"`
	ApiKeys   []string `yaml:"apiKeys"`
	RateLimit int      `yaml:"rateLimit" validate:"gte=0"`
}

// DBConfig contains the SQLite database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// ORSConfig contains the OpenRouteService settings. The integration is
// disabled entirely when APIKey is empty.
type ORSConfig struct {
	BaseURL           string  `yaml:"baseURL" validate:"omitempty,url"`
	APIKey            string  `yaml:"apiKey"`
	Profile           string  `yaml:"profile"`
	TimeoutSeconds    int     `yaml:"timeoutSeconds" validate:"gte=0"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond" validate:"gte=0"`
	RefreshMinutes    int     `yaml:"refreshMinutes" validate:"gte=0"`
}

// LoadFileConfig reads and validates a YAML configuration file.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return &cfg, nil
}

// Timeout returns the configured ORS request timeout, with a default of
// ten seconds when unset.
func (c ORSConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RefreshInterval returns how often the background edge refresh should run.
// Zero disables the worker.
func (c ORSConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshMinutes) * time.Minute
}
