package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wczubal1/GreenAgentWitty/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Purple struct {
		URL            string        `yaml:"url"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
	} `yaml:"purple"`
	Assessment struct {
		MinAttempts       int     `yaml:"min_attempts"`
		ReferenceYear     int     `yaml:"reference_year"`
		QuantityTolerance float64 `yaml:"quantity_tolerance"`
		DeltaTolerance    float64 `yaml:"delta_tolerance"`
	} `yaml:"assessment"`
	Finra struct {
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
	} `yaml:"finra"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("PURPLE_URL"); v != "" {
		c.Purple.URL = v
	}
	if v := os.Getenv("FINRA_CLIENT_ID"); v != "" {
		c.Finra.ClientID = v
	}
	if v := os.Getenv("FINRA_CLIENT_SECRET"); v != "" {
		c.Finra.ClientSecret = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 9009
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 120 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Purple.RequestTimeout == 0 {
		c.Purple.RequestTimeout = 120 * time.Second
	}
	if c.Assessment.MinAttempts == 0 {
		c.Assessment.MinAttempts = 3
	}
	if c.Assessment.ReferenceYear == 0 {
		c.Assessment.ReferenceYear = 2025
	}
	if c.Assessment.QuantityTolerance == 0 {
		c.Assessment.QuantityTolerance = 1e-4
	}
	if c.Assessment.DeltaTolerance == 0 {
		c.Assessment.DeltaTolerance = 1e-6
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Assessment.MinAttempts < 1 {
		return fmt.Errorf("assessment.min_attempts must be positive")
	}
	if c.Assessment.ReferenceYear < 2000 || c.Assessment.ReferenceYear > 2100 {
		return fmt.Errorf("assessment.reference_year out of range: %d", c.Assessment.ReferenceYear)
	}
	return nil
}
