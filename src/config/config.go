package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"plug-explorer/src/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

const (
	DefaultStateKey        = "plug-explorer"
	DefaultLanguage        = "zh-CN"
	DefaultWarmupSeconds   = 0.1
	DefaultIntervalSeconds = 5
	DefaultBlockListSize   = 10
)

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// LoadEnv reads .env style files into the process environment. Missing files are ignored.
func LoadEnv(files ...string) {
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}
	return Parse(data)
}

// -----------------------------------------------------------------------------

// Parse builds a Config from YAML bytes, then applies defaults and environment overrides.
func Parse(data []byte) (*Config, error) {
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()
	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyDefaults() {
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = DefaultLanguage
	}
	if c.Storage.DBType == "" {
		c.Storage.DBType = "sqlite"
	}
	if c.Storage.StateKey == "" {
		c.Storage.StateKey = DefaultStateKey
	}
	if c.Polling.WarmupSeconds == nil {
		warmup := DefaultWarmupSeconds
		c.Polling.WarmupSeconds = &warmup
	}
	if c.Polling.IntervalSeconds == 0 {
		c.Polling.IntervalSeconds = DefaultIntervalSeconds
	}
	if c.Polling.BlockListSize == 0 {
		c.Polling.BlockListSize = DefaultBlockListSize
	}
}

// -----------------------------------------------------------------------------

func (c *Config) applyEnv() error {
	if v := os.Getenv("EXPLORER_BASE_URL"); v != "" {
		c.Network.BaseURL = v
	}
	if v := os.Getenv("EXPLORER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid EXPLORER_PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("EXPLORER_DB_DSN"); v != "" {
		c.Storage.DBConnectionString = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		var brokers []string
		for _, p := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				brokers = append(brokers, trimmed)
			}
		}
		c.Kafka.Brokers = brokers
	}
	return nil
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	if c.GrpcPort < 0 || c.GrpcPort > 65535 {
		return fmt.Errorf("invalid grpc port number: %d", c.GrpcPort)
	}

	switch c.DefaultLanguage {
	case "zh-CN", "en-US":
	default:
		return fmt.Errorf("unsupported default language: %s", c.DefaultLanguage)
	}

	// Storage
	switch c.Storage.DBType {
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("database path cannot be empty for sqlite")
		}
	case "postgres":
		if c.Storage.DBConnectionString == "" {
			return fmt.Errorf("database connection string cannot be empty for postgres")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Storage.DBType)
	}

	// Network
	if c.Network.BaseURL == "" {
		return fmt.Errorf("network base_url cannot be empty")
	}
	if c.Network.RequestTimeout < 0 {
		return fmt.Errorf("request timeout cannot be negative")
	}

	// Polling
	if c.Polling.WarmupSeconds != nil && *c.Polling.WarmupSeconds < 0 {
		return fmt.Errorf("warmup cannot be negative")
	}
	if c.Polling.IntervalSeconds <= 0 {
		return fmt.Errorf("poll interval must be greater than 0")
	}
	if c.Polling.BlockListSize <= 0 {
		return fmt.Errorf("block list size must be greater than 0")
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
