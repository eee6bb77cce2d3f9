package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    `validate:"min=1,max=65535"`
	LogLevel    string `validate:"oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	LogFormat   string `validate:"oneof=json text"`
	LogDir      string `validate:"required"`
	Environment string `validate:"required"`
	Version     string

	// AdminPrincipal is the only identity allowed to mint, pause and lock.
	AdminPrincipal string `validate:"required,max=128,notburn"`

	InventoryCacheSize int           `validate:"min=1"`
	InventoryCacheTTL  time.Duration `validate:"min=1s"`

	EventWorkers    int           `validate:"min=1,max=64"`
	EventQueueSize  int           `validate:"min=1"`
	EventMaxRetries int           `validate:"min=0,max=20"`
	EventRetryDelay time.Duration `validate:"min=1ms"`
	DeadLetterPath  string        `validate:"required"`

	// StatusInterval is how often the registry status gauges are refreshed
	StatusInterval time.Duration `validate:"min=1s"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	p := &envParser{}
	cfg := &Config{
		LogLevel:           getEnv(EnvLogLevel, DefaultLogLevel),
		LogFormat:          getEnv(EnvLogFormat, DefaultLogFormat),
		LogDir:             getEnv(EnvLogDir, DefaultLogDir),
		Environment:        getEnv(EnvEnvironment, DefaultEnvironment),
		Version:            Version,
		AdminPrincipal:     getEnv(EnvAdminPrincipal, ""),
		Port:               p.intVar(EnvPort, DefaultPort),
		InventoryCacheSize: p.intVar(EnvInventoryCacheSize, DefaultInventoryCacheSize),
		InventoryCacheTTL:  p.durationVar(EnvInventoryCacheTTL, DefaultInventoryCacheTTL),
		EventWorkers:       p.intVar(EnvEventWorkers, DefaultEventWorkers),
		EventQueueSize:     p.intVar(EnvEventQueueSize, DefaultEventQueueSize),
		EventMaxRetries:    p.intVar(EnvEventMaxRetries, DefaultEventMaxRetries),
		EventRetryDelay:    p.durationVar(EnvEventRetryDelay, DefaultEventRetryDelay),
		DeadLetterPath:     getEnv(EnvDeadLetterPath, DefaultDeadLetterPath),
		StatusInterval:     p.durationVar(EnvStatusInterval, DefaultStatusInterval),
	}
	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// envParser reads typed variables and collects every malformed value, so a
// typo is reported instead of silently replaced by the default.
type envParser struct {
	errs []error
}

// intVar returns the integer value of key, or defaultValue when unset
func (p *envParser) intVar(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s value %q: %w", key, value, err))
		return defaultValue
	}
	return n
}

// durationVar returns the duration value of key ("250ms", "5m"), or
// defaultValue when unset
func (p *envParser) durationVar(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s value %q: %w", key, value, err))
		return defaultValue
	}
	return d
}
