package config

import (
	"time"

	"github.com/osse101/ItemLedger_Go/internal/event"
)

// Environment variable names
const (
	EnvPort               = "PORT"
	EnvLogLevel           = "LOG_LEVEL"
	EnvLogFormat          = "LOG_FORMAT"
	EnvLogDir             = "LOG_DIR"
	EnvEnvironment        = "ENVIRONMENT"
	EnvAdminPrincipal     = "ADMIN_PRINCIPAL"
	EnvInventoryCacheSize = "INVENTORY_CACHE_SIZE"
	EnvInventoryCacheTTL  = "INVENTORY_CACHE_TTL"
	EnvEventWorkers       = "EVENT_WORKERS"
	EnvEventQueueSize     = "EVENT_QUEUE_SIZE"
	EnvEventMaxRetries    = "EVENT_MAX_RETRIES"
	EnvEventRetryDelay    = "EVENT_RETRY_DELAY"
	EnvDeadLetterPath     = "DEAD_LETTER_PATH"
	EnvStatusInterval     = "STATUS_SNAPSHOT_INTERVAL"
	EnvSchemaVersion      = "ENV_SCHEMA_VERSION"
)

// Defaults
const (
	DefaultPort               = 8080
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
	DefaultLogDir             = "logs"
	DefaultEnvironment        = "dev"
	DefaultInventoryCacheSize = 1024
	DefaultInventoryCacheTTL  = 5 * time.Minute
	DefaultEventWorkers       = 1
	DefaultEventQueueSize     = 256
	DefaultEventMaxRetries    = event.RetryMaxAttempts
	DefaultEventRetryDelay    = event.RetryInitialDelaySeconds * time.Second
	DefaultDeadLetterPath     = "logs/deadletter.jsonl"
	DefaultStatusInterval     = 15 * time.Second
)

// Version is the build version reported by /version and attached to logs.
// Overridden at link time with -ldflags "-X .../internal/config.Version=...".
var Version = "dev"
