package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0644
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of older log files kept when a new
	// session starts, so the directory holds at most this many plus one.
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingLedger      = "Starting item ledger"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Event System
// =============================================================================

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
	LogMsgMetricsCollectorRegistered     = "Metrics collector registered"
	LogMsgAuditLogRegistered             = "Audit log subscribed"
	ErrMsgFailedRegisterMetrics          = "failed to register metrics collector"
	LogMsgLedgerReady                    = "Ledger ready"
)

// JobStatusSnapshot names the scheduled registry status refresh
const JobStatusSnapshot = "status_snapshot"

// =============================================================================
// Shutdown
// =============================================================================

// DefaultShutdownTimeout bounds the whole graceful shutdown sequence
const DefaultShutdownTimeout = 10 * time.Second

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgStoppingFeed               = "Closing event feed streams..."
	LogMsgStoppingScheduler          = "Stopping scheduler..."
	LogMsgShuttingDownLedger         = "Shutting down ledger..."
	LogMsgDrainingEventPool          = "Draining event dispatch pool..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgLedgerShutdownFailed       = "Ledger shutdown failed"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgEventPoolDrainTimeout      = "Event pool drain timed out"
)
