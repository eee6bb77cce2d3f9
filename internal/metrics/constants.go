package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Ledger metric names
const (
	MetricNameLedgerOperations        = "ledger_operations_total"
	MetricNameLedgerOperationDuration = "ledger_operation_duration_seconds"
	MetricNameLedgerItemsMinted       = "ledger_items_minted_total"
	MetricNameLedgerTransfers         = "ledger_transfers_total"
	MetricNameLedgerRejections        = "ledger_rejections_total"
	MetricNameLedgerPaused            = "ledger_paused"
	MetricNameLedgerItems             = "ledger_items"
	MetricNameLedgerLastTokenID       = "ledger_last_token_id"
	MetricNameLedgerOwnershipVersion  = "ledger_ownership_version"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Ledger metric help text
const (
	HelpTextLedgerOperations        = "Total number of ledger operations by outcome"
	HelpTextLedgerOperationDuration = "Ledger operation latency in seconds"
	HelpTextLedgerItemsMinted       = "Total number of items minted"
	HelpTextLedgerTransfers         = "Total number of item transfers"
	HelpTextLedgerRejections        = "Total number of rejected operations by error reason"
	HelpTextLedgerPaused            = "1 while the registry is paused, 0 otherwise"
	HelpTextLedgerItems             = "Number of items in the registry, burned items included"
	HelpTextLedgerLastTokenID       = "Most recently minted token id"
	HelpTextLedgerOwnershipVersion  = "Ownership counter, bumped on every mint and transfer"
)

// ============================================================================
// Labels
// ============================================================================

const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
	LabelReason    = "reason"
)

// Outcome label values
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
)

// ============================================================================
// Buckets
// ============================================================================

var (
	// HTTPLatencyBuckets are the histogram buckets for HTTP latency (seconds)
	HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

	// OperationLatencyBuckets are tuned for in-memory operations (seconds)
	OperationLatencyBuckets = []float64{.00001, .00005, .0001, .0005, .001, .005, .01}
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgMetricsRecorded      = "Metrics recorded for event"
	LogMsgEventPayloadMismatch = "Event payload did not decode"
	LogMsgUnknownEventType     = "No metrics mapping for event type"
)
