package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Ledger Metrics
var (
	LedgerOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLedgerOperations,
			Help: HelpTextLedgerOperations,
		},
		[]string{LabelOperation, LabelOutcome},
	)

	LedgerOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameLedgerOperationDuration,
			Help:    HelpTextLedgerOperationDuration,
			Buckets: OperationLatencyBuckets,
		},
		[]string{LabelOperation},
	)

	ItemsMinted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLedgerItemsMinted,
			Help: HelpTextLedgerItemsMinted,
		},
	)

	Transfers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLedgerTransfers,
			Help: HelpTextLedgerTransfers,
		},
	)

	Rejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLedgerRejections,
			Help: HelpTextLedgerRejections,
		},
		[]string{LabelOperation, LabelReason},
	)

	Paused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameLedgerPaused,
			Help: HelpTextLedgerPaused,
		},
	)

	Items = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameLedgerItems,
			Help: HelpTextLedgerItems,
		},
	)

	LastTokenID = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameLedgerLastTokenID,
			Help: HelpTextLedgerLastTokenID,
		},
	)

	OwnershipVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameLedgerOwnershipVersion,
			Help: HelpTextLedgerOwnershipVersion,
		},
	)
)

// RecordStatus sets the registry snapshot gauges
func RecordStatus(items int, lastTokenID, ownershipVersion uint64, paused bool) {
	Items.Set(float64(items))
	LastTokenID.Set(float64(lastTokenID))
	OwnershipVersion.Set(float64(ownershipVersion))
	if paused {
		Paused.Set(1)
	} else {
		Paused.Set(0)
	}
}

// ObserveOperation records the outcome and latency of one ledger operation
func ObserveOperation(operation string, ok bool, seconds float64) {
	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeRejected
	}
	LedgerOperations.WithLabelValues(operation, outcome).Inc()
	LedgerOperationDuration.WithLabelValues(operation).Observe(seconds)
}
