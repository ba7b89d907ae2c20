package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Analysis metrics
	AnalysisRequestsTotal  *prometheus.CounterVec
	AnalysisDuration       *prometheus.HistogramVec
	AnalysisErrorsTotal    *prometheus.CounterVec
	RecommendationsTotal   *prometheus.CounterVec
	SignalsTotal           *prometheus.CounterVec
	CandidateScores        *prometheus.HistogramVec
	CandidateProbabilities *prometheus.HistogramVec
	MalformedQuotesTotal   *prometheus.CounterVec

	// External API metrics
	ExternalAPIRequestsTotal *prometheus.CounterVec
	ExternalAPIErrorsTotal   *prometheus.CounterVec
	ExternalAPIDuration      *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryTotal    *prometheus.CounterVec
	DBErrorsTotal   *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// defaultBuckets are the default histogram buckets for duration metrics (in seconds)
var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// probabilityBuckets are histogram buckets for probability metrics (0 to 100)
var probabilityBuckets = []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

// scoreBuckets cover probability plus the signal bonus
var scoreBuckets = []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110}

// globalMetrics is the global metrics instance
var globalMetrics *Metrics

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	m := &Metrics{
		AnalysisRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shadowstrike",
				Subsystem: "analysis",
				Name:      "requests_total",
				Help:      "Total number of symbol analysis requests",
			},
			[]string{"symbol"},
		),
		AnalysisDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "shadowstrike",
				Subsystem: "analysis",
				Name:      "duration_seconds",
				Help:      "Duration of symbol analysis in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"symbol", "status"},
		),
		AnalysisErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shadowstrike",
				Subsystem: "analysis",
				Name:      "errors_total",
				Help:      "Total number of analysis errors",
			},
			[]string{"symbol", "error_type"},
		),
		RecommendationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shadowstrike",
				Subsystem: "analysis",
				Name:      "recommendations_total",
				Help:      "Total number of recommendations by direction",
			},
			[]string{"recommendation"},
		),
		SignalsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shadowstrike",
				Subsystem: "analysis",
				Name:      "signals_total",
				Help:      "Total number of detector signals fired",
			},
			[]string{"signal"},
		),
		CandidateScores: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "shadowstrike",
				Subsystem: "candidates",
				Name:      "score",
				Help:      "Distribution of ranked candidate scores",
				Buckets:   scoreBuckets,
			},
			[]string{"symbol"},
		),
		CandidateProbabilities: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "shadowstrike",
				Subsystem: "candidates",
				Name:      "probability_itm",
				Help:      "Distribution of candidate ITM probabilities",
				Buckets:   probabilityBuckets,
			},
			[]string{"symbol"},
		),
		MalformedQuotesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shadowstrike",
				Subsystem: "candidates",
				Name:      "malformed_quotes_total",
				Help:      "Total number of option records rejected by the normalizer",
			},
			[]string{"symbol"},
		),

		ExternalAPIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shadowstrike",
				Subsystem: "external_api",
				Name:      "requests_total",
				Help:      "Total number of external API requests",
			},
			[]string{"service", "operation"},
		),
		ExternalAPIErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shadowstrike",
				Subsystem: "external_api",
				Name:      "errors_total",
				Help:      "Total number of external API errors",
			},
			[]string{"service", "operation", "error_type"},
		),
		ExternalAPIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "shadowstrike",
				Subsystem: "external_api",
				Name:      "duration_seconds",
				Help:      "Duration of external API calls in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"service", "operation"},
		),

		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "shadowstrike",
				Subsystem: "database",
				Name:      "query_duration_seconds",
				Help:      "Duration of database queries in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"operation", "table"},
		),
		DBQueryTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shadowstrike",
				Subsystem: "database",
				Name:      "queries_total",
				Help:      "Total number of database queries",
			},
			[]string{"operation", "table"},
		),
		DBErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shadowstrike",
				Subsystem: "database",
				Name:      "errors_total",
				Help:      "Total number of database errors",
			},
			[]string{"operation", "table"},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shadowstrike",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "shadowstrike",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "path"},
		),

		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "shadowstrike",
				Subsystem: "circuit_breaker",
				Name:      "state",
				Help:      "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
			},
			[]string{"service"},
		),
		CircuitBreakerTrips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shadowstrike",
				Subsystem: "circuit_breaker",
				Name:      "trips_total",
				Help:      "Total number of circuit breaker trips",
			},
			[]string{"service"},
		),
	}

	return m
}

// InitMetrics initializes the global metrics instance
func InitMetrics() *Metrics {
	globalMetrics = NewMetrics(nil)
	return globalMetrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	if globalMetrics == nil {
		return InitMetrics()
	}
	return globalMetrics
}

// RecordAnalysisRequest records a symbol analysis request
func (m *Metrics) RecordAnalysisRequest(symbol string) {
	m.AnalysisRequestsTotal.WithLabelValues(symbol).Inc()
}

// RecordAnalysisDuration records the duration of a symbol analysis
func (m *Metrics) RecordAnalysisDuration(symbol, status string, duration time.Duration) {
	m.AnalysisDuration.WithLabelValues(symbol, status).Observe(duration.Seconds())
}

// RecordAnalysisError records an analysis error
func (m *Metrics) RecordAnalysisError(symbol, errorType string) {
	m.AnalysisErrorsTotal.WithLabelValues(symbol, errorType).Inc()
}

// RecordRecommendation records a per-symbol recommendation
func (m *Metrics) RecordRecommendation(recommendation string) {
	m.RecommendationsTotal.WithLabelValues(recommendation).Inc()
}

// RecordSignal records a fired detector signal
func (m *Metrics) RecordSignal(signal string) {
	m.SignalsTotal.WithLabelValues(signal).Inc()
}

// RecordCandidate records a ranked candidate's score and probability
func (m *Metrics) RecordCandidate(symbol string, score, probabilityITM float64) {
	m.CandidateScores.WithLabelValues(symbol).Observe(score)
	m.CandidateProbabilities.WithLabelValues(symbol).Observe(probabilityITM)
}

// RecordMalformedQuote records a rejected option record
func (m *Metrics) RecordMalformedQuote(symbol string) {
	m.MalformedQuotesTotal.WithLabelValues(symbol).Inc()
}

// RecordExternalAPIRequest records an external API request
func (m *Metrics) RecordExternalAPIRequest(service, operation string) {
	m.ExternalAPIRequestsTotal.WithLabelValues(service, operation).Inc()
}

// RecordExternalAPIError records an external API error
func (m *Metrics) RecordExternalAPIError(service, operation, errorType string) {
	m.ExternalAPIErrorsTotal.WithLabelValues(service, operation, errorType).Inc()
}

// RecordExternalAPIDuration records the duration of an external API call
func (m *Metrics) RecordExternalAPIDuration(service, operation string, duration time.Duration) {
	m.ExternalAPIDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordDBQuery records a database query with its duration
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration) {
	m.DBQueryTotal.WithLabelValues(operation, table).Inc()
	m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordDBError records a database error
func (m *Metrics) RecordDBError(operation, table string) {
	m.DBErrorsTotal.WithLabelValues(operation, table).Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetCircuitBreakerState sets the current state of a circuit breaker
func (m *Metrics) SetCircuitBreakerState(service string, state int) {
	m.CircuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(service string) {
	m.CircuitBreakerTrips.WithLabelValues(service).Inc()
}

// Timer is a helper for timing operations
type Timer struct {
	start time.Time
}

// NewTimer starts a new timer
func (m *Metrics) NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveAnalysis records the elapsed time as an analysis duration
func (t *Timer) ObserveAnalysis(symbol, status string) {
	GetMetrics().RecordAnalysisDuration(symbol, status, time.Since(t.start))
}

// ObserveExternalAPI records the elapsed time as an external API duration
func (t *Timer) ObserveExternalAPI(service, operation string) {
	GetMetrics().RecordExternalAPIDuration(service, operation, time.Since(t.start))
}

// ObserveDB records the elapsed time as a database query duration
func (t *Timer) ObserveDB(operation, table string) {
	GetMetrics().RecordDBQuery(operation, table, time.Since(t.start))
}

// Duration returns the elapsed time
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
