package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Token lifecycle
	RecordTokenIssued(generationTime time.Duration)
	RecordTokenValidation(result string, duration time.Duration)
	RecordTokenRevoked()

	// Authentication flows
	RecordRegistration(result string)
	RecordLogin(success bool)
	RecordLogout(success bool)

	// Revocation registry
	RecordRevocationLookup(result string)
	RecordRegistryPurge(removed, remaining int)

	// Todo operations
	RecordTodoOperation(operation, result string)

	// Gauge setters (for periodic updates)
	SetUsersCount(count int)
	SetTodosCount(count int)

	// Database operations
	RecordDatabaseQueryError(operation string)
}

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Token Metrics
	TokensIssuedTotal       prometheus.Counter
	TokensRevokedTotal      prometheus.Counter
	TokenValidationTotal    *prometheus.CounterVec
	TokenGenerationDuration prometheus.Histogram
	TokenValidationDuration prometheus.Histogram

	// Authentication Metrics
	AuthRegistrationsTotal *prometheus.CounterVec
	AuthLoginTotal         *prometheus.CounterVec
	AuthLogoutTotal        *prometheus.CounterVec

	// Revocation Registry Metrics
	RevocationLookupsTotal   *prometheus.CounterVec
	RevocationEntriesPurged  prometheus.Counter
	RevocationEntriesTracked prometheus.Gauge

	// Todo Metrics
	TodoOperationsTotal *prometheus.CounterVec

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database Metrics
	UsersRegistered          prometheus.Gauge
	TodosStored              prometheus.Gauge
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag
// If enabled=true, returns Prometheus-based Metrics
// If enabled=false, returns NoopMetrics (zero overhead)
// Uses sync.Once to ensure Prometheus metrics are only registered once
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	m := &Metrics{
		// Token Metrics
		TokensIssuedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "auth_tokens_issued_total",
				Help: "Total number of access tokens issued",
			},
		),
		TokensRevokedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "auth_tokens_revoked_total",
				Help: "Total number of access tokens revoked",
			},
		),
		TokenValidationTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_token_validation_total",
				Help: "Total number of token validations",
			},
			[]string{"result"}, // valid, malformed, expired, revoked, registry_unavailable
		),
		TokenGenerationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "auth_token_generation_duration_seconds",
				Help:    "Time taken to sign new tokens",
				Buckets: prometheus.DefBuckets,
			},
		),
		TokenValidationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "auth_token_validation_duration_seconds",
				Help:    "Time taken to validate tokens, including the revocation lookup",
				Buckets: prometheus.DefBuckets,
			},
		),

		// Authentication Metrics
		AuthRegistrationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_registrations_total",
				Help: "Total number of account registration attempts",
			},
			[]string{"result"}, // success, email_taken, error
		),
		AuthLoginTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_login_total",
				Help: "Total number of login attempts",
			},
			[]string{"result"}, // success, failure
		),
		AuthLogoutTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_logout_total",
				Help: "Total number of logout attempts",
			},
			[]string{"result"}, // success, error
		),

		// Revocation Registry Metrics
		RevocationLookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "revocation_lookups_total",
				Help: "Total number of revocation registry lookups",
			},
			[]string{"result"}, // revoked, active, error
		),
		RevocationEntriesPurged: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "revocation_entries_purged_total",
				Help: "Total number of expired revocation entries removed by the purge loop",
			},
		),
		RevocationEntriesTracked: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "revocation_entries_tracked",
				Help: "Current number of revocation entries held in the registry",
			},
		),

		// Todo Metrics
		TodoOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todo_operations_total",
				Help: "Total number of todo operations",
			},
			[]string{
				"operation",
				"result",
			}, // operation: create, list, get, update, delete; result: success, not_found, error
		),

		// HTTP Request Metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				Buckets: []float64{
					0.001,
					0.005,
					0.010,
					0.025,
					0.050,
					0.100,
					0.250,
					0.500,
					1.0,
					2.5,
					5.0,
					10.0,
				},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),

		// Database Metrics
		UsersRegistered: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "users_registered",
				Help: "Current number of registered user accounts",
			},
		),
		TodosStored: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "todos_stored",
				Help: "Current number of stored todo items",
			},
		),
		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of database query errors during metric collection",
			},
			[]string{"operation"}, // count_users, count_todos
		),
	}

	return m
}
