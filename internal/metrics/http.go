package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	resultSuccess = "success"
	resultError   = "error"
	resultFailure = "failure"
)

// HTTPMetricsMiddleware creates a Gin middleware that records HTTP metrics
func HTTPMetricsMiddleware(m Recorder) gin.HandlerFunc {
	// If NoopMetrics, return a lightweight middleware that does nothing
	if _, ok := m.(*NoopMetrics); ok {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	// Type assert to concrete Metrics for Prometheus access
	metrics, ok := m.(*Metrics)
	if !ok {
		// Fallback if unknown implementation
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		// Skip metrics endpoint to avoid self-recording
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()

		// Increment in-flight counter
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		// Process request
		c.Next()

		// Record metrics after request completes
		duration := time.Since(start).Seconds()
		method := c.Request.Method
		path := normalizePath(c.FullPath()) // Use route pattern, not actual path
		status := strconv.Itoa(c.Writer.Status())

		// Record request count
		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()

		// Record request duration
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// normalizePath converts the actual request path to route pattern
// Returns the route pattern (e.g., "/todo/:id") or "unknown" for unmatched routes
func normalizePath(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}

// RecordTokenIssued records token issuance
func (m *Metrics) RecordTokenIssued(generationTime time.Duration) {
	m.TokensIssuedTotal.Inc()
	m.TokenGenerationDuration.Observe(generationTime.Seconds())
}

// RecordTokenValidation records a token validation outcome
func (m *Metrics) RecordTokenValidation(result string, duration time.Duration) {
	// result: valid, malformed, expired, revoked, registry_unavailable
	m.TokenValidationTotal.WithLabelValues(result).Inc()
	m.TokenValidationDuration.Observe(duration.Seconds())
}

// RecordTokenRevoked records a token revocation
func (m *Metrics) RecordTokenRevoked() {
	m.TokensRevokedTotal.Inc()
}

// RecordRegistration records an account registration attempt
func (m *Metrics) RecordRegistration(result string) {
	// result: success, email_taken, error
	m.AuthRegistrationsTotal.WithLabelValues(result).Inc()
}

// RecordLogin records a login attempt
func (m *Metrics) RecordLogin(success bool) {
	result := resultSuccess
	if !success {
		result = resultFailure
	}
	m.AuthLoginTotal.WithLabelValues(result).Inc()
}

// RecordLogout records a logout attempt
func (m *Metrics) RecordLogout(success bool) {
	result := resultSuccess
	if !success {
		result = resultError
	}
	m.AuthLogoutTotal.WithLabelValues(result).Inc()
}

// RecordRevocationLookup records a revocation registry lookup outcome
func (m *Metrics) RecordRevocationLookup(result string) {
	// result: revoked, active, error
	m.RevocationLookupsTotal.WithLabelValues(result).Inc()
}

// RecordRegistryPurge records one sweep of the revocation purge loop
func (m *Metrics) RecordRegistryPurge(removed, remaining int) {
	m.RevocationEntriesPurged.Add(float64(removed))
	m.RevocationEntriesTracked.Set(float64(remaining))
}

// RecordTodoOperation records a todo operation outcome
func (m *Metrics) RecordTodoOperation(operation, result string) {
	// operation: create, list, get, update, delete; result: success, not_found, error
	m.TodoOperationsTotal.WithLabelValues(operation, result).Inc()
}

// SetUsersCount sets the current count of registered users (for periodic updates)
func (m *Metrics) SetUsersCount(count int) {
	m.UsersRegistered.Set(float64(count))
}

// SetTodosCount sets the current count of stored todos (for periodic updates)
func (m *Metrics) SetTodosCount(count int) {
	m.TodosStored.Set(float64(count))
}

// RecordDatabaseQueryError records a database query error during metric collection
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
