package metrics

import "time"

// NoopMetrics is a no-operation implementation of Recorder
// All methods are empty and do nothing, providing zero overhead when metrics are disabled
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

// Token lifecycle - noop implementations
func (n *NoopMetrics) RecordTokenIssued(generationTime time.Duration)              {}
func (n *NoopMetrics) RecordTokenValidation(result string, duration time.Duration) {}
func (n *NoopMetrics) RecordTokenRevoked()                                         {}

// Authentication flows - noop implementations
func (n *NoopMetrics) RecordRegistration(result string) {}
func (n *NoopMetrics) RecordLogin(success bool)         {}
func (n *NoopMetrics) RecordLogout(success bool)        {}

// Revocation registry - noop implementations
func (n *NoopMetrics) RecordRevocationLookup(result string)       {}
func (n *NoopMetrics) RecordRegistryPurge(removed, remaining int) {}

// Todo operations - noop implementations
func (n *NoopMetrics) RecordTodoOperation(operation, result string) {}

// Gauge Setters - noop implementations
func (n *NoopMetrics) SetUsersCount(count int) {}
func (n *NoopMetrics) SetTodosCount(count int) {}

// Database Operations - noop implementations
func (n *NoopMetrics) RecordDatabaseQueryError(operation string) {}
