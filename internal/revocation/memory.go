package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryRegistry keeps revoked token identifiers in process memory.
// Suitable for single-instance deployments: revocations are lost on
// restart and are not visible to other processes.
type MemoryRegistry struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

// Ensure MemoryRegistry implements the Registry interface.
var _ Registry = (*MemoryRegistry)(nil)

// MemoryOption configures a MemoryRegistry.
type MemoryOption func(*MemoryRegistry)

// MemoryWithClock replaces the registry's time source. Tests use it to
// control when entries expire.
func MemoryWithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryRegistry) {
		m.now = now
	}
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry(opts ...MemoryOption) *MemoryRegistry {
	m := &MemoryRegistry{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Revoke records the identifier until expiresAt. A repeat revocation keeps
// whichever deadline is later, so retention never shrinks.
func (m *MemoryRegistry) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	if !expiresAt.After(m.now()) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if current, ok := m.entries[tokenID]; !ok || expiresAt.After(current) {
		m.entries[tokenID] = expiresAt
	}

	return nil
}

// IsRevoked reports whether the identifier has a live entry. Entries past
// their deadline count as forgotten even before PurgeExpired removes them.
func (m *MemoryRegistry) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	deadline, ok := m.entries[tokenID]
	if !ok || m.now().After(deadline) {
		return false, nil
	}

	return true, nil
}

// PurgeExpired drops entries whose deadline has passed and returns how
// many were removed. Run it periodically to keep the map from growing
// with entries for tokens that already expired.
func (m *MemoryRegistry) PurgeExpired() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, deadline := range m.entries {
		if now.After(deadline) {
			delete(m.entries, id)
			removed++
		}
	}

	return removed
}

// Len returns the number of entries currently held, including any whose
// deadline has passed but which PurgeExpired has not swept yet.
func (m *MemoryRegistry) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// Health always succeeds for the in-memory registry.
func (m *MemoryRegistry) Health(_ context.Context) error {
	return nil
}

// Close drops all entries.
func (m *MemoryRegistry) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]time.Time)
	return nil
}
