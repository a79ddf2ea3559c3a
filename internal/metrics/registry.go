package metrics

import (
	"context"
	"time"

	"github.com/go-ticklist/ticklist/internal/revocation"
)

// InstrumentedRegistry decorates a revocation.Registry and records the
// outcome of every revoke and lookup. The wrapped registry keeps full
// responsibility for semantics; this layer only observes.
type InstrumentedRegistry struct {
	inner    revocation.Registry
	recorder Recorder
}

// Ensure InstrumentedRegistry is a drop-in Registry at compile time
var _ revocation.Registry = (*InstrumentedRegistry)(nil)

// NewInstrumentedRegistry wraps a registry with metrics recording.
func NewInstrumentedRegistry(inner revocation.Registry, recorder Recorder) *InstrumentedRegistry {
	return &InstrumentedRegistry{
		inner:    inner,
		recorder: recorder,
	}
}

// Revoke records the token in the wrapped registry and counts successful revocations.
func (r *InstrumentedRegistry) Revoke(
	ctx context.Context,
	tokenID string,
	expiresAt time.Time,
) error {
	if err := r.inner.Revoke(ctx, tokenID, expiresAt); err != nil {
		return err
	}
	r.recorder.RecordTokenRevoked()
	return nil
}

// IsRevoked checks the wrapped registry and counts the lookup outcome.
func (r *InstrumentedRegistry) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	revoked, err := r.inner.IsRevoked(ctx, tokenID)
	switch {
	case err != nil:
		r.recorder.RecordRevocationLookup(resultError)
	case revoked:
		r.recorder.RecordRevocationLookup("revoked")
	default:
		r.recorder.RecordRevocationLookup("active")
	}
	return revoked, err
}

// Health reports the health of the wrapped registry.
func (r *InstrumentedRegistry) Health(ctx context.Context) error {
	return r.inner.Health(ctx)
}

// Close releases the wrapped registry.
func (r *InstrumentedRegistry) Close() error {
	return r.inner.Close()
}
