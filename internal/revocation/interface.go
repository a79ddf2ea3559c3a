package revocation

import (
	"context"
	"time"
)

// Registry is the set of revoked token identifiers. Entries only need to
// live until the token itself expires; after that the expiry check rejects
// the token on its own and the registry may forget it.
//
// Implementations must be safe for concurrent use and must provide
// read-after-write consistency: once Revoke returns, IsRevoked observes
// the revocation.
type Registry interface {
	// Revoke marks a token identifier as revoked until expiresAt, the
	// token's own expiry. Revoking the same identifier again is a no-op
	// and never shortens the remaining retention. Identifiers already
	// past expiresAt are not recorded.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error

	// IsRevoked reports whether the identifier is currently revoked.
	// A non-nil error means the registry could not answer; callers must
	// treat that as an outage, never as "not revoked".
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	// Health checks if the backing store is reachable
	Health(ctx context.Context) error

	// Close releases resources held by the registry
	Close() error
}
