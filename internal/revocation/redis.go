package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

// Compile-time interface check.
var _ Registry = (*RedisRegistry)(nil)

// revokedValue is the payload stored under each revoked identifier.
// Only key presence matters; the value is never inspected.
const revokedValue = "1"

// RedisRegistry keeps revoked token identifiers in Redis, one key per
// identifier with a TTL matching the token's remaining lifetime. Required
// for multi-instance deployments so every instance observes the same set.
type RedisRegistry struct {
	client    rueidis.Client
	keyPrefix string
}

// NewRedisRegistry creates a Redis-backed registry using rueidis.
func NewRedisRegistry(
	ctx context.Context,
	addr, password string,
	db int,
	keyPrefix string,
) (*RedisRegistry, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{addr},
		Password:     password,
		SelectDB:     db,
		DisableCache: true, // a cached answer could hide a fresh revocation
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	// Test connection with provided context
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisRegistry{
		client:    client,
		keyPrefix: keyPrefix,
	}, nil
}

// Revoke stores the identifier with a TTL running out at expiresAt, so
// Redis forgets the entry once the token can no longer pass the expiry
// check. Re-revoking the same token recomputes the same deadline from its
// expiry, which makes the overwrite a no-op in effect.
func (r *RedisRegistry) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	// Round up to whole seconds so the entry never dies before the token.
	if rem := ttl % time.Second; rem > 0 {
		ttl += time.Second - rem
	}

	fullKey := r.keyPrefix + tokenID

	cmd := r.client.B().Set().
		Key(fullKey).
		Value(revokedValue).
		Ex(ttl).
		Build()

	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}

	return nil
}

// IsRevoked checks whether a key exists for the identifier.
func (r *RedisRegistry) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	fullKey := r.keyPrefix + tokenID

	cmd := r.client.B().Exists().Key(fullKey).Build()
	count, err := r.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}

	return count > 0, nil
}

// Health checks Redis connectivity.
func (r *RedisRegistry) Health(ctx context.Context) error {
	cmd := r.client.B().Ping().Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}

	return nil
}

// Close closes the Redis connection.
func (r *RedisRegistry) Close() error {
	r.client.Close()
	return nil
}
