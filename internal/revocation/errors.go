package revocation

import "errors"

// ErrRegistryUnavailable indicates the backing store did not answer.
// Token validation fails closed on this error: an unreachable registry
// must never be mistaken for "not revoked".
var ErrRegistryUnavailable = errors.New("revocation: registry unavailable")
