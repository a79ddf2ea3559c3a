package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-ticklist/ticklist/internal/revocation"
	"github.com/golang-jwt/jwt/v5"
)

// Validator checks tokens in a fixed order: form and signature first,
// then expiry, then revocation. The order is observable in the returned
// error: a token that is both expired and revoked reports ErrTokenExpired,
// and a forged token never triggers a registry lookup.
type Validator struct {
	secret       []byte
	validMethods []string
	registry     revocation.Registry
	now          func() time.Time
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// ValidatorWithClock replaces the validator's time source. Tests use it
// to move a token past its expiry without sleeping.
func ValidatorWithClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		v.now = now
	}
}

// NewValidator creates a validator that verifies signatures with secret,
// accepts only the given signing method, and consults registry for
// revocations.
func NewValidator(
	secret string,
	method jwt.SigningMethod,
	registry revocation.Registry,
	opts ...ValidatorOption,
) *Validator {
	v := &Validator{
		secret:       []byte(secret),
		validMethods: []string{method.Alg()},
		registry:     registry,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate parses and checks tokenString, returning its claims when the
// token is authentic, unexpired, and not revoked.
//
// Failures map to exactly one sentinel: ErrTokenMalformed for anything
// that fails structural or signature checks, ErrTokenExpired for
// authentic tokens past their expiry, ErrTokenRevoked for live tokens
// with a revoked ID. A registry outage surfaces as
// revocation.ErrRegistryUnavailable; the token is not accepted.
func (v *Validator) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc,
		jwt.WithValidMethods(v.validMethods),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		// The library verifies the signature before it validates claims,
		// so an expiry error here implies the token is authentic.
		if errors.Is(err, jwt.ErrTokenExpired) {
			if claims.Subject == "" || claims.ID == "" {
				return nil, fmt.Errorf("%w: missing required claims", ErrTokenMalformed)
			}
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing required claims", ErrTokenMalformed)
	}

	// Revocation comes last: only authentic, unexpired tokens reach the
	// registry. Outages propagate as-is so callers can fail closed.
	revoked, err := v.registry.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

func (v *Validator) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return v.secret, nil
}
