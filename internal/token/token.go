package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the registered JWT claims issued by this service. The
// subject identifies the account; the ID (jti) makes each token
// individually revocable.
type Claims struct {
	jwt.RegisteredClaims
}

// Issued describes a freshly signed token.
type Issued struct {
	Token     string
	TokenID   string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer signs short-lived access tokens with an HMAC secret.
type Issuer struct {
	secret   []byte
	method   jwt.SigningMethod
	lifetime time.Duration
	now      func() time.Time
}

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer)

// IssuerWithClock replaces the issuer's time source. Tests use it to
// issue tokens at a chosen instant.
func IssuerWithClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.now = now
	}
}

// NewIssuer creates a token issuer. The signing method must come from the
// HMAC family; lifetime bounds every token it signs.
func NewIssuer(
	secret string,
	method jwt.SigningMethod,
	lifetime time.Duration,
	opts ...IssuerOption,
) *Issuer {
	i := &Issuer{
		secret:   []byte(secret),
		method:   method,
		lifetime: lifetime,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Issue signs a token for subject. Every call mints a fresh token ID, so
// two tokens for the same subject never share a revocation entry.
// Timestamps are truncated to whole seconds to match what the claims
// encode on the wire.
func (i *Issuer) Issue(subject string) (*Issued, error) {
	if subject == "" {
		return nil, fmt.Errorf("%w: empty subject", ErrTokenGeneration)
	}

	now := i.now().Truncate(time.Second)
	expiresAt := now.Add(i.lifetime)
	tokenID := uuid.New().String()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        tokenID,
		},
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	return &Issued{
		Token:     signed,
		TokenID:   tokenID,
		Subject:   subject,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}
