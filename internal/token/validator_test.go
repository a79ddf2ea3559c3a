package token

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-ticklist/ticklist/internal/revocation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source shared by an issuer and a
// validator under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// failingRegistry simulates a revocation backend outage.
type failingRegistry struct{}

func (failingRegistry) Revoke(context.Context, string, time.Time) error {
	return revocation.ErrRegistryUnavailable
}

func (failingRegistry) IsRevoked(context.Context, string) (bool, error) {
	return false, revocation.ErrRegistryUnavailable
}

func (failingRegistry) Health(context.Context) error {
	return revocation.ErrRegistryUnavailable
}

func (failingRegistry) Close() error { return nil }

func TestValidator_Validate_RoundTrip(t *testing.T) {
	issuer := NewIssuer(testSecret, jwt.SigningMethodHS256, 30*time.Minute)
	validator := NewValidator(testSecret, jwt.SigningMethodHS256, revocation.NewMemoryRegistry())

	issued, err := issuer.Issue("user123")
	require.NoError(t, err)

	claims, err := validator.Validate(context.Background(), issued.Token)

	require.NoError(t, err)
	assert.Equal(t, "user123", claims.Subject)
	assert.Equal(t, issued.TokenID, claims.ID)
	assert.True(t, claims.ExpiresAt.Time.Equal(issued.ExpiresAt))
	assert.True(t, claims.IssuedAt.Time.Equal(issued.IssuedAt))
}

func TestValidator_Validate_Garbage(t *testing.T) {
	validator := NewValidator(testSecret, jwt.SigningMethodHS256, revocation.NewMemoryRegistry())

	for _, tokenString := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := validator.Validate(context.Background(), tokenString)

		assert.ErrorIs(t, err, ErrTokenMalformed, "input %q should be malformed", tokenString)
	}
}

func TestValidator_Validate_WrongSecret(t *testing.T) {
	issuer := NewIssuer("secret-one", jwt.SigningMethodHS256, 30*time.Minute)
	validator := NewValidator("secret-two", jwt.SigningMethodHS256, revocation.NewMemoryRegistry())

	issued, err := issuer.Issue("user123")
	require.NoError(t, err)

	_, err = validator.Validate(context.Background(), issued.Token)

	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestValidator_Validate_TamperedPayload(t *testing.T) {
	issuer := NewIssuer(testSecret, jwt.SigningMethodHS256, 30*time.Minute)
	validator := NewValidator(testSecret, jwt.SigningMethodHS256, revocation.NewMemoryRegistry())

	issued, err := issuer.Issue("user123")
	require.NoError(t, err)

	// Flip one character of the payload segment so the signature no
	// longer matches
	parts := strings.Split(issued.Token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = validator.Validate(context.Background(), tampered)

	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestValidator_Validate_WrongAlgorithm(t *testing.T) {
	issuer := NewIssuer(testSecret, jwt.SigningMethodHS384, 30*time.Minute)
	validator := NewValidator(testSecret, jwt.SigningMethodHS256, revocation.NewMemoryRegistry())

	issued, err := issuer.Issue("user123")
	require.NoError(t, err)

	_, err = validator.Validate(context.Background(), issued.Token)

	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestValidator_Validate_MissingClaims(t *testing.T) {
	registry := revocation.NewMemoryRegistry()
	validator := NewValidator(testSecret, jwt.SigningMethodHS256, registry)

	tests := []struct {
		name   string
		claims jwt.RegisteredClaims
	}{
		{
			"no expiry",
			jwt.RegisteredClaims{
				Subject: "user123",
				ID:      "token-id",
			},
		},
		{
			"no subject",
			jwt.RegisteredClaims{
				ID:        "token-id",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		},
		{
			"no token ID",
			jwt.RegisteredClaims{
				Subject:   "user123",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).
				SignedString([]byte(testSecret))
			require.NoError(t, err)

			_, err = validator.Validate(context.Background(), tokenString)

			assert.ErrorIs(t, err, ErrTokenMalformed)
		})
	}
}

func TestValidator_Validate_Expired(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	issuer := NewIssuer(testSecret, jwt.SigningMethodHS256, 30*time.Minute, IssuerWithClock(clock.Now))
	validator := NewValidator(
		testSecret,
		jwt.SigningMethodHS256,
		revocation.NewMemoryRegistry(),
		ValidatorWithClock(clock.Now),
	)

	issued, err := issuer.Issue("user123")
	require.NoError(t, err)

	// Valid right up to the expiry instant
	clock.Advance(29 * time.Minute)
	_, err = validator.Validate(context.Background(), issued.Token)
	require.NoError(t, err)

	// Expired exactly at the expiry instant
	clock.Advance(1 * time.Minute)
	_, err = validator.Validate(context.Background(), issued.Token)

	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidator_Validate_Revoked(t *testing.T) {
	registry := revocation.NewMemoryRegistry()
	issuer := NewIssuer(testSecret, jwt.SigningMethodHS256, 30*time.Minute)
	validator := NewValidator(testSecret, jwt.SigningMethodHS256, registry)

	issued, err := issuer.Issue("user123")
	require.NoError(t, err)

	// Accepted before revocation
	_, err = validator.Validate(context.Background(), issued.Token)
	require.NoError(t, err)

	require.NoError(t, registry.Revoke(context.Background(), issued.TokenID, issued.ExpiresAt))

	_, err = validator.Validate(context.Background(), issued.Token)

	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestValidator_Validate_RevocationScopedToTokenID(t *testing.T) {
	registry := revocation.NewMemoryRegistry()
	issuer := NewIssuer(testSecret, jwt.SigningMethodHS256, 30*time.Minute)
	validator := NewValidator(testSecret, jwt.SigningMethodHS256, registry)

	first, err := issuer.Issue("user123")
	require.NoError(t, err)
	second, err := issuer.Issue("user123")
	require.NoError(t, err)

	require.NoError(t, registry.Revoke(context.Background(), first.TokenID, first.ExpiresAt))

	// Only the revoked token is rejected; the subject's other token lives on
	_, err = validator.Validate(context.Background(), first.Token)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	claims, err := validator.Validate(context.Background(), second.Token)
	require.NoError(t, err)
	assert.Equal(t, "user123", claims.Subject)
}

func TestValidator_Validate_ExpiredReportedBeforeRevoked(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	registry := revocation.NewMemoryRegistry(revocation.MemoryWithClock(clock.Now))
	issuer := NewIssuer(testSecret, jwt.SigningMethodHS256, 30*time.Minute, IssuerWithClock(clock.Now))
	validator := NewValidator(testSecret, jwt.SigningMethodHS256, registry, ValidatorWithClock(clock.Now))

	issued, err := issuer.Issue("user123")
	require.NoError(t, err)
	require.NoError(t, registry.Revoke(context.Background(), issued.TokenID, issued.ExpiresAt))

	clock.Advance(31 * time.Minute)

	_, err = validator.Validate(context.Background(), issued.Token)

	assert.ErrorIs(t, err, ErrTokenExpired, "expiry must be reported ahead of revocation")
}

func TestValidator_Validate_RegistryUnavailable(t *testing.T) {
	issuer := NewIssuer(testSecret, jwt.SigningMethodHS256, 30*time.Minute)
	validator := NewValidator(testSecret, jwt.SigningMethodHS256, failingRegistry{})

	issued, err := issuer.Issue("user123")
	require.NoError(t, err)

	_, err = validator.Validate(context.Background(), issued.Token)

	// Fail closed: an unreachable registry never admits a token
	assert.ErrorIs(t, err, revocation.ErrRegistryUnavailable)
}

func TestValidator_Validate_ForgedTokenSkipsRegistry(t *testing.T) {
	issuer := NewIssuer("secret-one", jwt.SigningMethodHS256, 30*time.Minute)
	validator := NewValidator("secret-two", jwt.SigningMethodHS256, failingRegistry{})

	issued, err := issuer.Issue("user123")
	require.NoError(t, err)

	_, err = validator.Validate(context.Background(), issued.Token)

	// The signature check fails first, so the registry outage is never hit
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
