package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-ticklist/ticklist/internal/metrics"
	"github.com/go-ticklist/ticklist/internal/password"
	"github.com/go-ticklist/ticklist/internal/retry"
	"github.com/go-ticklist/ticklist/internal/revocation"
	"github.com/go-ticklist/ticklist/internal/store"
	"github.com/go-ticklist/ticklist/internal/token"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const serviceTestSecret = "service-test-signing-secret"

// testClock is a controllable time source for crossing expiry boundaries.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Now()}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// unavailableRegistry fails every call, simulating a backend outage.
type unavailableRegistry struct{}

func (unavailableRegistry) Revoke(context.Context, string, time.Time) error {
	return fmt.Errorf("%w: connection refused", revocation.ErrRegistryUnavailable)
}

func (unavailableRegistry) IsRevoked(context.Context, string) (bool, error) {
	return false, fmt.Errorf("%w: connection refused", revocation.ErrRegistryUnavailable)
}

func (unavailableRegistry) Health(context.Context) error {
	return revocation.ErrRegistryUnavailable
}

func (unavailableRegistry) Close() error { return nil }

// fastRetrier keeps retry delays out of test runtime.
func fastRetrier() *retry.Runner {
	return retry.NewRunner(
		retry.WithMaxRetries(1),
		retry.WithInitialRetryDelay(time.Millisecond),
		retry.WithMaxRetryDelay(2*time.Millisecond),
	)
}

type authFixture struct {
	svc       *AuthService
	validator *token.Validator
	registry  *revocation.MemoryRegistry
	clock     *testClock
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	st, err := store.New(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	clock := newTestClock()
	registry := revocation.NewMemoryRegistry(revocation.MemoryWithClock(clock.Now))
	issuer := token.NewIssuer(serviceTestSecret, jwt.SigningMethodHS256, 30*time.Minute,
		token.IssuerWithClock(clock.Now))
	validator := token.NewValidator(serviceTestSecret, jwt.SigningMethodHS256, registry,
		token.ValidatorWithClock(clock.Now))

	svc := NewAuthService(st, issuer, registry, fastRetrier(), metrics.NewNoopMetrics(), zap.NewNop())

	return &authFixture{
		svc:       svc,
		validator: validator,
		registry:  registry,
		clock:     clock,
	}
}

func TestRegister(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	user, err := fx.svc.Register(ctx, "Alice", "Alice@Example.COM ", "s3cret-pass")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email, "email should be normalized")

	// Stored hash verifies the original password and never contains it.
	ok, err := password.Verify("s3cret-pass", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotContains(t, user.PasswordHash, "s3cret-pass")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	// Same address in different case is still the same account.
	_, err = fx.svc.Register(ctx, "Other Alice", "ALICE@example.com", "other-pass")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	registered, err := fx.svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	issued, user, err := fx.svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, issued.Token)
	assert.Equal(t, registered.ID, issued.Subject)

	// The issued token round-trips through validation to the same subject.
	claims, err := fx.validator.Validate(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.Subject)
	assert.Equal(t, issued.TokenID, claims.ID)
}

func TestLogin_CaseInsensitiveEmail(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = fx.svc.Login(ctx, "ALICE@EXAMPLE.COM", "s3cret-pass")
	assert.NoError(t, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = fx.svc.Login(ctx, "alice@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := fx.svc.Login(ctx, "nobody@example.com", "whatever")

	// Indistinguishable from a wrong password.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout_RevokesToken(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	issued, _, err := fx.svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	// Valid before logout.
	claims, err := fx.validator.Validate(ctx, issued.Token)
	require.NoError(t, err)

	require.NoError(t, fx.svc.Logout(ctx, claims))

	// The token is revoked from then on, though signature and expiry
	// alone would still pass.
	_, err = fx.validator.Validate(ctx, issued.Token)
	assert.ErrorIs(t, err, token.ErrTokenRevoked)
}

func TestLogout_LeavesOtherTokensValid(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	first, _, err := fx.svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	second, _, err := fx.svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	require.NotEqual(t, first.TokenID, second.TokenID,
		"every login mints a distinct token id")

	claims, err := fx.validator.Validate(ctx, first.Token)
	require.NoError(t, err)
	require.NoError(t, fx.svc.Logout(ctx, claims))

	// Revoking one session does not touch the other.
	_, err = fx.validator.Validate(ctx, first.Token)
	assert.ErrorIs(t, err, token.ErrTokenRevoked)
	_, err = fx.validator.Validate(ctx, second.Token)
	assert.NoError(t, err)
}

func TestLogout_Idempotent(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	issued, _, err := fx.svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	claims, err := fx.validator.Validate(ctx, issued.Token)
	require.NoError(t, err)

	require.NoError(t, fx.svc.Logout(ctx, claims))
	require.NoError(t, fx.svc.Logout(ctx, claims))

	_, err = fx.validator.Validate(ctx, issued.Token)
	assert.ErrorIs(t, err, token.ErrTokenRevoked)
}

func TestLogout_RegistryOutageSurfaces(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	issued, _, err := fx.svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	claims, err := fx.validator.Validate(ctx, issued.Token)
	require.NoError(t, err)

	// Swap in a dead registry for the logout path only.
	broken := NewAuthService(nil, nil, unavailableRegistry{}, fastRetrier(),
		metrics.NewNoopMetrics(), zap.NewNop())

	err = broken.Logout(ctx, claims)
	assert.ErrorIs(t, err, revocation.ErrRegistryUnavailable)
}

func TestCurrentUser(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	registered, err := fx.svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	user, err := fx.svc.CurrentUser(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.Email, user.Email)

	_, err = fx.svc.CurrentUser(ctx, "no-such-subject")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice@example.com", "alice@example.com"},
		{"ALICE@EXAMPLE.COM", "alice@example.com"},
		{"  Alice@Example.com\t", "alice@example.com"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeEmail(tt.in))
	}
}

// authRecorder captures auth-flow metric calls.
type authRecorder struct {
	metrics.NoopMetrics
	mu            sync.Mutex
	registrations []string
	logins        []bool
	logouts       []bool
	issued        int
}

func (r *authRecorder) RecordRegistration(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registrations = append(r.registrations, result)
}

func (r *authRecorder) RecordLogin(success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins = append(r.logins, success)
}

func (r *authRecorder) RecordLogout(success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logouts = append(r.logouts, success)
}

func (r *authRecorder) RecordTokenIssued(time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issued++
}

func TestAuthFlowMetrics(t *testing.T) {
	st, err := store.New(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	recorder := &authRecorder{}
	registry := revocation.NewMemoryRegistry()
	issuer := token.NewIssuer(serviceTestSecret, jwt.SigningMethodHS256, 30*time.Minute)
	validator := token.NewValidator(serviceTestSecret, jwt.SigningMethodHS256, registry)
	svc := NewAuthService(st, issuer, registry, fastRetrier(), recorder, zap.NewNop())

	ctx := context.Background()

	_, err = svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.ErrorIs(t, err, ErrEmailTaken)

	issued, _, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	claims, err := validator.Validate(ctx, issued.Token)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, claims))

	assert.Equal(t, []string{"success", "email_taken"}, recorder.registrations)
	assert.Equal(t, []bool{true, false}, recorder.logins)
	assert.Equal(t, []bool{true}, recorder.logouts)
	assert.Equal(t, 1, recorder.issued)
}

func TestRegister_EmailWhitespaceOnly(t *testing.T) {
	fx := newAuthFixture(t)

	user, err := fx.svc.Register(context.Background(), "Alice", " alice@example.com ", "s3cret-pass")
	require.NoError(t, err)
	assert.False(t, strings.ContainsAny(user.Email, " \t"))
}
