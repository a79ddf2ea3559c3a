package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-ticklist/ticklist/internal/metrics"
	"github.com/go-ticklist/ticklist/internal/models"
	"github.com/go-ticklist/ticklist/internal/password"
	"github.com/go-ticklist/ticklist/internal/retry"
	"github.com/go-ticklist/ticklist/internal/revocation"
	"github.com/go-ticklist/ticklist/internal/store"
	"github.com/go-ticklist/ticklist/internal/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService owns the account lifecycle: registration, credential
// verification with token issuance, logout by revocation, and profile
// lookups for verified subjects.
type AuthService struct {
	store    *store.Store
	issuer   *token.Issuer
	registry revocation.Registry
	retrier  *retry.Runner
	recorder metrics.Recorder
	logger   *zap.Logger
}

// NewAuthService wires the auth flows to their collaborators. The retrier
// bounds registry writes during logout.
func NewAuthService(
	s *store.Store,
	issuer *token.Issuer,
	registry revocation.Registry,
	retrier *retry.Runner,
	recorder metrics.Recorder,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		store:    s,
		issuer:   issuer,
		registry: registry,
		retrier:  retrier,
		recorder: recorder,
		logger:   logger,
	}
}

// Register creates an account. The email is lowercased so lookups are
// case-insensitive; a duplicate registration fails with ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, name, email, plaintext string) (*models.User, error) {
	email = normalizeEmail(email)

	hash, err := password.Hash(plaintext)
	if err != nil {
		s.recorder.RecordRegistration("error")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.store.CreateUser(user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			s.recorder.RecordRegistration("email_taken")
			return nil, ErrEmailTaken
		}
		s.recorder.RecordRegistration("error")
		return nil, err
	}

	s.recorder.RecordRegistration("success")
	s.logger.Info("user registered", zap.String("user_id", user.ID))

	return user, nil
}

// Login verifies the credentials and issues an access token. Unknown
// email and wrong password both fail with ErrInvalidCredentials so callers
// cannot probe which emails have accounts.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (*token.Issued, *models.User, error) {
	email = normalizeEmail(email)

	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			s.recorder.RecordLogin(false)
			return nil, nil, ErrInvalidCredentials
		}
		s.recorder.RecordLogin(false)
		return nil, nil, err
	}

	ok, err := password.Verify(plaintext, user.PasswordHash)
	if err != nil || !ok {
		// A corrupt stored hash and a wrong password collapse to the same
		// answer.
		s.recorder.RecordLogin(false)
		return nil, nil, ErrInvalidCredentials
	}

	start := time.Now()
	issued, err := s.issuer.Issue(user.ID)
	if err != nil {
		s.recorder.RecordLogin(false)
		return nil, nil, fmt.Errorf("failed to issue token: %w", err)
	}
	s.recorder.RecordTokenIssued(time.Since(start))
	s.recorder.RecordLogin(true)

	s.logger.Info("login",
		zap.String("user_id", user.ID),
		zap.String("token_id", issued.TokenID),
	)

	return issued, user, nil
}

// Logout revokes the presented token by its id, retaining the entry until
// the token's own expiry. A failed revocation surfaces as a failed logout:
// the client must not believe a token was invalidated when the registry
// never recorded it.
func (s *AuthService) Logout(ctx context.Context, claims *token.Claims) error {
	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		return s.registry.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
	})
	if err != nil {
		s.recorder.RecordLogout(false)
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.recorder.RecordLogout(true)
	s.logger.Info("logout",
		zap.String("user_id", claims.Subject),
		zap.String("token_id", claims.ID),
	)

	return nil
}

// CurrentUser returns the account a verified token subject identifies.
func (s *AuthService) CurrentUser(ctx context.Context, subject string) (*models.User, error) {
	user, err := s.store.GetUserByID(subject)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
