package bootstrap

import (
	"github.com/go-ticklist/ticklist/internal/config"
	"github.com/go-ticklist/ticklist/internal/metrics"
	"github.com/go-ticklist/ticklist/internal/retry"
	"github.com/go-ticklist/ticklist/internal/revocation"
	"github.com/go-ticklist/ticklist/internal/services"
	"github.com/go-ticklist/ticklist/internal/store"
	"github.com/go-ticklist/ticklist/internal/token"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// signingMethod maps the configured algorithm name to its jwt implementation.
// Validate() restricts the name to the HS family; the HS256 default covers
// only the zero value.
func signingMethod(name string) jwt.SigningMethod {
	switch name {
	case "HS384":
		return jwt.SigningMethodHS384
	case "HS512":
		return jwt.SigningMethodHS512
	default:
		return jwt.SigningMethodHS256
	}
}

// initializeTokenLayer creates the issuer and validator over one shared
// secret and signing method
func initializeTokenLayer(
	cfg *config.Config,
	registry revocation.Registry,
) (*token.Issuer, *token.Validator) {
	method := signingMethod(cfg.JWTSigningAlgorithm)
	issuer := token.NewIssuer(cfg.JWTSecret, method, cfg.AccessTokenLifetime)
	validator := token.NewValidator(cfg.JWTSecret, method, registry)
	return issuer, validator
}

// initializeServices creates all business logic services
func initializeServices(
	db *store.Store,
	issuer *token.Issuer,
	registry revocation.Registry,
	recorder metrics.Recorder,
	logger *zap.Logger,
) (*services.AuthService, *services.TodoService) {
	// Bounded retry for revocation writes during logout.
	retrier := retry.NewRunner()

	authService := services.NewAuthService(db, issuer, registry, retrier, recorder, logger)
	todoService := services.NewTodoService(db, recorder, logger)

	return authService, todoService
}
