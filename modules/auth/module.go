package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// ServiceValidateToken is the request-reply service resolving a bearer token.
const ServiceValidateToken = "validate-token"

// AuthModule verifies bearer tokens on behalf of the HTTP module. User
// management lives outside this system; demoUsers only receive tokens
// printed at startup for local use.
type AuthModule struct {
	jwt       *JWTManager
	demoUsers []string
	logger    types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule.
func NewModule(config JWTConfig, demoUsers []string, logger types.Logger) *AuthModule {
	return &AuthModule{
		jwt:       NewJWTManager(config),
		demoUsers: demoUsers,
		logger:    logger,
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start issues tokens for the configured demo users.
func (m *AuthModule) Start(_ context.Context) error {
	for _, userID := range m.demoUsers {
		token, err := m.jwt.GenerateAccessToken(userID)
		if err != nil {
			return fmt.Errorf("failed to issue demo token for %s: %w", userID, err)
		}
		m.logger.Info("Issued demo access token", "user_id", userID, "token", token)
	}
	m.logger.Info("Auth module started", "issuer", m.jwt.config.Issuer)
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	m.logger.Info("Auth module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"issuer": m.jwt.config.Issuer,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceValidateToken,
		json.Unmarshal,
		json.Marshal,
		m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	m.logger.Info("Registered auth services", "services", []string{ServiceValidateToken})
	return nil
}

// handleValidateToken handles token validation.
func (m *AuthModule) handleValidateToken(_ context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.jwt.ValidateAccessToken(req.Token)
	if err != nil {
		errMsg := "invalid token"
		if errors.Is(err, ErrExpiredToken) {
			errMsg = "token expired"
		}
		return ValidateTokenResponse{
			Valid: false,
			Error: errMsg,
		}, nil // validation failures are a response, not a transport error
	}

	return ValidateTokenResponse{
		Valid:  true,
		UserID: claims.UserID,
	}, nil
}
