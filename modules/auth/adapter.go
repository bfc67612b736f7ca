package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthAdapter resolves tokens through the validate-token service.
type AuthAdapter struct {
	container mono.ServiceContainer
}

var _ AuthPort = (*AuthAdapter)(nil)

func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{container: container}
}

// ValidateToken returns the identity carried by token. A rejected token
// yields an error wrapping ErrInvalidToken.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*Identity, error) {
	var resp ValidateTokenResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, ServiceValidateToken, json.Marshal, json.Unmarshal,
		&ValidateTokenRequest{Token: token}, &resp,
	); err != nil {
		return nil, fmt.Errorf("%s: %w", ServiceValidateToken, err)
	}
	if !resp.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, resp.Error)
	}

	return &Identity{UserID: resp.UserID}, nil
}
