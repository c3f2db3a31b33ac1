package service

import (
	"strings"

	"github.com/lifeshare/lifeshare-api/internal/auth"
	"github.com/lifeshare/lifeshare-api/internal/config"
	"github.com/lifeshare/lifeshare-api/internal/domain"
	apperrors "github.com/lifeshare/lifeshare-api/pkg/util/errorutil"
)

// AuthService issues identity tokens.
type AuthService struct {
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{tokenMgr: auth.NewTokenManager(cfg.TokenSecret, cfg.AccessTokenTTLMinutes)}
}

// IssueToken signs a token for the given identity.
func (s *AuthService) IssueToken(identity domain.Identity) (domain.Token, error) {
	identity.Email = strings.TrimSpace(identity.Email)
	if identity.Email == "" {
		return domain.Token{}, apperrors.NewValidationError("email required", nil)
	}
	token, err := s.tokenMgr.Issue(identity)
	if err != nil {
		return domain.Token{}, apperrors.NewInternalError(err)
	}
	return token, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
