package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nagardrishti/complaint-service/internal/auth"
	"github.com/nagardrishti/complaint-service/internal/config"
	apperrors "github.com/nagardrishti/complaint-service/pkg/util"
)

// AuthService handles the administrator login.
type AuthService struct {
	username     string
	passwordHash string
	tokenMgr     *auth.TokenManager
	logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AdminPasswordHash != "" {
		if err := auth.CheckHash(cfg.AdminPasswordHash); err != nil {
			logger.Error("ADMIN_PASSWORD_HASH is unusable; admin login will fail", zap.Error(err))
		}
	}
	return &AuthService{
		username:     cfg.AdminUsername,
		passwordHash: cfg.AdminPasswordHash,
		tokenMgr:     tokens,
		logger:       logger,
	}
}

// Login checks the admin credentials and issues a session token.
func (s *AuthService) Login(_ context.Context, username, password string) (string, time.Time, error) {
	if s.passwordHash == "" {
		return "", time.Time{}, apperrors.NewConflict("admin login is not configured", nil)
	}
	username = strings.TrimSpace(username)
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	if err := auth.ComparePassword(s.passwordHash, password); err != nil || !userOK {
		s.logger.Warn("admin login rejected", zap.String("username", username))
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.tokenMgr.GenerateToken(username)
}
