package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/command-center/internal/auth"
	"github.com/spec-kit/command-center/internal/config"
	"github.com/spec-kit/command-center/internal/domain"
	"github.com/spec-kit/command-center/internal/repository"
	apperrors "github.com/spec-kit/command-center/pkg/util"
)

// TokenPair bundles the issued access and refresh tokens.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService coordinates registration, login and session flows.
type AuthService struct {
	users      repository.UserRepository
	sessions   repository.RefreshTokenStore
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	SessionStore repository.RefreshTokenStore
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:    deps.UserRepo,
		sessions: deps.SessionStore,
		tokenMgr: auth.NewTokenManager(
			cfg.JWTSecret,
			cfg.RefreshSecret,
			cfg.AccessTokenTTL(),
			cfg.RefreshTokenTTL(),
		),
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a new account. Role defaults to ranger.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.UserRole) (*domain.User, *TokenPair, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if len(name) < 2 || email == "" || len(password) < 6 {
		return nil, nil, apperrors.NewValidationError("name, email and a password of at least 6 characters are required", nil)
	}
	if role == "" {
		role = domain.RoleRanger
	}
	if !domain.ValidRole(role) {
		return nil, nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, nil, apperrors.NewValidationError("email already in use", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewUnauthorized("invalid credentials")
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh validates a refresh token against both its signature and the
// session store, then issues a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokenMgr.ParseRefresh(refreshToken)
	if err != nil {
		return "", apperrors.NewUnauthorized("invalid refresh token")
	}
	if _, err := s.sessions.Validate(ctx, claims.ID); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return "", apperrors.NewUnauthorized("invalid refresh token")
		}
		return "", apperrors.MapError(err)
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewUnauthorized("invalid refresh token")
		}
		return "", apperrors.MapError(err)
	}

	access, _, err := s.tokenMgr.GenerateAccess(user)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	return access, nil
}

// Logout revokes the refresh token's session entry. The access token stays
// valid until expiry; only the refresh path is cut.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokenMgr.ParseRefresh(refreshToken)
	if err != nil {
		return apperrors.NewUnauthorized("invalid refresh token")
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Me returns the account for an authenticated principal.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, _, err := s.tokenMgr.GenerateAccess(user)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	refresh, jti, _, err := s.tokenMgr.GenerateRefresh(user.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.sessions.Save(ctx, jti, user.ID, s.tokenMgr.RefreshTTL()); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
