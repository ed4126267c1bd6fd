package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cinemood/auth-server/internal/logger"
	"github.com/cinemood/auth-server/internal/model"
	"github.com/cinemood/auth-server/internal/token"
)

// TokenService provides high-level operations for issuing, refreshing,
// and revoking tokens. It composes the TokenManager and SessionStore.
type TokenService struct {
	manager  model.TokenManager
	sessions model.SessionStore
	accounts model.AccountStore
	logger   *logger.Logger
}

func NewTokenService(
	manager model.TokenManager,
	sessions model.SessionStore,
	accounts model.AccountStore,
	logger *logger.Logger,
) *TokenService {
	return &TokenService{
		manager:  manager,
		sessions: sessions,
		accounts: accounts,
		logger:   logger,
	}
}

// Issue signs a new pair for account and allow-lists its refresh token.
func (s *TokenService) Issue(ctx context.Context, account model.Account) (model.TokenPair, error) {
	pair, err := s.manager.Issue(account.ID, account.Role)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	if err := s.sessions.Allow(ctx, account.ID, s.manager.TokenID(pair.RefreshToken)); err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to allow refresh token: %w", err)
	}

	return pair, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// blacklisted in the same store operation that allow-lists its successor.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := s.manager.VerifyRefresh(refreshToken)
	if err != nil {
		s.logger.Info("Auth service: refresh token rejected",
			"reason", token.FailureReason(err))
		return model.TokenPair{}, fmt.Errorf("failed to verify refresh token: %w", err)
	}

	tokenID := s.manager.TokenID(refreshToken)

	blacklisted, err := s.sessions.IsBlacklisted(ctx, refreshToken)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		s.logger.Warn("Auth service: blacklisted refresh token presented",
			"user_id", claims.Subject,
			"token_id", tokenID)
		return model.TokenPair{}, model.ErrTokenBlacklisted
	}

	allowed, err := s.sessions.IsAllowed(ctx, claims.Subject, tokenID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to check allow-list: %w", err)
	}
	if !allowed {
		s.logger.Info("Auth service: refresh token not allowed",
			"user_id", claims.Subject,
			"token_id", tokenID)
		return model.TokenPair{}, model.ErrTokenNotAllowed
	}

	account, err := s.accounts.GetByID(ctx, claims.Subject)
	if errors.Is(err, model.ErrNotFound) {
		return model.TokenPair{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to get account by id: %w", err)
	}

	pair, err := s.manager.Issue(account.ID, account.Role)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	newTokenID := s.manager.TokenID(pair.RefreshToken)
	if err := s.sessions.Rotate(ctx, account.ID, refreshToken, newTokenID); err != nil {
		if errors.Is(err, model.ErrTokenBlacklisted) {
			s.logger.Warn("Auth service: concurrent refresh lost rotation",
				"user_id", account.ID,
				"token_id", tokenID)
			return model.TokenPair{}, err
		}
		return model.TokenPair{}, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	s.logger.Debug("Auth service: refresh token rotated",
		"user_id", account.ID,
		"old_token_id", tokenID,
		"new_token_id", newTokenID)

	return pair, nil
}

// RevokeAll blacklists refreshToken when given and invalidates every
// refresh token the user holds.
func (s *TokenService) RevokeAll(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	if refreshToken != "" {
		if err := s.sessions.Blacklist(ctx, refreshToken); err != nil {
			return fmt.Errorf("failed to blacklist refresh token: %w", err)
		}
	}

	if err := s.sessions.RevokeAll(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	return nil
}

// GetUserID returns the subject of a valid access token.
func (s *TokenService) GetUserID(ctx context.Context, accessToken string) (uuid.UUID, error) {
	claims, err := s.manager.VerifyAccess(accessToken)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.Subject, nil
}

// SubjectFromRefresh returns the subject of a refresh token that verifies.
// It does not consult the session store.
func (s *TokenService) SubjectFromRefresh(refreshToken string) (uuid.UUID, error) {
	claims, err := s.manager.VerifyRefresh(refreshToken)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.Subject, nil
}
