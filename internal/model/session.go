package model

import (
	"context"

	"github.com/google/uuid"
)

// SessionStore governs which refresh tokens may still be exchanged.
type SessionStore interface {
	Allow(ctx context.Context, userID uuid.UUID, tokenID string) error
	IsAllowed(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	Blacklist(ctx context.Context, token string) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	// Rotate blacklists oldToken and allow-lists newTokenID in one step.
	// It returns ErrTokenBlacklisted if oldToken was already consumed.
	Rotate(ctx context.Context, userID uuid.UUID, oldToken, newTokenID string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}
