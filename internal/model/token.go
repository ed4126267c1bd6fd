package model

import (
	"time"

	"github.com/google/uuid"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenManager issues and verifies signed access/refresh tokens.
type TokenManager interface {
	Issue(subject uuid.UUID, role string) (TokenPair, error)
	VerifyAccess(token string) (Claims, error)
	VerifyRefresh(token string) (Claims, error)
	TokenID(token string) string
}

// TokenPair is a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Claims is the verified content of a token.
type Claims struct {
	ID        string
	Subject   uuid.UUID
	Role      string
	TokenType string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
