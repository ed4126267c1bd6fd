package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RoleUser is the role assigned to self-registered accounts.
const RoleUser = "user"

// AccountStore defines persistence operations for accounts.
// Save inserts or updates by ID and must reject a second account with the
// same email with ErrEmailTaken.
type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	Save(ctx context.Context, account Account) (Account, error)
}

// Account represents a registered end user.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Username     string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PasswordHasher hashes and compares passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// NormalizeEmail case-folds an email so it can be used as a lookup key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
