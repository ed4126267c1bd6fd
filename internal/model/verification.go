package model

import (
	"context"
	"time"
)

// VerificationCodeTTL is the default lifetime of codes and pending registrations.
const VerificationCodeTTL = 10 * time.Minute

// CodeStore keeps one-time codes and pending registrations keyed by email.
type CodeStore interface {
	IssueCode(ctx context.Context, email string) (string, error)
	MatchCode(ctx context.Context, email, candidate string) (bool, error)
	DeleteCode(ctx context.Context, email string) error
	StorePending(ctx context.Context, email string, pending PendingRegistration) error
	// TakePending returns nil without error when nothing is pending.
	TakePending(ctx context.Context, email string) (*PendingRegistration, error)
	DeletePending(ctx context.Context, email string) error
	TTL() time.Duration
}

// Notifier delivers verification codes to users.
type Notifier interface {
	SendVerificationCode(ctx context.Context, email, subject, code string) error
}

// PendingRegistration is the account payload staged until the email is verified.
type PendingRegistration struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// VerificationTicket tells the caller a code was sent and until when it is valid.
type VerificationTicket struct {
	Email     string
	ExpiresAt time.Time
}
