package authrpc

import "time"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerificationRequest starts or resends email verification.
type VerificationRequest struct {
	Email string `json:"email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutAllRequest may carry a refresh token when no bearer access token is sent.
type LogoutAllRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// VerificationResponse reports that a code was sent and until when it is valid.
type VerificationResponse struct {
	Email                string    `json:"email"`
	VerificationRequired bool      `json:"verification_required"`
	ExpiresAt            time.Time `json:"expires_at"`
}

type TokenResponse struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type Empty struct{}
