package model

import "errors"

var (
	// ErrNotFound is returned by repositories when the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when request parameters fail validation.
	ErrInvalidInput = errors.New("invalid input")

	ErrEmailTaken            = errors.New("email is already taken")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInvalidCode           = errors.New("invalid verification code")
	ErrNoPendingRegistration = errors.New("no pending registration")

	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenBlacklisted = errors.New("refresh token has been revoked")
	ErrTokenNotAllowed  = errors.New("refresh token is not allowed")
	ErrUserNotFound     = errors.New("user not found")
	ErrUnauthorized     = errors.New("unauthorized")

	// ErrStoreUnavailable marks transient failures of the key-value store.
	// The core never retries them.
	ErrStoreUnavailable = errors.New("store unavailable")
)
