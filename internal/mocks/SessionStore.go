package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	uuid "github.com/google/uuid"
)

// SessionStore is a mock type for the SessionStore type
type SessionStore struct {
	mock.Mock
}

// Allow provides a mock function with given fields: ctx, userID, tokenID
func (_m *SessionStore) Allow(ctx context.Context, userID uuid.UUID, tokenID string) error {
	ret := _m.Called(ctx, userID, tokenID)
	return ret.Error(0)
}

// IsAllowed provides a mock function with given fields: ctx, userID, tokenID
func (_m *SessionStore) IsAllowed(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	ret := _m.Called(ctx, userID, tokenID)
	return ret.Bool(0), ret.Error(1)
}

// Blacklist provides a mock function with given fields: ctx, token
func (_m *SessionStore) Blacklist(ctx context.Context, token string) error {
	ret := _m.Called(ctx, token)
	return ret.Error(0)
}

// IsBlacklisted provides a mock function with given fields: ctx, token
func (_m *SessionStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	ret := _m.Called(ctx, token)
	return ret.Bool(0), ret.Error(1)
}

// Rotate provides a mock function with given fields: ctx, userID, oldToken, newTokenID
func (_m *SessionStore) Rotate(ctx context.Context, userID uuid.UUID, oldToken string, newTokenID string) error {
	ret := _m.Called(ctx, userID, oldToken, newTokenID)
	return ret.Error(0)
}

// RevokeAll provides a mock function with given fields: ctx, userID
func (_m *SessionStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	ret := _m.Called(ctx, userID)
	return ret.Error(0)
}

// NewSessionStore creates a new instance of SessionStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewSessionStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *SessionStore {
	m := &SessionStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
