package mocks

import (
	context "context"

	model "github.com/cinemood/auth-server/internal/model"
	mock "github.com/stretchr/testify/mock"

	uuid "github.com/google/uuid"
)

// AuthService is a mock type for the AuthService type
type AuthService struct {
	mock.Mock
}

// Register provides a mock function with given fields: ctx, params
func (_m *AuthService) Register(ctx context.Context, params model.RegisterParams) (model.VerificationTicket, error) {
	ret := _m.Called(ctx, params)
	return ret.Get(0).(model.VerificationTicket), ret.Error(1)
}

// Login provides a mock function with given fields: ctx, params
func (_m *AuthService) Login(ctx context.Context, params model.LoginParams) (model.VerificationTicket, error) {
	ret := _m.Called(ctx, params)
	return ret.Get(0).(model.VerificationTicket), ret.Error(1)
}

// StartVerification provides a mock function with given fields: ctx, email
func (_m *AuthService) StartVerification(ctx context.Context, email string) (model.VerificationTicket, error) {
	ret := _m.Called(ctx, email)
	return ret.Get(0).(model.VerificationTicket), ret.Error(1)
}

// ResendCode provides a mock function with given fields: ctx, email
func (_m *AuthService) ResendCode(ctx context.Context, email string) (model.VerificationTicket, error) {
	ret := _m.Called(ctx, email)
	return ret.Get(0).(model.VerificationTicket), ret.Error(1)
}

// VerifyCode provides a mock function with given fields: ctx, email, code
func (_m *AuthService) VerifyCode(ctx context.Context, email string, code string) (model.TokenPair, error) {
	ret := _m.Called(ctx, email, code)
	return ret.Get(0).(model.TokenPair), ret.Error(1)
}

// Refresh provides a mock function with given fields: ctx, refreshToken
func (_m *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	ret := _m.Called(ctx, refreshToken)
	return ret.Get(0).(model.TokenPair), ret.Error(1)
}

// LogoutAll provides a mock function with given fields: ctx, userID, refreshToken
func (_m *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	ret := _m.Called(ctx, userID, refreshToken)
	return ret.Error(0)
}

// NewAuthService creates a new instance of AuthService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AuthService {
	m := &AuthService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
