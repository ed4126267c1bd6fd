package mocks

import (
	context "context"

	model "github.com/cinemood/auth-server/internal/model"
	mock "github.com/stretchr/testify/mock"

	uuid "github.com/google/uuid"
)

// AccountStore is a mock type for the AccountStore type
type AccountStore struct {
	mock.Mock
}

// GetByEmail provides a mock function with given fields: ctx, email
func (_m *AccountStore) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	ret := _m.Called(ctx, email)

	var r0 model.Account
	if rf, ok := ret.Get(0).(func(context.Context, string) model.Account); ok {
		r0 = rf(ctx, email)
	} else {
		r0 = ret.Get(0).(model.Account)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, email)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	ret := _m.Called(ctx, id)

	var r0 model.Account
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) model.Account); ok {
		r0 = rf(ctx, id)
	} else {
		r0 = ret.Get(0).(model.Account)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, uuid.UUID) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Save provides a mock function with given fields: ctx, account
func (_m *AccountStore) Save(ctx context.Context, account model.Account) (model.Account, error) {
	ret := _m.Called(ctx, account)

	var r0 model.Account
	if rf, ok := ret.Get(0).(func(context.Context, model.Account) model.Account); ok {
		r0 = rf(ctx, account)
	} else {
		r0 = ret.Get(0).(model.Account)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, model.Account) error); ok {
		r1 = rf(ctx, account)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewAccountStore creates a new instance of AccountStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewAccountStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *AccountStore {
	m := &AccountStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
