package mocks

import (
	context "context"

	model "github.com/dtroode/pinmap-server/internal/model"
	mock "github.com/stretchr/testify/mock"

	uuid "github.com/google/uuid"
)

// PinStore is a mock type for the PinStore type
type PinStore struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, pin
func (_m *PinStore) Create(ctx context.Context, pin model.Pin) (model.Pin, error) {
	ret := _m.Called(ctx, pin)
	return ret.Get(0).(model.Pin), ret.Error(1)
}

// Delete provides a mock function with given fields: ctx, id
func (_m *PinStore) Delete(ctx context.Context, id uuid.UUID) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *PinStore) GetByID(ctx context.Context, id uuid.UUID) (model.Pin, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.Pin), ret.Error(1)
}

// List provides a mock function with given fields: ctx
func (_m *PinStore) List(ctx context.Context) ([]model.Pin, error) {
	ret := _m.Called(ctx)

	var r0 []model.Pin
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Pin)
	}
	return r0, ret.Error(1)
}

// Update provides a mock function with given fields: ctx, pin
func (_m *PinStore) Update(ctx context.Context, pin model.Pin) (model.Pin, error) {
	ret := _m.Called(ctx, pin)
	return ret.Get(0).(model.Pin), ret.Error(1)
}

// NewPinStore creates a new instance of PinStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewPinStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *PinStore {
	m := &PinStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
