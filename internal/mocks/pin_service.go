package mocks

import (
	context "context"

	model "github.com/dtroode/pinmap-server/internal/model"
	mock "github.com/stretchr/testify/mock"

	uuid "github.com/google/uuid"
)

// PinService is a mock type for the PinService type
type PinService struct {
	mock.Mock
}

// CreatePin provides a mock function with given fields: ctx, params
func (_m *PinService) CreatePin(ctx context.Context, params model.CreatePinParams) (model.Pin, error) {
	ret := _m.Called(ctx, params)
	return ret.Get(0).(model.Pin), ret.Error(1)
}

// DeletePin provides a mock function with given fields: ctx, requesterID, pinID
func (_m *PinService) DeletePin(ctx context.Context, requesterID uuid.UUID, pinID uuid.UUID) error {
	ret := _m.Called(ctx, requesterID, pinID)
	return ret.Error(0)
}

// GetPin provides a mock function with given fields: ctx, id
func (_m *PinService) GetPin(ctx context.Context, id uuid.UUID) (model.Pin, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.Pin), ret.Error(1)
}

// ListPins provides a mock function with given fields: ctx
func (_m *PinService) ListPins(ctx context.Context) ([]model.Pin, error) {
	ret := _m.Called(ctx)

	var r0 []model.Pin
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Pin)
	}
	return r0, ret.Error(1)
}

// UpdatePin provides a mock function with given fields: ctx, requesterID, pinID, update
func (_m *PinService) UpdatePin(ctx context.Context, requesterID uuid.UUID, pinID uuid.UUID, update model.PinUpdate) (model.Pin, error) {
	ret := _m.Called(ctx, requesterID, pinID, update)
	return ret.Get(0).(model.Pin), ret.Error(1)
}

// NewPinService creates a new instance of PinService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewPinService(t interface {
	mock.TestingT
	Cleanup(func())
}) *PinService {
	m := &PinService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
