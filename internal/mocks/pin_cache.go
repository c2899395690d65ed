package mocks

import (
	context "context"

	model "github.com/dtroode/pinmap-server/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// PinCache is a mock type for the PinCache type
type PinCache struct {
	mock.Mock
}

// GetPins provides a mock function with given fields: ctx
func (_m *PinCache) GetPins(ctx context.Context) ([]model.Pin, bool, error) {
	ret := _m.Called(ctx)

	var r0 []model.Pin
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Pin)
	}
	return r0, ret.Bool(1), ret.Error(2)
}

// Generation provides a mock function with given fields: ctx
func (_m *PinCache) Generation(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)

	var r0 int64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(int64)
	}
	return r0, ret.Error(1)
}

// Invalidate provides a mock function with given fields: ctx
func (_m *PinCache) Invalidate(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// SetPins provides a mock function with given fields: ctx, generation, pins
func (_m *PinCache) SetPins(ctx context.Context, generation int64, pins []model.Pin) error {
	ret := _m.Called(ctx, generation, pins)
	return ret.Error(0)
}

// NewPinCache creates a new instance of PinCache. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewPinCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *PinCache {
	m := &PinCache{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
