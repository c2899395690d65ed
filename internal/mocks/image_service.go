package mocks

import (
	context "context"
	io "io"

	apierror "github.com/dtroode/pinmap-server/internal/apierror"
	model "github.com/dtroode/pinmap-server/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// ImageService is a mock type for the ImageService type
type ImageService struct {
	mock.Mock
}

// ErrFileTooLarge provides a mock function with no fields
func (_m *ImageService) ErrFileTooLarge() *apierror.APIError {
	ret := _m.Called()

	var r0 *apierror.APIError
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*apierror.APIError)
	}
	return r0
}

// MaxSize provides a mock function with no fields
func (_m *ImageService) MaxSize() int64 {
	ret := _m.Called()
	return ret.Get(0).(int64)
}

// Open provides a mock function with given fields: ctx, name
func (_m *ImageService) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	ret := _m.Called(ctx, name)

	var r0 io.ReadCloser
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(io.ReadCloser)
	}
	return r0, ret.String(1), ret.Error(2)
}

// Store provides a mock function with given fields: ctx, upload
func (_m *ImageService) Store(ctx context.Context, upload model.ImageUpload) (string, error) {
	ret := _m.Called(ctx, upload)
	return ret.String(0), ret.Error(1)
}

// NewImageService creates a new instance of ImageService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewImageService(t interface {
	mock.TestingT
	Cleanup(func())
}) *ImageService {
	m := &ImageService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
