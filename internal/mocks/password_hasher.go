package mocks

import mock "github.com/stretchr/testify/mock"

// PasswordHasher is a mock type for the PasswordHasher type
type PasswordHasher struct {
	mock.Mock
}

// Compare provides a mock function with given fields: hash, password
func (_m *PasswordHasher) Compare(hash []byte, password string) error {
	ret := _m.Called(hash, password)
	return ret.Error(0)
}

// Hash provides a mock function with given fields: password
func (_m *PasswordHasher) Hash(password string) ([]byte, error) {
	ret := _m.Called(password)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

// NewPasswordHasher creates a new instance of PasswordHasher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewPasswordHasher(t interface {
	mock.TestingT
	Cleanup(func())
}) *PasswordHasher {
	m := &PasswordHasher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
