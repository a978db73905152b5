package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"
)

// MockSecretStore is a testify mock of ports.SecretStore.
type MockSecretStore struct {
	mock.Mock
}

type MockSecretStore_Expecter struct {
	mock *mock.Mock
}

func (_m *MockSecretStore) EXPECT() *MockSecretStore_Expecter {
	return &MockSecretStore_Expecter{mock: &_m.Mock}
}

func (_m *MockSecretStore) Get(ctx context.Context, key string) (string, error) {
	ret := _m.Called(ctx, key)
	return ret.String(0), ret.Error(1)
}

func (_m *MockSecretStore) Put(ctx context.Context, key string, value string) error {
	ret := _m.Called(ctx, key, value)
	return ret.Error(0)
}

func (_m *MockSecretStore) Delete(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)
	return ret.Error(0)
}

type MockSecretStore_Get_Call struct {
	*mock.Call
}

func (_e *MockSecretStore_Expecter) Get(ctx interface{}, key interface{}) *MockSecretStore_Get_Call {
	return &MockSecretStore_Get_Call{Call: _e.mock.On("Get", ctx, key)}
}

func (_c *MockSecretStore_Get_Call) Return(value string, err error) *MockSecretStore_Get_Call {
	_c.Call.Return(value, err)
	return _c
}

func (_c *MockSecretStore_Get_Call) Once() *MockSecretStore_Get_Call {
	_c.Call.Once()
	return _c
}

type MockSecretStore_Put_Call struct {
	*mock.Call
}

func (_e *MockSecretStore_Expecter) Put(ctx interface{}, key interface{}, value interface{}) *MockSecretStore_Put_Call {
	return &MockSecretStore_Put_Call{Call: _e.mock.On("Put", ctx, key, value)}
}

func (_c *MockSecretStore_Put_Call) Return(err error) *MockSecretStore_Put_Call {
	_c.Call.Return(err)
	return _c
}

func (_c *MockSecretStore_Put_Call) Once() *MockSecretStore_Put_Call {
	_c.Call.Once()
	return _c
}

type MockSecretStore_Delete_Call struct {
	*mock.Call
}

func (_e *MockSecretStore_Expecter) Delete(ctx interface{}, key interface{}) *MockSecretStore_Delete_Call {
	return &MockSecretStore_Delete_Call{Call: _e.mock.On("Delete", ctx, key)}
}

func (_c *MockSecretStore_Delete_Call) Return(err error) *MockSecretStore_Delete_Call {
	_c.Call.Return(err)
	return _c
}

func (_c *MockSecretStore_Delete_Call) Once() *MockSecretStore_Delete_Call {
	_c.Call.Once()
	return _c
}

// NewMockSecretStore registers AssertExpectations as a test cleanup.
func NewMockSecretStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSecretStore {
	m := &MockSecretStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
