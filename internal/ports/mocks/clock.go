package mocks

import (
	"time"

	mock "github.com/stretchr/testify/mock"
)

// MockClock is a testify mock of ports.Clock.
type MockClock struct {
	mock.Mock
}

type MockClock_Expecter struct {
	mock *mock.Mock
}

func (_m *MockClock) EXPECT() *MockClock_Expecter {
	return &MockClock_Expecter{mock: &_m.Mock}
}

func (_m *MockClock) Now() time.Time {
	ret := _m.Called()
	return ret.Get(0).(time.Time)
}

type MockClock_Now_Call struct {
	*mock.Call
}

func (_e *MockClock_Expecter) Now() *MockClock_Now_Call {
	return &MockClock_Now_Call{Call: _e.mock.On("Now")}
}

func (_c *MockClock_Now_Call) Return(now time.Time) *MockClock_Now_Call {
	_c.Call.Return(now)
	return _c
}

func NewMockClock(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClock {
	m := &MockClock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
