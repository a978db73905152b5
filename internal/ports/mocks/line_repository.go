package mocks

import (
	"context"

	"github.com/bnema/fido-usage-cli/internal/domain"
	mock "github.com/stretchr/testify/mock"
)

// MockLineRepository is a testify mock of ports.LineRepository.
type MockLineRepository struct {
	mock.Mock
}

type MockLineRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockLineRepository) EXPECT() *MockLineRepository_Expecter {
	return &MockLineRepository_Expecter{mock: &_m.Mock}
}

func (_m *MockLineRepository) GetByNumber(ctx context.Context, number domain.PhoneNumber) (domain.Line, error) {
	ret := _m.Called(ctx, number)
	return ret.Get(0).(domain.Line), ret.Error(1)
}

func (_m *MockLineRepository) List(ctx context.Context) ([]domain.Line, error) {
	ret := _m.Called(ctx)
	lines, _ := ret.Get(0).([]domain.Line)
	return lines, ret.Error(1)
}

func (_m *MockLineRepository) Save(ctx context.Context, line domain.Line) error {
	ret := _m.Called(ctx, line)
	return ret.Error(0)
}

func (_m *MockLineRepository) Delete(ctx context.Context, number domain.PhoneNumber) error {
	ret := _m.Called(ctx, number)
	return ret.Error(0)
}

type MockLineRepository_GetByNumber_Call struct {
	*mock.Call
}

func (_e *MockLineRepository_Expecter) GetByNumber(ctx interface{}, number interface{}) *MockLineRepository_GetByNumber_Call {
	return &MockLineRepository_GetByNumber_Call{Call: _e.mock.On("GetByNumber", ctx, number)}
}

func (_c *MockLineRepository_GetByNumber_Call) Return(line domain.Line, err error) *MockLineRepository_GetByNumber_Call {
	_c.Call.Return(line, err)
	return _c
}

type MockLineRepository_List_Call struct {
	*mock.Call
}

func (_e *MockLineRepository_Expecter) List(ctx interface{}) *MockLineRepository_List_Call {
	return &MockLineRepository_List_Call{Call: _e.mock.On("List", ctx)}
}

func (_c *MockLineRepository_List_Call) Return(lines []domain.Line, err error) *MockLineRepository_List_Call {
	_c.Call.Return(lines, err)
	return _c
}

type MockLineRepository_Save_Call struct {
	*mock.Call
}

func (_e *MockLineRepository_Expecter) Save(ctx interface{}, line interface{}) *MockLineRepository_Save_Call {
	return &MockLineRepository_Save_Call{Call: _e.mock.On("Save", ctx, line)}
}

func (_c *MockLineRepository_Save_Call) Return(err error) *MockLineRepository_Save_Call {
	_c.Call.Return(err)
	return _c
}

func (_c *MockLineRepository_Save_Call) Once() *MockLineRepository_Save_Call {
	_c.Call.Once()
	return _c
}

type MockLineRepository_Delete_Call struct {
	*mock.Call
}

func (_e *MockLineRepository_Expecter) Delete(ctx interface{}, number interface{}) *MockLineRepository_Delete_Call {
	return &MockLineRepository_Delete_Call{Call: _e.mock.On("Delete", ctx, number)}
}

func (_c *MockLineRepository_Delete_Call) Return(err error) *MockLineRepository_Delete_Call {
	_c.Call.Return(err)
	return _c
}

func NewMockLineRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLineRepository {
	m := &MockLineRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
