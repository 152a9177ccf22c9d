package ethereum

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

type mockT interface {
	mock.TestingT
	Cleanup(func())
}

// JSONRPCClientMock mocks jsonrpc.Client. Variadic params are matched as one
// []any.
type JSONRPCClientMock struct {
	mock.Mock
}

type JSONRPCClientMock_Expecter struct {
	mock *mock.Mock
}

func NewJSONRPCClientMock(t mockT) *JSONRPCClientMock {
	m := &JSONRPCClientMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *JSONRPCClientMock) EXPECT() *JSONRPCClientMock_Expecter {
	return &JSONRPCClientMock_Expecter{mock: &m.Mock}
}

func (m *JSONRPCClientMock) Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	ret := m.Called(ctx, method, params)
	raw, _ := ret.Get(0).(json.RawMessage)
	return raw, ret.Error(1)
}

func (e *JSONRPCClientMock_Expecter) Fetch(ctx, method, params any) *mock.Call {
	return e.mock.On("Fetch", ctx, method, params)
}
