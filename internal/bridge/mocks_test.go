package bridge

import (
	"context"

	"github.com/gabapcia/txflow/internal/transfer"

	"github.com/stretchr/testify/mock"
)

type mockT interface {
	mock.TestingT
	Cleanup(func())
}

// BridgerMock mocks Bridger.
type BridgerMock struct {
	mock.Mock
}

type BridgerMock_Expecter struct {
	mock *mock.Mock
}

func NewBridgerMock(t mockT) *BridgerMock {
	m := &BridgerMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *BridgerMock) EXPECT() *BridgerMock_Expecter {
	return &BridgerMock_Expecter{mock: &m.Mock}
}

func (m *BridgerMock) Bridge(ctx context.Context, req Request) (Result, error) {
	ret := m.Called(ctx, req)
	res, _ := ret.Get(0).(Result)
	return res, ret.Error(1)
}

func (e *BridgerMock_Expecter) Bridge(ctx, req any) *mock.Call {
	return e.mock.On("Bridge", ctx, req)
}

// OpenerMock mocks Opener.
type OpenerMock struct {
	mock.Mock
}

type OpenerMock_Expecter struct {
	mock *mock.Mock
}

func NewOpenerMock(t mockT) *OpenerMock {
	m := &OpenerMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OpenerMock) EXPECT() *OpenerMock_Expecter {
	return &OpenerMock_Expecter{mock: &m.Mock}
}

func (m *OpenerMock) Open(req transfer.Request) error {
	ret := m.Called(req)
	return ret.Error(0)
}

func (e *OpenerMock_Expecter) Open(req any) *mock.Call {
	return e.mock.On("Open", req)
}
