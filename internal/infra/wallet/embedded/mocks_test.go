package embedded

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	sol "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/mock"
)

type mockT interface {
	mock.TestingT
	Cleanup(func())
}

// EVMNodeMock mocks EVMNode. Variadic params are matched as one []any.
type EVMNodeMock struct {
	mock.Mock
}

type EVMNodeMock_Expecter struct {
	mock *mock.Mock
}

func NewEVMNodeMock(t mockT) *EVMNodeMock {
	m := &EVMNodeMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *EVMNodeMock) EXPECT() *EVMNodeMock_Expecter {
	return &EVMNodeMock_Expecter{mock: &m.Mock}
}

func (m *EVMNodeMock) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	ret := m.Called(ctx, raw)
	hash, _ := ret.Get(0).(common.Hash)
	return hash, ret.Error(1)
}

func (m *EVMNodeMock) Forward(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	ret := m.Called(ctx, method, params)
	raw, _ := ret.Get(0).(json.RawMessage)
	return raw, ret.Error(1)
}

func (e *EVMNodeMock_Expecter) SendRawTransaction(ctx, raw any) *mock.Call {
	return e.mock.On("SendRawTransaction", ctx, raw)
}

func (e *EVMNodeMock_Expecter) Forward(ctx, method, params any) *mock.Call {
	return e.mock.On("Forward", ctx, method, params)
}

// SolanaNodeMock mocks SolanaNode.
type SolanaNodeMock struct {
	mock.Mock
}

type SolanaNodeMock_Expecter struct {
	mock *mock.Mock
}

func NewSolanaNodeMock(t mockT) *SolanaNodeMock {
	m := &SolanaNodeMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SolanaNodeMock) EXPECT() *SolanaNodeMock_Expecter {
	return &SolanaNodeMock_Expecter{mock: &m.Mock}
}

func (m *SolanaNodeMock) SendTransaction(ctx context.Context, tx *sol.Transaction) (sol.Signature, error) {
	ret := m.Called(ctx, tx)
	sig, _ := ret.Get(0).(sol.Signature)
	return sig, ret.Error(1)
}

func (e *SolanaNodeMock_Expecter) SendTransaction(ctx, tx any) *mock.Call {
	return e.mock.On("SendTransaction", ctx, tx)
}
