package transfer

import (
	"context"
	"encoding/json"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/mock"
)

type mockT interface {
	mock.TestingT
	Cleanup(func())
}

// EVMProviderMock mocks EVMProvider. Variadic params are matched as one []any.
type EVMProviderMock struct {
	mock.Mock
}

type EVMProviderMock_Expecter struct {
	mock *mock.Mock
}

func NewEVMProviderMock(t mockT) *EVMProviderMock {
	m := &EVMProviderMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *EVMProviderMock) EXPECT() *EVMProviderMock_Expecter {
	return &EVMProviderMock_Expecter{mock: &m.Mock}
}

func (m *EVMProviderMock) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	ret := m.Called(ctx, method, params)
	raw, _ := ret.Get(0).(json.RawMessage)
	return raw, ret.Error(1)
}

func (e *EVMProviderMock_Expecter) Request(ctx, method, params any) *mock.Call {
	return e.mock.On("Request", ctx, method, params)
}

// SolanaProviderMock mocks SolanaProvider.
type SolanaProviderMock struct {
	mock.Mock
}

type SolanaProviderMock_Expecter struct {
	mock *mock.Mock
}

func NewSolanaProviderMock(t mockT) *SolanaProviderMock {
	m := &SolanaProviderMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SolanaProviderMock) EXPECT() *SolanaProviderMock_Expecter {
	return &SolanaProviderMock_Expecter{mock: &m.Mock}
}

func (m *SolanaProviderMock) Wallets(ctx context.Context) ([]solana.PublicKey, error) {
	ret := m.Called(ctx)
	wallets, _ := ret.Get(0).([]solana.PublicKey)
	return wallets, ret.Error(1)
}

func (m *SolanaProviderMock) SignAndSendTransaction(ctx context.Context, owner solana.PublicKey, tx *solana.Transaction) (solana.Signature, error) {
	ret := m.Called(ctx, owner, tx)
	sig, _ := ret.Get(0).(solana.Signature)
	return sig, ret.Error(1)
}

func (e *SolanaProviderMock_Expecter) Wallets(ctx any) *mock.Call {
	return e.mock.On("Wallets", ctx)
}

func (e *SolanaProviderMock_Expecter) SignAndSendTransaction(ctx, owner, tx any) *mock.Call {
	return e.mock.On("SignAndSendTransaction", ctx, owner, tx)
}

// EVMChainMock mocks EVMChain.
type EVMChainMock struct {
	mock.Mock
}

type EVMChainMock_Expecter struct {
	mock *mock.Mock
}

func NewEVMChainMock(t mockT) *EVMChainMock {
	m := &EVMChainMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *EVMChainMock) EXPECT() *EVMChainMock_Expecter {
	return &EVMChainMock_Expecter{mock: &m.Mock}
}

func (m *EVMChainMock) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	ret := m.Called(ctx, account)
	nonce, _ := ret.Get(0).(uint64)
	return nonce, ret.Error(1)
}

func (m *EVMChainMock) FeeData(ctx context.Context) (FeeData, error) {
	ret := m.Called(ctx)
	fees, _ := ret.Get(0).(FeeData)
	return fees, ret.Error(1)
}

func (m *EVMChainMock) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	ret := m.Called(ctx, msg)
	gas, _ := ret.Get(0).(uint64)
	return gas, ret.Error(1)
}

func (m *EVMChainMock) GasPrice(ctx context.Context) (*big.Int, error) {
	ret := m.Called(ctx)
	price, _ := ret.Get(0).(*big.Int)
	return price, ret.Error(1)
}

func (m *EVMChainMock) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ret := m.Called(ctx, hash)
	receipt, _ := ret.Get(0).(*types.Receipt)
	return receipt, ret.Error(1)
}

func (e *EVMChainMock_Expecter) PendingNonceAt(ctx, account any) *mock.Call {
	return e.mock.On("PendingNonceAt", ctx, account)
}

func (e *EVMChainMock_Expecter) FeeData(ctx any) *mock.Call {
	return e.mock.On("FeeData", ctx)
}

func (e *EVMChainMock_Expecter) EstimateGas(ctx, msg any) *mock.Call {
	return e.mock.On("EstimateGas", ctx, msg)
}

func (e *EVMChainMock_Expecter) GasPrice(ctx any) *mock.Call {
	return e.mock.On("GasPrice", ctx)
}

func (e *EVMChainMock_Expecter) TransactionReceipt(ctx, hash any) *mock.Call {
	return e.mock.On("TransactionReceipt", ctx, hash)
}

// SolanaChainMock mocks SolanaChain.
type SolanaChainMock struct {
	mock.Mock
}

type SolanaChainMock_Expecter struct {
	mock *mock.Mock
}

func NewSolanaChainMock(t mockT) *SolanaChainMock {
	m := &SolanaChainMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SolanaChainMock) EXPECT() *SolanaChainMock_Expecter {
	return &SolanaChainMock_Expecter{mock: &m.Mock}
}

func (m *SolanaChainMock) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	ret := m.Called(ctx)
	hash, _ := ret.Get(0).(solana.Hash)
	return hash, ret.Error(1)
}

func (m *SolanaChainMock) AccountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	ret := m.Called(ctx, account)
	return ret.Bool(0), ret.Error(1)
}

func (m *SolanaChainMock) SignatureStatus(ctx context.Context, signature solana.Signature) (SignatureStatus, error) {
	ret := m.Called(ctx, signature)
	status, _ := ret.Get(0).(SignatureStatus)
	return status, ret.Error(1)
}

func (e *SolanaChainMock_Expecter) LatestBlockhash(ctx any) *mock.Call {
	return e.mock.On("LatestBlockhash", ctx)
}

func (e *SolanaChainMock_Expecter) AccountExists(ctx, account any) *mock.Call {
	return e.mock.On("AccountExists", ctx, account)
}

func (e *SolanaChainMock_Expecter) SignatureStatus(ctx, signature any) *mock.Call {
	return e.mock.On("SignatureStatus", ctx, signature)
}

// SenderLockMock mocks SenderLock.
type SenderLockMock struct {
	mock.Mock
}

type SenderLockMock_Expecter struct {
	mock *mock.Mock
}

func NewSenderLockMock(t mockT) *SenderLockMock {
	m := &SenderLockMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SenderLockMock) EXPECT() *SenderLockMock_Expecter {
	return &SenderLockMock_Expecter{mock: &m.Mock}
}

func (m *SenderLockMock) Acquire(ctx context.Context, network, address string, ttl time.Duration) error {
	return m.Called(ctx, network, address, ttl).Error(0)
}

func (m *SenderLockMock) Release(ctx context.Context, network, address string) error {
	return m.Called(ctx, network, address).Error(0)
}

func (e *SenderLockMock_Expecter) Acquire(ctx, network, address, ttl any) *mock.Call {
	return e.mock.On("Acquire", ctx, network, address, ttl)
}

func (e *SenderLockMock_Expecter) Release(ctx, network, address any) *mock.Call {
	return e.mock.On("Release", ctx, network, address)
}
