package confirmation

import (
	"context"

	"github.com/gabapcia/txflow/internal/transfer"

	"github.com/stretchr/testify/mock"
)

type mockT interface {
	mock.TestingT
	Cleanup(func())
}

// TransferServiceMock mocks transfer.Service.
type TransferServiceMock struct {
	mock.Mock
}

type TransferServiceMock_Expecter struct {
	mock *mock.Mock
}

func NewTransferServiceMock(t mockT) *TransferServiceMock {
	m := &TransferServiceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TransferServiceMock) EXPECT() *TransferServiceMock_Expecter {
	return &TransferServiceMock_Expecter{mock: &m.Mock}
}

func (m *TransferServiceMock) EstimateFee(ctx context.Context, req transfer.Request) string {
	ret := m.Called(ctx, req)
	return ret.String(0)
}

func (m *TransferServiceMock) Send(ctx context.Context, req transfer.Request) (transfer.Receipt, error) {
	ret := m.Called(ctx, req)
	receipt, _ := ret.Get(0).(transfer.Receipt)
	return receipt, ret.Error(1)
}

func (e *TransferServiceMock_Expecter) EstimateFee(ctx, req any) *mock.Call {
	return e.mock.On("EstimateFee", ctx, req)
}

func (e *TransferServiceMock_Expecter) Send(ctx, req any) *mock.Call {
	return e.mock.On("Send", ctx, req)
}

// AuthenticatorMock mocks Authenticator.
type AuthenticatorMock struct {
	mock.Mock
}

type AuthenticatorMock_Expecter struct {
	mock *mock.Mock
}

func NewAuthenticatorMock(t mockT) *AuthenticatorMock {
	m := &AuthenticatorMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AuthenticatorMock) EXPECT() *AuthenticatorMock_Expecter {
	return &AuthenticatorMock_Expecter{mock: &m.Mock}
}

func (m *AuthenticatorMock) Authenticate(ctx context.Context, reason string) error {
	ret := m.Called(ctx, reason)
	return ret.Error(0)
}

func (e *AuthenticatorMock_Expecter) Authenticate(ctx, reason any) *mock.Call {
	return e.mock.On("Authenticate", ctx, reason)
}

// ReporterMock mocks Reporter.
type ReporterMock struct {
	mock.Mock
}

type ReporterMock_Expecter struct {
	mock *mock.Mock
}

func NewReporterMock(t mockT) *ReporterMock {
	m := &ReporterMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ReporterMock) EXPECT() *ReporterMock_Expecter {
	return &ReporterMock_Expecter{mock: &m.Mock}
}

func (m *ReporterMock) Report(ctx context.Context, outcome Outcome) error {
	ret := m.Called(ctx, outcome)
	return ret.Error(0)
}

func (e *ReporterMock_Expecter) Report(ctx, outcome any) *mock.Call {
	return e.mock.On("Report", ctx, outcome)
}
