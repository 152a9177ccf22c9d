package cli

import (
	"context"

	"github.com/gabapcia/txflow/internal/confirmation"
	"github.com/gabapcia/txflow/internal/transfer"

	"github.com/stretchr/testify/mock"
)

type mockT interface {
	mock.TestingT
	Cleanup(func())
}

// ModalMock mocks Modal.
type ModalMock struct {
	mock.Mock
}

type ModalMock_Expecter struct {
	mock *mock.Mock
}

func NewModalMock(t mockT) *ModalMock {
	m := &ModalMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ModalMock) EXPECT() *ModalMock_Expecter {
	return &ModalMock_Expecter{mock: &m.Mock}
}

func (m *ModalMock) Open(req transfer.Request) error {
	return m.Called(req).Error(0)
}

func (m *ModalMock) Fee(ctx context.Context) string {
	return m.Called(ctx).String(0)
}

func (m *ModalMock) CanSubmit() bool {
	return m.Called().Bool(0)
}

func (m *ModalMock) Confirm(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *ModalMock) Dismiss() error {
	return m.Called().Error(0)
}

func (m *ModalMock) View() confirmation.View {
	view, _ := m.Called().Get(0).(confirmation.View)
	return view
}

func (e *ModalMock_Expecter) Open(req any) *mock.Call {
	return e.mock.On("Open", req)
}

func (e *ModalMock_Expecter) Fee(ctx any) *mock.Call {
	return e.mock.On("Fee", ctx)
}

func (e *ModalMock_Expecter) CanSubmit() *mock.Call {
	return e.mock.On("CanSubmit")
}

func (e *ModalMock_Expecter) Confirm(ctx any) *mock.Call {
	return e.mock.On("Confirm", ctx)
}

func (e *ModalMock_Expecter) Dismiss() *mock.Call {
	return e.mock.On("Dismiss")
}

func (e *ModalMock_Expecter) View() *mock.Call {
	return e.mock.On("View")
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
	return m.Called(ctx, req).String(0)
}

func (m *TransferServiceMock) Send(ctx context.Context, req transfer.Request) (transfer.Receipt, error) {
	ret := m.Called(ctx, req)
	receipt, _ := ret.Get(0).(transfer.Receipt)
	return receipt, ret.Error(1)
}

func (e *TransferServiceMock_Expecter) EstimateFee(ctx, req any) *mock.Call {
	return e.mock.On("EstimateFee", ctx, req)
}

// WithdrawalServiceMock mocks bridge.Service.
type WithdrawalServiceMock struct {
	mock.Mock
}

type WithdrawalServiceMock_Expecter struct {
	mock *mock.Mock
}

func NewWithdrawalServiceMock(t mockT) *WithdrawalServiceMock {
	m := &WithdrawalServiceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *WithdrawalServiceMock) EXPECT() *WithdrawalServiceMock_Expecter {
	return &WithdrawalServiceMock_Expecter{mock: &m.Mock}
}

func (m *WithdrawalServiceMock) Withdraw(ctx context.Context, req transfer.Request) (transfer.Request, error) {
	ret := m.Called(ctx, req)
	opened, _ := ret.Get(0).(transfer.Request)
	return opened, ret.Error(1)
}

func (e *WithdrawalServiceMock_Expecter) Withdraw(ctx, req any) *mock.Call {
	return e.mock.On("Withdraw", ctx, req)
}
