// Package confirmation drives a transaction from proposal to outcome:
// fee preview, authentication gate, transfer, user-facing error text and the
// best-effort ledger report. A Modal runs one flow at a time.
package confirmation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gabapcia/txflow/internal/pkg/logger"
	"github.com/gabapcia/txflow/internal/transfer"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/gabapcia/txflow/internal/confirmation"

var (
	// ErrSubmissionDisabled is returned by Confirm when the current request
	// cannot be submitted.
	ErrSubmissionDisabled = errors.New("submission disabled")

	// ErrFlowInProgress is returned when the modal is asked to change request
	// while a transaction is processing.
	ErrFlowInProgress = errors.New("transaction in progress")

	// ErrDismissed is returned by Confirm when the modal was dismissed while
	// the user was authenticating.
	ErrDismissed = errors.New("confirmation dismissed")
)

// State is the position of the modal in the confirmation flow.
type State int

const (
	StateConfirm State = iota
	StateProcessing
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConfirm:
		return "confirm"
	case StateProcessing:
		return "processing"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// View is a snapshot of the modal for rendering.
type View struct {
	State        State
	Request      transfer.Request
	Open         bool
	Fee          string
	Hash         string
	ExplorerURL  string
	Confirmed    bool
	ErrorMessage string
}

// Modal is the confirmation state machine. It is safe for concurrent use.
type Modal struct {
	mu             sync.Mutex
	state          State
	req            *transfer.Request
	session        uint64
	authenticating bool
	fee            string
	receipt        transfer.Receipt
	errMessage     string

	transfers     transfer.Service
	authenticator Authenticator
	reporter      Reporter
	reportTimeout time.Duration
	transactions  metric.Int64Counter

	reports sync.WaitGroup
}

// Open starts a new flow for req, discarding any previous outcome.
func (m *Modal) Open(req transfer.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateProcessing {
		return ErrFlowInProgress
	}

	m.reset()
	m.req = &req
	return nil
}

// reset returns the modal to an empty confirm state. Callers hold mu.
func (m *Modal) reset() {
	m.state = StateConfirm
	m.req = nil
	m.session++
	m.authenticating = false
	m.fee = ""
	m.receipt = transfer.Receipt{}
	m.errMessage = ""
}

// Dismiss closes the modal. It is refused while a transaction is processing.
func (m *Modal) Dismiss() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateProcessing {
		return ErrFlowInProgress
	}

	m.reset()
	return nil
}

// Fee estimates the fee of the open request. It never fails: estimation
// errors produce the "Unable to estimate" marker.
func (m *Modal) Fee(ctx context.Context) string {
	m.mu.Lock()
	if m.req == nil || m.state != StateConfirm {
		m.mu.Unlock()
		return ""
	}
	req, session := *m.req, m.session
	m.mu.Unlock()

	fee := m.transfers.EstimateFee(ctx, req)

	m.mu.Lock()
	if m.session == session {
		m.fee = fee
	}
	m.mu.Unlock()

	return fee
}

// CanSubmit reports whether Confirm would dispatch the open request.
func (m *Modal) CanSubmit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.canSubmit()
}

func (m *Modal) canSubmit() bool {
	if m.req == nil || m.state != StateConfirm || m.authenticating {
		return false
	}

	if m.req.Recipient == "" {
		return false
	}

	amount, err := decimal.NewFromString(m.req.Amount)
	return err == nil && amount.IsPositive()
}

// Confirm authenticates the user and sends the open request. The modal ends
// in StateSuccess or StateFailed, except when authentication fails, which
// leaves it in StateConfirm. The returned error is the raw cause; the
// user-facing text is in View().ErrorMessage.
func (m *Modal) Confirm(ctx context.Context) error {
	m.mu.Lock()
	if !m.canSubmit() {
		m.mu.Unlock()
		return ErrSubmissionDisabled
	}
	req, session := *m.req, m.session
	m.authenticating = true
	m.mu.Unlock()

	authErr := m.authenticator.Authenticate(ctx, fmt.Sprintf("Send %s %s on %s", req.Amount, req.Token, req.Network))

	m.mu.Lock()
	if m.session != session {
		m.mu.Unlock()
		return ErrDismissed
	}
	m.authenticating = false
	if authErr != nil {
		m.mu.Unlock()
		logger.Warn(ctx, "authentication failed", "tx.network", req.Network, "error", authErr)
		return fmt.Errorf("%w: %w", ErrAuthenticationFailed, authErr)
	}
	m.state = StateProcessing
	m.mu.Unlock()

	receipt, err := m.transfers.Send(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.receipt = receipt
	if err != nil {
		m.state = StateFailed
		m.errMessage = Humanize(err)
		m.record(ctx, req, StateFailed)
		logger.Error(ctx, "transaction failed",
			"tx.network", req.Network,
			"tx.token", req.Token,
			"tx.hash", receipt.Hash,
			"error", err,
		)
		return err
	}

	m.state = StateSuccess
	m.record(ctx, req, StateSuccess)
	m.report(ctx, req, receipt)
	return nil
}

// View returns a snapshot of the modal.
func (m *Modal) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		State:        m.state,
		Open:         m.req != nil,
		Fee:          m.fee,
		Hash:         m.receipt.Hash,
		ExplorerURL:  m.receipt.ExplorerURL,
		Confirmed:    m.receipt.Confirmed,
		ErrorMessage: m.errMessage,
	}
	if m.req != nil {
		v.Request = *m.req
	}

	return v
}

func (m *Modal) record(ctx context.Context, req transfer.Request, state State) {
	m.transactions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tx.network", req.Network),
		attribute.String("tx.token", req.Token),
		attribute.String("tx.state", state.String()),
	))
}

// report sends the outcome in the background. Failures are logged and
// otherwise ignored. Callers hold mu.
func (m *Modal) report(ctx context.Context, req transfer.Request, receipt transfer.Receipt) {
	status := StatusCompleted
	if !receipt.Confirmed {
		status = StatusSubmitted
	}

	kind := receipt.Kind
	if kind == "" {
		kind = req.TxKind()
	}

	outcome := Outcome{
		Type:   string(kind),
		TxHash: receipt.Hash,
		Amount: receipt.Amount,
		Token:  receipt.Token,
		Chain:  receipt.Network,
		From:   receipt.From,
		To:     receipt.To,
		Status: status,
	}

	ctx = context.WithoutCancel(ctx)
	m.reports.Add(1)
	go func() {
		defer m.reports.Done()

		ctx, cancel := context.WithTimeout(ctx, m.reportTimeout)
		defer cancel()

		if err := m.reporter.Report(ctx, outcome); err != nil {
			logger.Warn(ctx, "failed to log transaction", "tx.hash", outcome.TxHash, "error", err)
		}
	}()
}

// Close waits for background reports to finish.
func (m *Modal) Close() {
	m.reports.Wait()
}

type config struct {
	reporter      Reporter
	reportTimeout time.Duration
	meter         metric.Meter
}

// Option configures a Modal.
type Option func(*config)

// New returns a Modal sending through transfers and gated by authenticator.
func New(transfers transfer.Service, authenticator Authenticator, opts ...Option) (*Modal, error) {
	cfg := config{
		reporter:      nopReporter{},
		reportTimeout: 10 * time.Second,
		meter:         otel.Meter(meterName),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	transactions, err := cfg.meter.Int64Counter("txflow.transactions",
		metric.WithDescription("Transactions that left the processing state, by outcome."),
	)
	if err != nil {
		return nil, err
	}

	return &Modal{
		transfers:     transfers,
		authenticator: authenticator,
		reporter:      cfg.reporter,
		reportTimeout: cfg.reportTimeout,
		transactions:  transactions,
	}, nil
}

// WithReporter sends success outcomes to r.
func WithReporter(r Reporter) Option {
	return func(c *config) {
		c.reporter = r
	}
}

// WithReportTimeout bounds a single report call.
func WithReportTimeout(d time.Duration) Option {
	return func(c *config) {
		c.reportTimeout = d
	}
}

// WithMeter overrides the meter used for flow metrics.
func WithMeter(meter metric.Meter) Option {
	return func(c *config) {
		c.meter = meter
	}
}
