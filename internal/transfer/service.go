// Package transfer builds, signs, broadcasts and confirms transfers on the
// supported chains. EVM chains go through the wallet's EIP-1193 provider and
// Solana through the embedded Solana wallet; fee data, gas estimates and
// confirmation state are read from a direct RPC connection opened for every
// invocation.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabapcia/txflow/internal/network"
	"github.com/gabapcia/txflow/internal/pkg/logger"
	"github.com/gabapcia/txflow/internal/pkg/resilience/retry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/gabapcia/txflow/internal/transfer"

var (
	// ErrWalletUnavailable is returned when the wallet provider for the
	// requested chain family is not ready.
	ErrWalletUnavailable = errors.New("wallet provider not available")

	// ErrInvalidRecipient is returned when the recipient is not a valid
	// address for the requested chain.
	ErrInvalidRecipient = errors.New("invalid recipient address")

	// ErrTransactionReverted is returned when a broadcast transaction failed
	// on chain.
	ErrTransactionReverted = errors.New("transaction reverted on chain")

	// errPending marks a confirmation poll that has not reached a final state.
	errPending = errors.New("transaction not confirmed yet")
)

// Receipt describes a broadcast transaction.
type Receipt struct {
	Hash        string
	Network     string
	From        string
	To          string
	Amount      string
	Token       string
	Kind        Kind
	ExplorerURL string

	// Confirmed is false when confirmation polling ran out of attempts. The
	// transaction was still submitted and may land later.
	Confirmed bool
}

// Service estimates fees for and sends transfer requests.
type Service interface {
	// EstimateFee returns a human-readable fee such as "0.000021 ETH". It
	// never fails: any error yields "Unable to estimate".
	EstimateFee(ctx context.Context, req Request) string

	// Send builds, signs and broadcasts req, then waits for confirmation.
	Send(ctx context.Context, req Request) (Receipt, error)
}

// Wallet groups the embedded wallet providers. Either may be nil when the
// corresponding chain family is not used.
type Wallet struct {
	EVM    EVMProvider
	Solana SolanaProvider
}

// Chains groups the RPC dialers per chain family.
type Chains struct {
	EVM    EVMDialer
	Solana SolanaDialer
}

type service struct {
	registry *network.Registry
	wallet   Wallet
	chains   Chains

	senderLock    SenderLock
	senderLockTTL time.Duration
	confirmation  retry.Retry
	tracer        trace.Tracer
}

var _ Service = (*service)(nil)

func (s *service) chain(req Request) (network.Chain, error) {
	if err := req.Validate(); err != nil {
		return network.Chain{}, err
	}

	return s.registry.Lookup(req.Network)
}

func (s *service) EstimateFee(ctx context.Context, req Request) string {
	ctx, span := s.tracer.Start(ctx, "transfer.EstimateFee", trace.WithAttributes(
		attribute.String("tx.network", req.Network),
		attribute.String("tx.token", req.Token),
	))
	defer span.End()

	fee, err := s.estimateFee(ctx, req)
	if err != nil {
		span.RecordError(err)
		logger.Warn(ctx, "fee estimation failed",
			"tx.network", req.Network,
			"tx.token", req.Token,
			"error", err,
		)
		return FeeUnavailable
	}

	return fee
}

func (s *service) estimateFee(ctx context.Context, req Request) (string, error) {
	chain, err := s.chain(req)
	if err != nil {
		return "", err
	}

	switch chain.Family {
	case network.FamilySolana:
		return SolanaFeePlaceholder, nil
	case network.FamilyEVM:
		return s.estimateEVMFee(ctx, chain, req)
	default:
		return "", fmt.Errorf("%w: %s", network.ErrNetworkNotSupported, chain.ID)
	}
}

func (s *service) Send(ctx context.Context, req Request) (Receipt, error) {
	ctx = logger.Derive(ctx,
		"tx.network", req.Network,
		"tx.token", req.Token,
		"tx.kind", req.TxKind(),
	)
	ctx, span := s.tracer.Start(ctx, "transfer.Send", trace.WithAttributes(
		attribute.String("tx.network", req.Network),
		attribute.String("tx.token", req.Token),
		attribute.String("tx.kind", string(req.TxKind())),
	))
	defer span.End()

	receipt, err := s.send(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return receipt, err
	}

	span.SetAttributes(
		attribute.String("tx.hash", receipt.Hash),
		attribute.Bool("tx.confirmed", receipt.Confirmed),
	)
	return receipt, nil
}

func (s *service) send(ctx context.Context, req Request) (Receipt, error) {
	chain, err := s.chain(req)
	if err != nil {
		return Receipt{}, err
	}

	switch chain.Family {
	case network.FamilyEVM:
		return s.sendEVM(ctx, chain, req)
	case network.FamilySolana:
		return s.sendSolana(ctx, chain, req)
	default:
		return Receipt{}, fmt.Errorf("%w: %s", network.ErrNetworkNotSupported, chain.ID)
	}
}

func (s *service) newReceipt(chain network.Chain, req Request, hash, from string) Receipt {
	return Receipt{
		Hash:        hash,
		Network:     chain.ID,
		From:        from,
		To:          req.Recipient,
		Amount:      req.Amount,
		Token:       req.Token,
		Kind:        req.TxKind(),
		ExplorerURL: chain.ExplorerTxURL(hash),
	}
}

// withSenderLock runs fn while holding the sender lock for address on chain.
func (s *service) withSenderLock(ctx context.Context, chain network.Chain, address string, fn func() error) error {
	if err := s.senderLock.Acquire(ctx, chain.ID, address, s.senderLockTTL); err != nil {
		return err
	}

	defer func() {
		if err := s.senderLock.Release(context.WithoutCancel(ctx), chain.ID, address); err != nil {
			logger.Warn(ctx, "failed to release sender lock", "tx.from", address, "error", err)
		}
	}()

	return fn()
}

type config struct {
	senderLock      SenderLock
	senderLockTTL   time.Duration
	confirmAttempts uint
	confirmInterval time.Duration
	tracer          trace.Tracer
}

// Option configures the transfer service.
type Option func(*config)

// New returns a transfer Service over the chains of registry.
//
// Defaults:
//   - no sender lock
//   - confirmation polling every second, at most 30 attempts
//   - the global OpenTelemetry tracer provider
func New(registry *network.Registry, wallet Wallet, chains Chains, opts ...Option) *service {
	cfg := config{
		senderLock:      nopSenderLock{},
		senderLockTTL:   2 * time.Minute,
		confirmAttempts: 30,
		confirmInterval: time.Second,
		tracer:          otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		registry:      registry,
		wallet:        wallet,
		chains:        chains,
		senderLock:    cfg.senderLock,
		senderLockTTL: cfg.senderLockTTL,
		confirmation:  newConfirmationPolicy(cfg.confirmAttempts, cfg.confirmInterval),
		tracer:        cfg.tracer,
	}
}

// WithSenderLock serializes sends per sender with l, holding the lock for at
// most ttl.
func WithSenderLock(l SenderLock, ttl time.Duration) Option {
	return func(c *config) {
		c.senderLock = l
		if ttl > 0 {
			c.senderLockTTL = ttl
		}
	}
}

// WithConfirmationPolicy sets how often and how many times the chain is
// polled for a final transaction state. Zero values keep the defaults, so
// polling is always bounded.
func WithConfirmationPolicy(attempts uint, interval time.Duration) Option {
	return func(c *config) {
		if attempts > 0 {
			c.confirmAttempts = attempts
		}
		if interval > 0 {
			c.confirmInterval = interval
		}
	}
}

// WithTracer overrides the tracer used for transfer spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *config) {
		c.tracer = t
	}
}
