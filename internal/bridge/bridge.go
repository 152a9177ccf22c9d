// Package bridge implements the withdrawal entry point. Withdrawals from
// Solana are bridged to an EVM chain first and then confirmed there; every
// other withdrawal is confirmed on its own network.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabapcia/txflow/internal/network"
	"github.com/gabapcia/txflow/internal/pkg/logger"
	"github.com/gabapcia/txflow/internal/pkg/validator"
	"github.com/gabapcia/txflow/internal/transfer"
)

// DefaultDestination is the chain Solana withdrawals are bridged to.
const DefaultDestination = "base"

// ErrBridgeFailed is returned when the bridge did not produce funds on the
// destination chain.
var ErrBridgeFailed = errors.New("bridge failed")

// Request describes a bridge from one network to another.
type Request struct {
	FromNetwork string `json:"fromChain" validate:"required"`
	ToNetwork   string `json:"toChain" validate:"required,nefield=FromNetwork"`
	Token       string `json:"token" validate:"required"`
	Amount      string `json:"amount" validate:"required,positive_decimal"`
	Recipient   string `json:"recipient" validate:"required"`
}

// Result is the bridged amount available on the destination chain.
type Result struct {
	Amount string `json:"amount"`
	TxHash string `json:"txHash,omitempty"`
}

// Bridger moves funds between networks.
type Bridger interface {
	Bridge(ctx context.Context, req Request) (Result, error)
}

// Opener starts a confirmation flow for a request.
type Opener interface {
	Open(req transfer.Request) error
}

// Service routes withdrawals to the confirmation flow.
type Service interface {
	// Withdraw opens the confirmation flow for req, bridging it first when it
	// originates on Solana. It returns the request that was opened.
	Withdraw(ctx context.Context, req transfer.Request) (transfer.Request, error)
}

type service struct {
	registry    *network.Registry
	bridger     Bridger
	opener      Opener
	destination string
}

var _ Service = (*service)(nil)

func (s *service) Withdraw(ctx context.Context, req transfer.Request) (transfer.Request, error) {
	req.Kind = transfer.KindWithdrawal
	if err := req.Validate(); err != nil {
		return transfer.Request{}, err
	}

	source, err := s.registry.Lookup(req.Network)
	if err != nil {
		return transfer.Request{}, err
	}

	if source.Family != network.FamilySolana {
		return req, s.opener.Open(req)
	}

	bridged, err := s.bridge(ctx, source, req)
	if err != nil {
		return transfer.Request{}, err
	}

	return bridged, s.opener.Open(bridged)
}

func (s *service) bridge(ctx context.Context, source network.Chain, req transfer.Request) (transfer.Request, error) {
	destination, err := s.registry.Lookup(s.destination)
	if err != nil {
		return transfer.Request{}, err
	}

	token := strings.ToUpper(req.Token)
	if _, err := destination.Token(token); err != nil && !destination.IsNative(token) {
		return transfer.Request{}, err
	}

	breq := Request{
		FromNetwork: source.ID,
		ToNetwork:   destination.ID,
		Token:       token,
		Amount:      req.Amount,
		Recipient:   req.Recipient,
	}
	if err := validator.Validate(breq); err != nil {
		return transfer.Request{}, err
	}

	ctx = logger.Derive(ctx,
		"bridge.from", breq.FromNetwork,
		"bridge.to", breq.ToNetwork,
		"bridge.token", breq.Token,
	)

	logger.Info(ctx, "bridging funds", "bridge.amount", breq.Amount)

	res, err := s.bridger.Bridge(ctx, breq)
	if err != nil {
		return transfer.Request{}, fmt.Errorf("%w: %w", ErrBridgeFailed, err)
	}

	if res.Amount == "" {
		return transfer.Request{}, fmt.Errorf("%w: empty bridged amount", ErrBridgeFailed)
	}

	logger.Info(ctx, "funds bridged", "bridge.amount", res.Amount, "tx.hash", res.TxHash)

	return transfer.Request{
		Amount:    res.Amount,
		Token:     token,
		Recipient: req.Recipient,
		Network:   destination.ID,
		Kind:      transfer.KindWithdrawal,
	}, nil
}

type config struct {
	destination string
}

// Option configures the bridge service.
type Option func(*config)

// WithDestination overrides the chain Solana withdrawals are bridged to.
func WithDestination(id string) Option {
	return func(c *config) {
		if id != "" {
			c.destination = strings.ToLower(id)
		}
	}
}

// New returns a Service that bridges through bridger and opens flows with
// opener.
func New(registry *network.Registry, bridger Bridger, opener Opener, opts ...Option) *service {
	cfg := config{destination: DefaultDestination}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		registry:    registry,
		bridger:     bridger,
		opener:      opener,
		destination: cfg.destination,
	}
}
