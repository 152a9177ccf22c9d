// Package solana adapts a Solana cluster RPC endpoint to the
// transfer.SolanaChain port and exposes transaction submission for the
// embedded wallet.
package solana

import (
	"context"
	"errors"

	"github.com/gabapcia/txflow/internal/network"
	transporthttp "github.com/gabapcia/txflow/internal/pkg/transport/http"
	"github.com/gabapcia/txflow/internal/transfer"

	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

// client wraps a solana-go RPC client.
type client struct {
	conn       *rpc.Client
	commitment rpc.CommitmentType
}

var _ transfer.SolanaChain = (*client)(nil)

// NewClient returns a Solana chain client using conn. Reads use the
// confirmed commitment level.
func NewClient(conn *rpc.Client) *client {
	return &client{
		conn:       conn,
		commitment: rpc.CommitmentConfirmed,
	}
}

// Dial opens a client for chain over the retrying HTTP transport. A fresh
// transport is created on every call.
func Dial(_ context.Context, chain network.Chain, opts ...transporthttp.Option) (*client, error) {
	endpoint, err := chain.Endpoint()
	if err != nil {
		return nil, err
	}

	rpcClient := jsonrpc.NewClientWithOpts(endpoint, &jsonrpc.RPCClientOpts{
		HTTPClient: transporthttp.NewClient(opts...).StandardClient(),
	})

	return NewClient(rpc.NewWithCustomRPCClient(rpcClient)), nil
}

// NewDialer returns a transfer.SolanaDialer backed by Dial.
func NewDialer(opts ...transporthttp.Option) transfer.SolanaDialer {
	return func(ctx context.Context, chain network.Chain) (transfer.SolanaChain, error) {
		return Dial(ctx, chain, opts...)
	}
}

// LatestBlockhash returns a recent blockhash for a new transaction.
func (c *client) LatestBlockhash(ctx context.Context) (sol.Hash, error) {
	res, err := c.conn.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return sol.Hash{}, err
	}

	if res == nil || res.Value == nil {
		return sol.Hash{}, rpc.ErrNotFound
	}

	return res.Value.Blockhash, nil
}

// AccountExists reports whether account has been created on chain.
func (c *client) AccountExists(ctx context.Context, account sol.PublicKey) (bool, error) {
	_, err := c.conn.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
		Commitment: c.commitment,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

// SignatureStatus returns the cluster's view of signature. Unknown
// signatures come back with Found set to false.
func (c *client) SignatureStatus(ctx context.Context, signature sol.Signature) (transfer.SignatureStatus, error) {
	res, err := c.conn.GetSignatureStatuses(ctx, false, signature)
	if err != nil {
		return transfer.SignatureStatus{}, err
	}

	if res == nil || len(res.Value) == 0 || res.Value[0] == nil {
		return transfer.SignatureStatus{}, nil
	}

	status := res.Value[0]
	return transfer.SignatureStatus{
		Found:              true,
		ConfirmationStatus: string(status.ConfirmationStatus),
		Err:                status.Err,
	}, nil
}

// SendTransaction submits a fully signed transaction.
func (c *client) SendTransaction(ctx context.Context, tx *sol.Transaction) (sol.Signature, error) {
	return c.conn.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: c.commitment,
	})
}
