// Package ethereum adapts an EVM JSON-RPC node to the transfer.EVMChain port
// and exposes raw transaction broadcast for the embedded wallet.
package ethereum

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/gabapcia/txflow/internal/network"
	transporthttp "github.com/gabapcia/txflow/internal/pkg/transport/http"
	"github.com/gabapcia/txflow/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/txflow/internal/transfer"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// client talks to an EVM node over JSON-RPC.
type client struct {
	conn jsonrpc.Client
}

var _ transfer.EVMChain = (*client)(nil)

// NewClient returns an EVM chain client using conn.
func NewClient(conn jsonrpc.Client) *client {
	return &client{
		conn: conn,
	}
}

// Dial opens a client for chain. A fresh transport is created on every call.
func Dial(_ context.Context, chain network.Chain, opts ...transporthttp.Option) (*client, error) {
	endpoint, err := chain.Endpoint()
	if err != nil {
		return nil, err
	}

	return NewClient(jsonrpc.NewClient(endpoint, opts...)), nil
}

// NewDialer returns a transfer.EVMDialer backed by Dial.
func NewDialer(opts ...transporthttp.Option) transfer.EVMDialer {
	return func(ctx context.Context, chain network.Chain) (transfer.EVMChain, error) {
		return Dial(ctx, chain, opts...)
	}
}

// GasPrice returns the node's legacy gas price suggestion.
func (c *client) GasPrice(ctx context.Context) (*big.Int, error) {
	var price hexutil.Big
	if _, err := jsonrpc.Call(ctx, c.conn, &price, "eth_gasPrice"); err != nil {
		return nil, err
	}

	return price.ToInt(), nil
}

// Forward relays a raw JSON-RPC call to the node.
func (c *client) Forward(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	return c.conn.Fetch(ctx, method, params...)
}
