package ethereum

import (
	"context"
	"errors"
	"math/big"

	"github.com/gabapcia/txflow/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/txflow/internal/transfer"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// defaultPriorityFee is used when the node does not implement
// eth_maxPriorityFeePerGas.
var defaultPriorityFee = big.NewInt(1_000_000_000)

// ErrBlockNotFound is returned when the node has no block for the requested tag.
var ErrBlockNotFound = errors.New("block not found")

// HeaderResponse holds the block fields used for fee calculation.
type HeaderResponse struct {
	Hash          common.Hash    `json:"hash"`
	Number        hexutil.Uint64 `json:"number"`
	BaseFeePerGas *hexutil.Big   `json:"baseFeePerGas"`
}

// latestHeader fetches the latest block without its transactions.
func (c *client) latestHeader(ctx context.Context) (HeaderResponse, error) {
	var header HeaderResponse
	found, err := jsonrpc.Call(ctx, c.conn, &header, "eth_getBlockByNumber", "latest", false)
	if err != nil {
		return HeaderResponse{}, err
	}

	if !found {
		return HeaderResponse{}, ErrBlockNotFound
	}

	return header, nil
}

// maxPriorityFeePerGas asks the node for a tip suggestion and falls back to
// 1 gwei when the method is not available.
func (c *client) maxPriorityFeePerGas(ctx context.Context) (*big.Int, error) {
	var tip hexutil.Big
	if _, err := jsonrpc.Call(ctx, c.conn, &tip, "eth_maxPriorityFeePerGas"); err != nil {
		var rpcErr *jsonrpc.Error
		if errors.As(err, &rpcErr) {
			return new(big.Int).Set(defaultPriorityFee), nil
		}

		return nil, err
	}

	return tip.ToInt(), nil
}

// FeeData returns EIP-1559 fees when the latest block carries a base fee
// (maxFeePerGas = 2 × baseFee + tip) and the legacy gas price otherwise.
func (c *client) FeeData(ctx context.Context) (transfer.FeeData, error) {
	header, err := c.latestHeader(ctx)
	if err != nil {
		return transfer.FeeData{}, err
	}

	gasPrice, err := c.GasPrice(ctx)
	if err != nil {
		return transfer.FeeData{}, err
	}

	if header.BaseFeePerGas == nil {
		return transfer.FeeData{GasPrice: gasPrice}, nil
	}

	tip, err := c.maxPriorityFeePerGas(ctx)
	if err != nil {
		return transfer.FeeData{}, err
	}

	maxFee := new(big.Int).Mul(header.BaseFeePerGas.ToInt(), big.NewInt(2))
	maxFee.Add(maxFee, tip)

	return transfer.FeeData{
		GasPrice:             gasPrice,
		MaxFeePerGas:         maxFee,
		MaxPriorityFeePerGas: tip,
	}, nil
}
