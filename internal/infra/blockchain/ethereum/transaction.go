package ethereum

import (
	"context"

	"github.com/gabapcia/txflow/internal/pkg/transport/jsonrpc"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// callArgs is the eth_estimateGas call object.
type callArgs struct {
	From     common.Address  `json:"from"`
	To       *common.Address `json:"to,omitempty"`
	Gas      *hexutil.Uint64 `json:"gas,omitempty"`
	GasPrice *hexutil.Big    `json:"gasPrice,omitempty"`
	Value    *hexutil.Big    `json:"value,omitempty"`
	Data     hexutil.Bytes   `json:"data,omitempty"`
}

func toCallArgs(msg ethereum.CallMsg) callArgs {
	args := callArgs{
		From: msg.From,
		To:   msg.To,
		Data: msg.Data,
	}
	if msg.Gas != 0 {
		gas := hexutil.Uint64(msg.Gas)
		args.Gas = &gas
	}
	if msg.GasPrice != nil {
		args.GasPrice = (*hexutil.Big)(msg.GasPrice)
	}
	if msg.Value != nil {
		args.Value = (*hexutil.Big)(msg.Value)
	}

	return args
}

// ReceiptResponse holds the eth_getTransactionReceipt fields the flow reads.
type ReceiptResponse struct {
	TransactionHash   common.Hash    `json:"transactionHash"`
	BlockHash         common.Hash    `json:"blockHash"`
	BlockNumber       *hexutil.Big   `json:"blockNumber"`
	Status            hexutil.Uint64 `json:"status"`
	GasUsed           hexutil.Uint64 `json:"gasUsed"`
	CumulativeGasUsed hexutil.Uint64 `json:"cumulativeGasUsed"`
	EffectiveGasPrice *hexutil.Big   `json:"effectiveGasPrice"`
}

func (r ReceiptResponse) toReceipt() *types.Receipt {
	receipt := &types.Receipt{
		Status:            uint64(r.Status),
		TxHash:            r.TransactionHash,
		BlockHash:         r.BlockHash,
		GasUsed:           uint64(r.GasUsed),
		CumulativeGasUsed: uint64(r.CumulativeGasUsed),
	}
	if r.BlockNumber != nil {
		receipt.BlockNumber = r.BlockNumber.ToInt()
	}
	if r.EffectiveGasPrice != nil {
		receipt.EffectiveGasPrice = r.EffectiveGasPrice.ToInt()
	}

	return receipt
}

// PendingNonceAt returns the next nonce of account including pending
// transactions.
func (c *client) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	var nonce hexutil.Uint64
	if _, err := jsonrpc.Call(ctx, c.conn, &nonce, "eth_getTransactionCount", account, "pending"); err != nil {
		return 0, err
	}

	return uint64(nonce), nil
}

// EstimateGas returns the gas msg would use if executed now.
func (c *client) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	var gas hexutil.Uint64
	if _, err := jsonrpc.Call(ctx, c.conn, &gas, "eth_estimateGas", toCallArgs(msg)); err != nil {
		return 0, err
	}

	return uint64(gas), nil
}

// TransactionReceipt returns the receipt of hash, or ethereum.NotFound while
// the transaction is pending.
func (c *client) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	var receipt ReceiptResponse
	found, err := jsonrpc.Call(ctx, c.conn, &receipt, "eth_getTransactionReceipt", hash)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, ethereum.NotFound
	}

	return receipt.toReceipt(), nil
}

// SendRawTransaction broadcasts a signed, RLP encoded transaction.
func (c *client) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	var hash common.Hash
	if _, err := jsonrpc.Call(ctx, c.conn, &hash, "eth_sendRawTransaction", hexutil.Bytes(raw)); err != nil {
		return common.Hash{}, err
	}

	return hash, nil
}
