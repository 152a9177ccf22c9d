package transfer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/gabapcia/txflow/internal/network"
)

const (
	// FeeUnavailable is shown when the fee cannot be estimated.
	FeeUnavailable = "Unable to estimate"

	// SolanaFeePlaceholder is shown for Solana transfers, whose fee is not
	// queried on chain.
	SolanaFeePlaceholder = "~0.000005 SOL"

	feeDisplayPlaces = 6
)

// estimateEVMFee prices gas × gasPrice for the call Send would submit.
func (s *service) estimateEVMFee(ctx context.Context, chain network.Chain, req Request) (string, error) {
	if s.wallet.EVM == nil {
		return "", ErrWalletUnavailable
	}

	call, err := buildEVMCall(chain, req)
	if err != nil {
		return "", err
	}

	rpc, err := s.dialEVM(ctx, chain)
	if err != nil {
		return "", err
	}

	from, err := s.evmSender(ctx)
	if err != nil {
		return "", err
	}

	gas, err := rpc.EstimateGas(ctx, call.msg(from))
	if err != nil {
		return "", fmt.Errorf("estimate gas: %w", err)
	}

	gasPrice, err := rpc.GasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("gas price: %w", err)
	}

	cost := new(big.Int).Mul(new(big.Int).SetUint64(gas), gasPrice)
	return FormatUnits(cost, chain.NativeDecimals, feeDisplayPlaces) + " " + chain.NativeSymbol, nil
}
