package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/gabapcia/txflow/internal/network"
	"github.com/gabapcia/txflow/internal/pkg/logger"
	"github.com/gabapcia/txflow/internal/pkg/txcodec"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	// ErrChainSwitch is returned when the wallet refuses to switch to the
	// target chain.
	ErrChainSwitch = errors.New("failed to switch network, please switch manually")

	// ErrNoAccount is returned when the wallet exposes no account.
	ErrNoAccount = errors.New("no wallet account available")
)

// evmCall is the transaction a request resolves to, before sender and fees
// are known.
type evmCall struct {
	to    common.Address
	value *big.Int
	data  []byte
}

func (c evmCall) msg(from common.Address) ethereum.CallMsg {
	return ethereum.CallMsg{
		From:  from,
		To:    &c.to,
		Value: c.value,
		Data:  c.data,
	}
}

// buildEVMCall resolves req to a native value transfer or an ERC-20 transfer
// call. It makes no RPC calls, so unsupported tokens and malformed input fail
// before the chain is contacted.
func buildEVMCall(chain network.Chain, req Request) (evmCall, error) {
	if _, err := chain.Endpoint(); err != nil {
		return evmCall{}, err
	}

	var token *network.Token
	if !chain.IsNative(req.Token) {
		t, err := chain.Token(req.Token)
		if err != nil {
			return evmCall{}, err
		}
		token = &t
	}

	if !common.IsHexAddress(req.Recipient) {
		return evmCall{}, fmt.Errorf("%w: %s", ErrInvalidRecipient, req.Recipient)
	}
	recipient := common.HexToAddress(req.Recipient)

	if token == nil {
		value, err := ToBaseUnits(req.Amount, chain.NativeDecimals)
		if err != nil {
			return evmCall{}, err
		}

		return evmCall{to: recipient, value: value}, nil
	}

	amount, err := ToBaseUnits(req.Amount, token.Decimals)
	if err != nil {
		return evmCall{}, err
	}

	data, err := txcodec.ERC20Transfer{To: recipient, Amount: amount}.Encode()
	if err != nil {
		return evmCall{}, err
	}

	return evmCall{
		to:    common.HexToAddress(token.Address),
		value: new(big.Int),
		data:  data,
	}, nil
}

// GasLimit applies the 1.5× safety margin to a gas estimate, rounding up.
func GasLimit(estimate uint64) uint64 {
	return estimate + (estimate+1)/2
}

func (s *service) dialEVM(ctx context.Context, chain network.Chain) (EVMChain, error) {
	if s.chains.EVM == nil {
		return nil, fmt.Errorf("%w: %s", network.ErrMissingRPC, chain.ID)
	}

	return s.chains.EVM(ctx, chain)
}

// evmSender returns the first account exposed by the wallet.
func (s *service) evmSender(ctx context.Context) (common.Address, error) {
	raw, err := s.wallet.EVM.Request(ctx, "eth_accounts")
	if err != nil {
		return common.Address{}, fmt.Errorf("eth_accounts: %w", err)
	}

	var accounts []common.Address
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return common.Address{}, fmt.Errorf("eth_accounts: %w", err)
	}

	if len(accounts) == 0 {
		return common.Address{}, ErrNoAccount
	}

	return accounts[0], nil
}

func (s *service) switchChain(ctx context.Context, chain network.Chain) error {
	param := map[string]string{"chainId": hexutil.EncodeUint64(chain.ChainID)}
	if _, err := s.wallet.EVM.Request(ctx, "wallet_switchEthereumChain", param); err != nil {
		return fmt.Errorf("%w: %w", ErrChainSwitch, err)
	}

	return nil
}

func (s *service) sendEVM(ctx context.Context, chain network.Chain, req Request) (Receipt, error) {
	if s.wallet.EVM == nil {
		return Receipt{}, ErrWalletUnavailable
	}

	call, err := buildEVMCall(chain, req)
	if err != nil {
		return Receipt{}, err
	}

	if err := s.switchChain(ctx, chain); err != nil {
		return Receipt{}, err
	}

	from, err := s.evmSender(ctx)
	if err != nil {
		return Receipt{}, err
	}

	rpc, err := s.dialEVM(ctx, chain)
	if err != nil {
		return Receipt{}, err
	}

	var hash common.Hash
	err = s.withSenderLock(ctx, chain, from.Hex(), func() error {
		args, err := s.prepareEVMTransaction(ctx, rpc, chain, call, from)
		if err != nil {
			return err
		}

		hash, err = s.submitEVMTransaction(ctx, args)
		return err
	})
	if err != nil {
		return Receipt{}, err
	}

	ctx = logger.Derive(ctx, "tx.hash", hash.Hex())
	logger.Info(ctx, "transaction broadcast", "tx.from", from.Hex())

	receipt := s.newReceipt(chain, req, hash.Hex(), from.Hex())
	receipt.Confirmed, err = s.awaitConfirmation(ctx, hash.Hex(), func(ctx context.Context) error {
		return pollEVMReceipt(ctx, rpc, hash)
	})
	if err != nil {
		return receipt, err
	}

	return receipt, nil
}

// prepareEVMTransaction reads nonce, fee data and gas for call, in that order.
func (s *service) prepareEVMTransaction(ctx context.Context, rpc EVMChain, chain network.Chain, call evmCall, from common.Address) (TransactionArgs, error) {
	nonce, err := rpc.PendingNonceAt(ctx, from)
	if err != nil {
		return TransactionArgs{}, fmt.Errorf("pending nonce: %w", err)
	}

	fees, err := rpc.FeeData(ctx)
	if err != nil {
		return TransactionArgs{}, fmt.Errorf("fee data: %w", err)
	}

	gas, err := rpc.EstimateGas(ctx, call.msg(from))
	if err != nil {
		return TransactionArgs{}, fmt.Errorf("estimate gas: %w", err)
	}

	args := TransactionArgs{
		From:    from,
		To:      &call.to,
		Value:   (*hexutil.Big)(call.value),
		Data:    call.data,
		Gas:     hexutil.Uint64(GasLimit(gas)),
		Nonce:   hexutil.Uint64(nonce),
		ChainID: (*hexutil.Big)(new(big.Int).SetUint64(chain.ChainID)),
	}

	if fees.MaxFeePerGas != nil && fees.MaxPriorityFeePerGas != nil {
		args.MaxFeePerGas = (*hexutil.Big)(fees.MaxFeePerGas)
		args.MaxPriorityFeePerGas = (*hexutil.Big)(fees.MaxPriorityFeePerGas)
	} else {
		args.GasPrice = (*hexutil.Big)(fees.GasPrice)
	}

	return args, nil
}

func (s *service) submitEVMTransaction(ctx context.Context, args TransactionArgs) (common.Hash, error) {
	raw, err := s.wallet.EVM.Request(ctx, "eth_sendTransaction", args)
	if err != nil {
		return common.Hash{}, fmt.Errorf("eth_sendTransaction: %w", err)
	}

	var hash common.Hash
	if err := json.Unmarshal(raw, &hash); err != nil {
		return common.Hash{}, fmt.Errorf("eth_sendTransaction: %w", err)
	}

	return hash, nil
}

func pollEVMReceipt(ctx context.Context, rpc EVMChain, hash common.Hash) error {
	receipt, err := rpc.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return errPending
	}
	if err != nil {
		return err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: %s", ErrTransactionReverted, hash.Hex())
	}

	return nil
}
