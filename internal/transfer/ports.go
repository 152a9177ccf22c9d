package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"time"

	"github.com/gabapcia/txflow/internal/network"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gagliardetto/solana-go"
)

// ErrSenderBusy is returned by a SenderLock when another flow is already
// building a transaction for the same sender on the same network.
var ErrSenderBusy = errors.New("sender has a transaction in progress")

// EVMProvider is the embedded wallet seen through its EIP-1193 request
// surface. The flow uses eth_accounts, wallet_switchEthereumChain and
// eth_sendTransaction.
type EVMProvider interface {
	Request(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// TransactionArgs is the eth_sendTransaction parameter object.
type TransactionArgs struct {
	From                 common.Address  `json:"from"`
	To                   *common.Address `json:"to"`
	Value                *hexutil.Big    `json:"value,omitempty"`
	Data                 hexutil.Bytes   `json:"data,omitempty"`
	Gas                  hexutil.Uint64  `json:"gas"`
	Nonce                hexutil.Uint64  `json:"nonce"`
	ChainID              *hexutil.Big    `json:"chainId,omitempty"`
	GasPrice             *hexutil.Big    `json:"gasPrice,omitempty"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas,omitempty"`
}

// SolanaProvider is the embedded Solana wallet.
type SolanaProvider interface {
	// Wallets lists the embedded Solana wallets. The first one sends.
	Wallets(ctx context.Context) ([]solana.PublicKey, error)

	// SignAndSendTransaction signs tx with owner's key and submits it.
	SignAndSendTransaction(ctx context.Context, owner solana.PublicKey, tx *solana.Transaction) (solana.Signature, error)
}

// FeeData holds the fee fields of a transaction. MaxFeePerGas and
// MaxPriorityFeePerGas are nil on chains without EIP-1559, in which case
// GasPrice is set.
type FeeData struct {
	GasPrice             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// EVMChain is a direct RPC connection to an EVM node, independent of the
// wallet provider.
type EVMChain interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	FeeData(ctx context.Context) (FeeData, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	GasPrice(ctx context.Context) (*big.Int, error)

	// TransactionReceipt returns ethereum.NotFound while the transaction is pending.
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// SignatureStatus is the cluster's view of a submitted Solana transaction.
type SignatureStatus struct {
	Found              bool
	ConfirmationStatus string // processed, confirmed or finalized
	Err                any    // non-nil when the transaction failed on chain
}

// SolanaChain is a direct RPC connection to a Solana cluster.
type SolanaChain interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	AccountExists(ctx context.Context, account solana.PublicKey) (bool, error)
	SignatureStatus(ctx context.Context, signature solana.Signature) (SignatureStatus, error)
}

// EVMDialer opens a fresh EVMChain for every invocation.
type EVMDialer func(ctx context.Context, chain network.Chain) (EVMChain, error)

// SolanaDialer opens a fresh SolanaChain for every invocation.
type SolanaDialer func(ctx context.Context, chain network.Chain) (SolanaChain, error)

// SenderLock serializes transaction building per sender and network so that
// concurrent flows never pick the same nonce.
type SenderLock interface {
	// Acquire takes the lock for ttl or returns ErrSenderBusy.
	Acquire(ctx context.Context, network, address string, ttl time.Duration) error

	// Release frees a lock taken by Acquire.
	Release(ctx context.Context, network, address string) error
}

type nopSenderLock struct{}

var _ SenderLock = nopSenderLock{}

func (nopSenderLock) Acquire(context.Context, string, string, time.Duration) error { return nil }

func (nopSenderLock) Release(context.Context, string, string) error { return nil }
