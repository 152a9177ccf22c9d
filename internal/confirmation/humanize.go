package confirmation

import (
	"context"
	"errors"
	"strings"

	"github.com/gabapcia/txflow/internal/network"
	"github.com/gabapcia/txflow/internal/pkg/validator"
	"github.com/gabapcia/txflow/internal/transfer"
)

// User-facing failure messages.
const (
	MsgInsufficientFunds = "Insufficient funds to complete this transaction. Please check your balance and try again."
	MsgGasEstimation     = "Unable to estimate gas for this transaction. It may fail on chain, please review the details and try again."
	MsgNetwork           = "Network error. Please check your connection and try again."
	MsgRejected          = "Transaction was cancelled."
	MsgWalletUnavailable = "Wallet not available. Please make sure your wallet is set up and try again."
	MsgWrongChain        = "Could not switch to the selected network. Please switch manually in your wallet and try again."
	MsgNonceConflict     = "A previous transaction is still pending. Please wait a moment and try again."
	MsgUnsupportedToken  = "This token is not supported on the selected network."
	MsgUnsupportedChain  = "This network is not supported."
	MsgChainUnavailable  = "This network is not available right now. Please try again later."
	MsgReverted          = "The transaction failed on the blockchain. No funds were moved except network fees."
	MsgInvalidRequest    = "Please check the amount and recipient address and try again."
	MsgGeneric           = "Transaction failed. Please try again or contact support if the problem persists."
)

// maxRawMessageLength is the longest unmatched error text shown as is.
const maxRawMessageLength = 100

var sentinels = []struct {
	err error
	msg string
}{
	{transfer.ErrChainSwitch, MsgWrongChain},
	{transfer.ErrNoAccount, MsgWalletUnavailable},
	{transfer.ErrNoSolanaWallet, "No Solana wallet found. Please create one first."},
	{transfer.ErrWalletUnavailable, MsgWalletUnavailable},
	{transfer.ErrSenderBusy, MsgNonceConflict},
	{transfer.ErrTransactionReverted, MsgReverted},
	{transfer.ErrInvalidRecipient, MsgInvalidRequest},
	{transfer.ErrInvalidAmount, MsgInvalidRequest},
	{validator.ErrValidation, MsgInvalidRequest},
	{network.ErrTokenNotSupported, MsgUnsupportedToken},
	{network.ErrNetworkNotSupported, MsgUnsupportedChain},
	{network.ErrMissingRPC, MsgChainUnavailable},
	{ErrAuthenticationFailed, "Authentication failed. Please try again."},
	{context.Canceled, MsgRejected},
}

// patterns are matched in order against the lower-cased error text.
var patterns = []struct {
	substrings []string
	msg        string
}{
	{[]string{"insufficient funds", "insufficient balance", "insufficient lamports", "exceeds balance"}, MsgInsufficientFunds},
	{[]string{"user rejected", "user denied", "rejected the request", "user cancelled", "user canceled"}, MsgRejected},
	{[]string{"nonce too low", "nonce too high", "invalid nonce", "nonce has already been used", "replacement transaction underpriced", "already known"}, MsgNonceConflict},
	{[]string{"gas required exceeds", "cannot estimate gas", "estimate gas", "intrinsic gas too low", "out of gas", "execution reverted"}, MsgGasEstimation},
	{[]string{"switch chain", "switch network", "wrong network", "chain mismatch", "unrecognized chain"}, MsgWrongChain},
	{[]string{"wallet not", "no wallet", "provider not", "wallet unavailable"}, MsgWalletUnavailable},
	{[]string{"not supported on", "token not supported"}, MsgUnsupportedToken},
	{[]string{"network", "timeout", "timed out", "deadline exceeded", "connection", "no such host", "failed to fetch"}, MsgNetwork},
}

// Humanize maps an error from the transaction flow to a sentence that can be
// shown to the user. Known errors and well-known provider texts get a fixed
// message; other short messages pass through, long ones are replaced by a
// generic sentence.
func Humanize(err error) string {
	if err == nil {
		return ""
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	raw := err.Error()
	lower := strings.ToLower(raw)
	for _, p := range patterns {
		for _, sub := range p.substrings {
			if strings.Contains(lower, sub) {
				return p.msg
			}
		}
	}

	if len(raw) > maxRawMessageLength {
		return MsgGeneric
	}

	return raw
}
