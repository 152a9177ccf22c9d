package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabapcia/txflow/internal/network"
	"github.com/gabapcia/txflow/internal/pkg/logger"
	"github.com/gabapcia/txflow/internal/pkg/txcodec"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
)

// ErrNoSolanaWallet is returned when no embedded Solana wallet exists.
var ErrNoSolanaWallet = errors.New("no solana wallet found, please create one first")

// Solana confirmation levels accepted as final.
const (
	commitmentConfirmed = "confirmed"
	commitmentFinalized = "finalized"
)

// solanaTransfer is what a request resolves to before the sender is known.
type solanaTransfer struct {
	recipient solana.PublicKey
	lamports  uint64
	mint      solana.PublicKey // zero for native SOL
	amount    uint64
}

func (t solanaTransfer) native() bool {
	return t.mint.IsZero()
}

// resolveSolanaTransfer validates req against chain without touching the network.
func resolveSolanaTransfer(chain network.Chain, req Request) (solanaTransfer, error) {
	if _, err := chain.Endpoint(); err != nil {
		return solanaTransfer{}, err
	}

	var token *network.Token
	if !chain.IsNative(req.Token) {
		t, err := chain.Token(req.Token)
		if err != nil {
			return solanaTransfer{}, err
		}
		token = &t
	}

	recipient, err := solana.PublicKeyFromBase58(req.Recipient)
	if err != nil {
		return solanaTransfer{}, fmt.Errorf("%w: %s", ErrInvalidRecipient, req.Recipient)
	}

	if token == nil {
		lamports, err := toUint64BaseUnits(req.Amount, chain.NativeDecimals)
		if err != nil {
			return solanaTransfer{}, err
		}

		return solanaTransfer{recipient: recipient, lamports: lamports}, nil
	}

	mint, err := solana.PublicKeyFromBase58(token.Address)
	if err != nil {
		return solanaTransfer{}, fmt.Errorf("token %s mint: %w", token.Symbol, err)
	}

	amount, err := toUint64BaseUnits(req.Amount, token.Decimals)
	if err != nil {
		return solanaTransfer{}, err
	}

	return solanaTransfer{recipient: recipient, mint: mint, amount: amount}, nil
}

// splTransferInstruction moves amount tokens between two token accounts owned
// by the SPL Token program.
func splTransferInstruction(source, destination, owner solana.PublicKey, amount uint64) solana.Instruction {
	return solana.NewInstruction(
		solana.TokenProgramID,
		solana.AccountMetaSlice{
			solana.Meta(source).WRITE(),
			solana.Meta(destination).WRITE(),
			solana.Meta(owner).SIGNER(),
		},
		txcodec.SPLTransfer{Amount: amount}.Encode(),
	)
}

// buildSolanaInstructions returns the instructions of t sent by owner. For
// tokens, the recipient's associated token account is created first when it
// does not exist yet.
func buildSolanaInstructions(ctx context.Context, rpc SolanaChain, owner solana.PublicKey, t solanaTransfer) ([]solana.Instruction, error) {
	if t.native() {
		return []solana.Instruction{
			system.NewTransferInstruction(t.lamports, owner, t.recipient).Build(),
		}, nil
	}

	source, _, err := solana.FindAssociatedTokenAddress(owner, t.mint)
	if err != nil {
		return nil, fmt.Errorf("sender token account: %w", err)
	}

	destination, _, err := solana.FindAssociatedTokenAddress(t.recipient, t.mint)
	if err != nil {
		return nil, fmt.Errorf("recipient token account: %w", err)
	}

	exists, err := rpc.AccountExists(ctx, destination)
	if err != nil {
		return nil, fmt.Errorf("recipient token account lookup: %w", err)
	}

	var instructions []solana.Instruction
	if !exists {
		logger.Info(ctx, "creating recipient token account", "solana.ata", destination.String())
		instructions = append(instructions,
			associatedtokenaccount.NewCreateInstruction(owner, t.recipient, t.mint).Build(),
		)
	}

	return append(instructions, splTransferInstruction(source, destination, owner, t.amount)), nil
}

func (s *service) dialSolana(ctx context.Context, chain network.Chain) (SolanaChain, error) {
	if s.chains.Solana == nil {
		return nil, fmt.Errorf("%w: %s", network.ErrMissingRPC, chain.ID)
	}

	return s.chains.Solana(ctx, chain)
}

func (s *service) solanaSender(ctx context.Context) (solana.PublicKey, error) {
	if s.wallet.Solana == nil {
		return solana.PublicKey{}, ErrNoSolanaWallet
	}

	wallets, err := s.wallet.Solana.Wallets(ctx)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %w", ErrWalletUnavailable, err)
	}

	if len(wallets) == 0 {
		return solana.PublicKey{}, ErrNoSolanaWallet
	}

	return wallets[0], nil
}

func (s *service) sendSolana(ctx context.Context, chain network.Chain, req Request) (Receipt, error) {
	t, err := resolveSolanaTransfer(chain, req)
	if err != nil {
		return Receipt{}, err
	}

	owner, err := s.solanaSender(ctx)
	if err != nil {
		return Receipt{}, err
	}

	rpc, err := s.dialSolana(ctx, chain)
	if err != nil {
		return Receipt{}, err
	}

	var signature solana.Signature
	err = s.withSenderLock(ctx, chain, owner.String(), func() error {
		instructions, err := buildSolanaInstructions(ctx, rpc, owner, t)
		if err != nil {
			return err
		}

		blockhash, err := rpc.LatestBlockhash(ctx)
		if err != nil {
			return fmt.Errorf("latest blockhash: %w", err)
		}

		tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(owner))
		if err != nil {
			return fmt.Errorf("build transaction: %w", err)
		}

		signature, err = s.wallet.Solana.SignAndSendTransaction(ctx, owner, tx)
		return err
	})
	if err != nil {
		return Receipt{}, err
	}

	ctx = logger.Derive(ctx, "tx.hash", signature.String())
	logger.Info(ctx, "transaction broadcast", "tx.from", owner.String())

	receipt := s.newReceipt(chain, req, signature.String(), owner.String())
	receipt.Confirmed, err = s.awaitConfirmation(ctx, signature.String(), func(ctx context.Context) error {
		return pollSignatureStatus(ctx, rpc, signature)
	})
	if err != nil {
		return receipt, err
	}

	return receipt, nil
}

func pollSignatureStatus(ctx context.Context, rpc SolanaChain, signature solana.Signature) error {
	status, err := rpc.SignatureStatus(ctx, signature)
	if err != nil {
		return err
	}

	if !status.Found {
		return errPending
	}

	if status.Err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTransactionReverted, signature, status.Err)
	}

	switch status.ConfirmationStatus {
	case commitmentConfirmed, commitmentFinalized:
		return nil
	default:
		return errPending
	}
}
