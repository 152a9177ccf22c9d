package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/gabapcia/txflow/internal/bridge"
	"github.com/gabapcia/txflow/internal/confirmation"
	"github.com/gabapcia/txflow/internal/handlers/cli"
	"github.com/gabapcia/txflow/internal/infra/auth/passcode"
	"github.com/gabapcia/txflow/internal/infra/backend"
	"github.com/gabapcia/txflow/internal/infra/blockchain/ethereum"
	solanarpc "github.com/gabapcia/txflow/internal/infra/blockchain/solana"
	"github.com/gabapcia/txflow/internal/infra/storage/redis"
	"github.com/gabapcia/txflow/internal/infra/wallet/embedded"
	"github.com/gabapcia/txflow/internal/network"
	"github.com/gabapcia/txflow/internal/pkg/logger"
	"github.com/gabapcia/txflow/internal/pkg/telemetry"
	transporthttp "github.com/gabapcia/txflow/internal/pkg/transport/http"
	"github.com/gabapcia/txflow/internal/pkg/validator"
	"github.com/gabapcia/txflow/internal/transfer"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.TelemetryEnabled {
		var shutdown telemetry.ShutdownFunc
		if shutdown, err = telemetry.Init(ctx, cfg.ServiceName); err != nil {
			return err
		}
		defer func() { err = errors.Join(err, shutdown(context.WithoutCancel(ctx))) }()
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		return err
	}
	defer logger.Sync()

	validator.Init()

	registry, err := network.NewRegistry(network.DefaultChains(
		network.WithSolanaCluster(cfg.SolanaCluster),
		network.WithRPCURL("base", cfg.BaseRPCURL),
		network.WithRPCURL("celo", cfg.CeloRPCURL),
		network.WithRPCURL("solana", cfg.SolanaRPCURL),
	)...)
	if err != nil {
		return err
	}

	rpcOpts := []transporthttp.Option{transporthttp.WithTimeout(cfg.RPCTimeout)}

	wallet, err := newWallet(cfg, registry, rpcOpts)
	if err != nil {
		return err
	}

	transferOpts := []transfer.Option{
		transfer.WithConfirmationPolicy(cfg.ConfirmAttempts, cfg.ConfirmInterval),
	}
	if cfg.RedisAddr != "" {
		lock, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer lock.Close()

		transferOpts = append(transferOpts, transfer.WithSenderLock(lock, cfg.SenderLockTTL))
	}

	transfers := transfer.New(registry, wallet, transfer.Chains{
		EVM:    ethereum.NewDialer(rpcOpts...),
		Solana: solanarpc.NewDialer(rpcOpts...),
	}, transferOpts...)

	auth, err := passcode.New(cfg.PasscodeHash)
	if err != nil {
		return err
	}

	api := backend.NewClient(cfg.BackendURL, cfg.BackendToken, backend.WithTimeout(cfg.BackendTimeout))

	modal, err := confirmation.New(transfers, auth, confirmation.WithReporter(api))
	if err != nil {
		return err
	}
	defer modal.Close()

	return cli.Run(ctx, os.Args, cli.Dependencies{
		Registry:     registry,
		Transfers:    transfers,
		Withdrawals:  bridge.New(registry, api, modal, bridge.WithDestination(cfg.BridgeTo)),
		Modal:        modal,
		HashPasscode: passcode.Hash,
	})
}

// newWallet builds the embedded wallets for the configured keys. A family
// without a key is left unset and its transfers fail with a wallet error.
func newWallet(cfg config, registry *network.Registry, rpcOpts []transporthttp.Option) (transfer.Wallet, error) {
	var wallet transfer.Wallet

	if cfg.EVMPrivateKey != "" {
		// Broadcasts are not idempotent, so the wallet's node never retries.
		broadcastOpts := append(slices.Clone(rpcOpts), transporthttp.WithRetryMax(0))

		evm, err := embedded.NewEVMWallet(cfg.EVMPrivateKey, registry, func(ctx context.Context, chain network.Chain) (embedded.EVMNode, error) {
			return ethereum.Dial(ctx, chain, broadcastOpts...)
		})
		if err != nil {
			return transfer.Wallet{}, err
		}

		wallet.EVM = evm
	}

	if cfg.SolanaPrivateKey != "" {
		chain, err := registry.Lookup("solana")
		if err != nil {
			return transfer.Wallet{}, err
		}

		sol, err := embedded.NewSolanaWallet(cfg.SolanaPrivateKey, chain, func(ctx context.Context, chain network.Chain) (embedded.SolanaNode, error) {
			return solanarpc.Dial(ctx, chain, rpcOpts...)
		})
		if err != nil {
			return transfer.Wallet{}, err
		}

		wallet.Solana = sol
	}

	return wallet, nil
}
