package main

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// config is read from TXFLOW_* environment variables.
type config struct {
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	TelemetryEnabled bool   `envconfig:"TELEMETRY_ENABLED" default:"false"`
	ServiceName      string `envconfig:"SERVICE_NAME" default:"txflow"`

	BackendURL     string        `envconfig:"BACKEND_URL" default:"http://localhost:3000"`
	BackendToken   string        `envconfig:"BACKEND_TOKEN"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"10s"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisUsername string `envconfig:"REDIS_USERNAME"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	EVMPrivateKey    string `envconfig:"EVM_PRIVATE_KEY"`
	SolanaPrivateKey string `envconfig:"SOLANA_PRIVATE_KEY"`
	PasscodeHash     string `envconfig:"PASSCODE_HASH"`

	BaseRPCURL    string        `envconfig:"BASE_RPC_URL"`
	CeloRPCURL    string        `envconfig:"CELO_RPC_URL"`
	SolanaRPCURL  string        `envconfig:"SOLANA_RPC_URL"`
	SolanaCluster string        `envconfig:"SOLANA_CLUSTER" default:"mainnet-beta"`
	RPCTimeout    time.Duration `envconfig:"RPC_TIMEOUT" default:"10s"`

	ConfirmAttempts uint          `envconfig:"CONFIRM_ATTEMPTS" default:"30"`
	ConfirmInterval time.Duration `envconfig:"CONFIRM_INTERVAL" default:"1s"`
	SenderLockTTL   time.Duration `envconfig:"SENDER_LOCK_TTL" default:"2m"`
	BridgeTo        string        `envconfig:"BRIDGE_DESTINATION" default:"base"`
}

func loadConfig() (config, error) {
	var cfg config
	err := envconfig.Process("TXFLOW", &cfg)
	return cfg, err
}
