// Package config holds the run configuration and its validation rules.
package config

import (
	"errors"
	"regexp"
	"time"
)

// Config holds all configuration for a spam run.
type Config struct {
	// Input files
	KeyFile string
	RPCFile string

	// Inline alternatives to the input files
	PrivateKey string
	Mnemonic   string
	RPCURL     string

	// Wallets derived from a mnemonic
	WalletCount int

	// Chain configuration
	ChainID uint64

	// Selection modes (index, random, round-robin)
	WalletSelection   string
	ClientSelection   string
	StrategySelection string

	// Strategies, comma-separated
	Strategies string

	// Transaction parameters
	GasLimit             uint64 // 0 = use live block gas limit
	MaxFeePerGas         uint64
	MaxPriorityFeePerGas uint64
	MaxFeePerBlobGas     uint64
	MixNonZeroPercent    int
	BlobCount            int
	Recipient            string // empty = self-directed

	// Rate limiting and volume
	Rate    float64 // transactions per second, 0 = unlimited
	TxCount uint64  // 0 = unlimited
	Workers int

	// Behavior
	DryRun  bool
	Verbose bool
	Timeout time.Duration

	// Prometheus metrics
	MetricsEnabled bool
	MetricsPort    int
}

var (
	hexKeyRegex    = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{64}$`)
	addressRegex   = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	selectionRegex = regexp.MustCompile(`^(index|random|round-robin)$`)
)

// Validate checks the configuration and fills defaults.
func (c *Config) Validate() error {
	if c.KeyFile == "" && c.PrivateKey == "" && c.Mnemonic == "" {
		return errors.New("one of key-file, private-key or mnemonic is required")
	}
	if c.PrivateKey != "" && !hexKeyRegex.MatchString(c.PrivateKey) {
		return errors.New("private-key must be a 64-character hex string")
	}
	if c.Mnemonic != "" && c.WalletCount <= 0 {
		c.WalletCount = 10
	}

	if c.RPCFile == "" && c.RPCURL == "" {
		return errors.New("one of rpc-file or rpc-url is required")
	}

	for _, sel := range []string{c.WalletSelection, c.ClientSelection, c.StrategySelection} {
		if !selectionRegex.MatchString(sel) {
			return errors.New("selection modes must be index, random or round-robin")
		}
	}

	if c.Strategies == "" {
		return errors.New("at least one strategy is required")
	}

	if c.Recipient != "" && !addressRegex.MatchString(c.Recipient) {
		return errors.New("recipient must be a 40-character hex address with 0x prefix")
	}

	if c.MixNonZeroPercent == 0 {
		c.MixNonZeroPercent = 71
	}
	if c.MixNonZeroPercent < 1 || c.MixNonZeroPercent > 99 {
		return errors.New("mix-percent must be between 1 and 99")
	}

	if c.BlobCount <= 0 {
		c.BlobCount = 2
	}

	if c.Workers <= 0 {
		c.Workers = 1
	}

	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}

	if c.MetricsEnabled && c.MetricsPort == 0 {
		c.MetricsPort = 9090
	}

	return nil
}
