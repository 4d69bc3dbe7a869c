package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/0xmhha/txspam/internal/client"
	"github.com/0xmhha/txspam/internal/config"
	"github.com/0xmhha/txspam/internal/keyfile"
	"github.com/0xmhha/txspam/internal/metrics"
	"github.com/0xmhha/txspam/internal/pool"
	"github.com/0xmhha/txspam/internal/spammer"
	"github.com/0xmhha/txspam/internal/txbuilder"
	"github.com/0xmhha/txspam/internal/wallet"
	"github.com/0xmhha/txspam/pkg/types"
)

var (
	version = "dev"
	cfg     = &config.Config{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "txspam",
		Short:   "Ethereum transaction spammer",
		Long:    `TxSpam drives sustained synthetic load against one or more RPC endpoints, rotating wallets, endpoints and payload strategies.`,
		Version: version,
		RunE:    run,
	}

	registerFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func registerFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	// Input
	flags.StringVarP(&cfg.KeyFile, "key-file", "k", "", "File containing private keys (JSON array or one per line)")
	flags.StringVarP(&cfg.RPCFile, "rpc-file", "r", "", "File containing RPC endpoints (URLs or container listing)")
	flags.StringVar(&cfg.PrivateKey, "private-key", "", "Single private key (alternative to key-file)")
	flags.StringVar(&cfg.Mnemonic, "mnemonic", "", "BIP39 mnemonic to derive wallets from (alternative to key-file)")
	flags.StringVar(&cfg.RPCURL, "rpc-url", "", "Single RPC endpoint URL (alternative to rpc-file)")
	flags.IntVar(&cfg.WalletCount, "wallets", 10, "Number of wallets to derive from the mnemonic")

	// Chain
	flags.Uint64VarP(&cfg.ChainID, "chain-id", "c", 0, "Chain ID (auto-detect if not specified)")

	// Selection modes
	flags.StringVarP(&cfg.WalletSelection, "wallet-selection", "w", "round-robin", "Wallet selection mode: index, random, round-robin")
	flags.StringVarP(&cfg.ClientSelection, "client-selection", "n", "round-robin", "Client selection mode: index, random, round-robin")
	flags.StringVarP(&cfg.StrategySelection, "strategy-selection", "s", "round-robin", "Strategy selection mode: index, random, round-robin")

	// Strategies
	flags.StringVar(&cfg.Strategies, "strategies", "standard-tx,calldata-zeros",
		"Comma-separated strategies: standard-tx, calldata-zeros, calldata-non-zeros, calldata-mix, access-list, blobs")

	// Transaction parameters
	flags.Uint64Var(&cfg.GasLimit, "gas-limit", 0, "Gas budget per transaction (0 = use block gas limit)")
	flags.Uint64Var(&cfg.MaxFeePerGas, "max-fee-per-gas", 1_000_000_000, "Max fee per gas (wei)")
	flags.Uint64Var(&cfg.MaxPriorityFeePerGas, "max-priority-fee-per-gas", 1_000_000_000, "Max priority fee per gas (wei)")
	flags.Uint64Var(&cfg.MaxFeePerBlobGas, "max-fee-per-blob-gas", 1_000_000_000, "Max fee per blob gas (wei)")
	flags.IntVar(&cfg.MixNonZeroPercent, "mix-percent", 71, "Share of gas spent on non-zero bytes in mixed calldata (1-99)")
	flags.IntVar(&cfg.BlobCount, "blob-count", 2, "Number of blobs per blob transaction")
	flags.StringVar(&cfg.Recipient, "recipient", "", "Recipient address (default: wallet sends to itself)")

	// Rate and volume
	flags.Float64Var(&cfg.Rate, "rate", 1, "Transactions per second (0 = unlimited)")
	flags.Uint64Var(&cfg.TxCount, "tx-count", 0, "Number of transactions to send (0 = unlimited)")
	flags.IntVar(&cfg.Workers, "workers", 1, "Number of concurrent spam workers")

	// Behavior
	flags.BoolVar(&cfg.DryRun, "dry-run", false, "Build transactions but don't send them")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose logging")
	flags.DurationVar(&cfg.Timeout, "timeout", 0, "Per-request RPC timeout (default: 30s)")

	// Prometheus metrics
	flags.BoolVar(&cfg.MetricsEnabled, "metrics", false, "Enable Prometheus metrics endpoint")
	flags.IntVar(&cfg.MetricsPort, "metrics-port", 9090, "Port for Prometheus metrics endpoint")
}

func run(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wallets, err := loadWallets()
	if err != nil {
		return err
	}

	clients, err := dialClients()
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range clients {
			if cc, ok := c.(*client.Client); ok {
				cc.Close()
			}
		}
	}()

	strategies, err := txbuilder.ParseStrategies(cfg.Strategies)
	if err != nil {
		return err
	}

	walletMode, err := pool.ParseMode(cfg.WalletSelection)
	if err != nil {
		return fmt.Errorf("wallet-selection: %w", err)
	}
	clientMode, err := pool.ParseMode(cfg.ClientSelection)
	if err != nil {
		return fmt.Errorf("client-selection: %w", err)
	}
	strategyMode, err := pool.ParseMode(cfg.StrategySelection)
	if err != nil {
		return fmt.Errorf("strategy-selection: %w", err)
	}

	builderCfg := txbuilder.DefaultBuilderConfig(nil)
	builderCfg.GasFeeCap = new(big.Int).SetUint64(cfg.MaxFeePerGas)
	builderCfg.GasTipCap = new(big.Int).SetUint64(cfg.MaxPriorityFeePerGas)
	builderCfg.BlobFeeCap = new(big.Int).SetUint64(cfg.MaxFeePerBlobGas)
	builderCfg.MixNonZeroPercent = cfg.MixNonZeroPercent
	builderCfg.BlobCount = cfg.BlobCount
	if cfg.Recipient != "" {
		to := common.HexToAddress(cfg.Recipient)
		builderCfg.Recipient = &to
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New("txspam")
		if err := m.Start(ctx, cfg.MetricsPort); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = m.Stop(shutdownCtx)
		}()
	}

	var chainID *big.Int
	if cfg.ChainID > 0 {
		chainID = new(big.Int).SetUint64(cfg.ChainID)
		builderCfg.ChainID = chainID
	}

	printConfiguration(len(wallets), len(clients), strategies)

	s := spammer.New(spammer.Options{
		WalletMode:   walletMode,
		ClientMode:   clientMode,
		StrategyMode: strategyMode,
		GasLimit:     cfg.GasLimit,
		Rate:         cfg.Rate,
		TxCount:      cfg.TxCount,
		Workers:      cfg.Workers,
		DryRun:       cfg.DryRun,
	}, wallets, clients, strategies, txbuilder.NewBuilder(builderCfg), m, logger)

	if chainID != nil {
		s.WithChainID(chainID)
	}

	result, err := s.Run(ctx)
	if result != nil {
		printResult(result)
	}
	if err != nil {
		return fmt.Errorf("spam run failed: %w", err)
	}
	return nil
}

func loadWallets() ([]*wallet.Wallet, error) {
	switch {
	case cfg.KeyFile != "":
		keys, err := keyfile.LoadPrivateKeys(cfg.KeyFile)
		if err != nil {
			return nil, err
		}
		return wallet.FromKeys(keys)
	case cfg.Mnemonic != "":
		return wallet.FromMnemonic(cfg.Mnemonic, cfg.WalletCount)
	default:
		return wallet.FromKeys([]string{cfg.PrivateKey})
	}
}

func dialClients() ([]spammer.Client, error) {
	var endpoints []keyfile.Endpoint
	if cfg.RPCFile != "" {
		var err error
		endpoints, err = keyfile.LoadEndpoints(cfg.RPCFile)
		if err != nil {
			return nil, err
		}
	} else {
		endpoints = []keyfile.Endpoint{{URL: cfg.RPCURL}}
	}

	clients := make([]spammer.Client, 0, len(endpoints))
	for _, ep := range endpoints {
		c, err := client.New(client.Config{
			URL:     ep.URL,
			Name:    ep.Name,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, nil
}

func printConfiguration(wallets, clients int, strategies []txbuilder.Strategy) {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = string(s)
	}

	gasBudget := "auto (block limit)"
	if cfg.GasLimit > 0 {
		gasBudget = strconv.FormatUint(cfg.GasLimit, 10)
	}
	txCount := "unlimited"
	if cfg.TxCount > 0 {
		txCount = strconv.FormatUint(cfg.TxCount, 10)
	}
	rate := "unlimited"
	if cfg.Rate > 0 {
		rate = fmt.Sprintf("%.2f tx/s", cfg.Rate)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Setting", "Value"})
	table.SetBorder(true)
	table.Append([]string{"Wallets loaded", strconv.Itoa(wallets)})
	table.Append([]string{"Endpoints loaded", strconv.Itoa(clients)})
	table.Append([]string{"Strategies", fmt.Sprintf("%v", names)})
	table.Append([]string{"Wallet selection", cfg.WalletSelection})
	table.Append([]string{"Client selection", cfg.ClientSelection})
	table.Append([]string{"Strategy selection", cfg.StrategySelection})
	table.Append([]string{"Gas budget", gasBudget})
	table.Append([]string{"Rate", rate})
	table.Append([]string{"Transaction count", txCount})
	table.Append([]string{"Workers", strconv.Itoa(cfg.Workers)})
	table.Append([]string{"Dry run", strconv.FormatBool(cfg.DryRun)})
	table.Render()
}

func printResult(result *types.Result) {
	fmt.Println()
	fmt.Printf("Completed: %d sent, %d failed, %d built in %s (%.2f tx/s)\n",
		result.Sent, result.Failed, result.Built,
		result.Duration.Round(time.Millisecond), result.AverageTPS)
	for strategy, count := range result.PerStrategy {
		fmt.Printf("  %-20s %d\n", strategy, count)
	}
}
