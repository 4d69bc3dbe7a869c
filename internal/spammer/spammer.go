// Package spammer composes the wallet, endpoint and strategy pools into the
// request-production cycle: pick endpoint, pick wallet, pick strategy, build,
// sign, send, rate-gate, repeat.
package spammer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	coretypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/0xmhha/txspam/internal/metrics"
	"github.com/0xmhha/txspam/internal/pool"
	"github.com/0xmhha/txspam/internal/ratelimit"
	"github.com/0xmhha/txspam/internal/txbuilder"
	"github.com/0xmhha/txspam/internal/util/progress"
	"github.com/0xmhha/txspam/internal/wallet"
	"github.com/0xmhha/txspam/pkg/types"
)

// Client is the endpoint surface the spam loop needs. internal/client.Client
// satisfies it; tests use a mock.
type Client interface {
	Name() string
	ChainID(ctx context.Context) (*big.Int, error)
	BlockGasLimit(ctx context.Context) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *coretypes.Transaction) error
}

// Options configures a spam run.
type Options struct {
	WalletMode   pool.Mode
	ClientMode   pool.Mode
	StrategyMode pool.Mode

	// GasLimit fixes the per-cycle gas budget; 0 queries the live block gas
	// limit from the selected endpoint each cycle.
	GasLimit uint64

	// Rate caps sends per second across all workers; 0 is unlimited.
	Rate float64
	// TxCount stops the run after this many cycles; 0 runs until cancelled.
	TxCount uint64
	// Workers is the number of concurrent spam goroutines.
	Workers int

	// DryRun builds and logs requests without signing or sending.
	DryRun bool
}

// Spammer drives sustained load against the loaded endpoints.
type Spammer struct {
	opts    Options
	wallets *pool.Pool[*wallet.Wallet]
	clients *pool.Pool[Client]
	strats  *pool.Pool[txbuilder.Strategy]
	builder *txbuilder.Builder
	gate    *ratelimit.Gate
	chainID *big.Int

	metrics *metrics.Metrics
	logger  *slog.Logger

	seq atomic.Uint64

	mu          sync.Mutex
	result      *types.Result
	perStrategy map[string]uint64
}

// New creates a spammer over pre-loaded pools. The metrics argument may be
// nil.
func New(opts Options, wallets []*wallet.Wallet, clients []Client, strategies []txbuilder.Strategy,
	builder *txbuilder.Builder, m *metrics.Metrics, logger *slog.Logger) *Spammer {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Spammer{
		opts:        opts,
		wallets:     pool.New(wallets),
		clients:     pool.New(clients),
		strats:      pool.New(strategies),
		builder:     builder,
		gate:        ratelimit.NewGate(),
		metrics:     m,
		logger:      logger,
		perStrategy: make(map[string]uint64),
	}
}

// SelectWallet picks a sender identity from the wallet pool.
func (s *Spammer) SelectWallet(mode pool.Mode, idx int) (*wallet.Wallet, error) {
	return s.wallets.Select(mode, idx)
}

// SelectClient picks an endpoint from the client pool.
func (s *Spammer) SelectClient(mode pool.Mode, idx int) (Client, error) {
	return s.clients.Select(mode, idx)
}

// SelectStrategy picks a strategy from the strategy pool.
func (s *Spammer) SelectStrategy(mode pool.Mode, idx int) (txbuilder.Strategy, error) {
	return s.strats.Select(mode, idx)
}

// Run executes the spam loop until the transaction count is reached or the
// context is cancelled. Cancellation is honored between cycles and inside the
// rate-limit wait.
func (s *Spammer) Run(ctx context.Context) (*types.Result, error) {
	if s.wallets.Len() == 0 || s.clients.Len() == 0 || s.strats.Len() == 0 {
		return nil, pool.ErrEmpty
	}

	if err := s.resolveChainID(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.result = &types.Result{StartTime: time.Now()}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SetSendRate(s.opts.Rate)
		s.metrics.SetPoolSizes(s.wallets.Len(), s.clients.Len())
	}

	var bar *progressbar.ProgressBar
	if s.opts.TxCount > 0 {
		bar = progressbar.Default(int64(s.opts.TxCount), "spamming")
	}

	g, ctx := errgroup.WithContext(ctx)
	for range s.opts.Workers {
		g.Go(func() error {
			return s.worker(ctx, bar)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.result.PerStrategy = s.perStrategy
	s.result.Finalize()
	return s.result, err
}

func (s *Spammer) resolveChainID(ctx context.Context) error {
	if s.chainID != nil {
		return nil
	}

	cli, err := s.clients.Select(pool.ByIndex, 0)
	if err != nil {
		return err
	}
	chainID, err := cli.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain ID from %s: %w", cli.Name(), err)
	}
	s.chainID = chainID
	return nil
}

// WithChainID fixes the chain ID instead of auto-detecting it.
func (s *Spammer) WithChainID(chainID *big.Int) *Spammer {
	s.chainID = chainID
	return s
}

func (s *Spammer) worker(ctx context.Context, bar *progressbar.ProgressBar) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if s.opts.TxCount > 0 && s.seq.Add(1) > s.opts.TxCount {
			return nil
		}

		if err := s.cycle(ctx); err != nil {
			if isFatal(err) {
				return err
			}
			s.logger.Warn("cycle skipped", slog.Any("error", err))
			if s.metrics != nil {
				s.metrics.RecordBuildError()
			}
			continue
		}

		progress.Add(bar, 1)
	}
}

// isFatal reports whether an error indicates a programmer error or an
// unrecoverable setup problem rather than a transient cycle failure.
func isFatal(err error) bool {
	return errors.Is(err, pool.ErrEmpty) ||
		errors.Is(err, pool.ErrUnknownMode) ||
		errors.Is(err, txbuilder.ErrUnknownStrategy)
}

// cycle produces and submits one transaction.
func (s *Spammer) cycle(ctx context.Context) error {
	cli, err := s.clients.Select(s.opts.ClientMode, 0)
	if err != nil {
		return err
	}
	w, err := s.wallets.Select(s.opts.WalletMode, 0)
	if err != nil {
		return err
	}
	strategy, err := s.strats.Select(s.opts.StrategyMode, 0)
	if err != nil {
		return err
	}

	gasBudget := s.opts.GasLimit
	if gasBudget == 0 {
		gasBudget, err = cli.BlockGasLimit(ctx)
		if err != nil {
			return fmt.Errorf("failed to get block gas limit from %s: %w", cli.Name(), err)
		}
	}

	req, err := s.builder.Build(strategy, w.Address(), gasBudget)
	if err != nil {
		return err
	}

	s.countBuilt()

	if s.opts.DryRun {
		s.logger.Info("transaction built",
			slog.String("strategy", string(strategy)),
			slog.String("wallet", w.Name()),
			slog.String("endpoint", cli.Name()),
			slog.Uint64("gas", req.GasLimit),
			slog.Int("data_bytes", len(req.Data)),
		)
		return nil
	}

	nonce, err := cli.PendingNonceAt(ctx, w.Address())
	if err != nil {
		return fmt.Errorf("failed to get nonce for %s: %w", w.Name(), err)
	}
	req.Nonce = &nonce
	if req.ChainID == nil {
		req.ChainID = s.chainID
	}

	tx, err := txbuilder.Assemble(req)
	if err != nil {
		return err
	}

	signed, err := w.SignTx(tx, s.chainID)
	if err != nil {
		return err
	}

	start := time.Now()
	err = s.gate.Invoke(ctx, s.opts.Rate, func(ctx context.Context) error {
		return cli.SendTransaction(ctx, signed)
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordTxFailed(string(strategy), cli.Name())
		}
		s.countFailed()
		return fmt.Errorf("send via %s: %w", cli.Name(), err)
	}

	if s.metrics != nil {
		s.metrics.RecordTxSent(string(strategy), cli.Name(), time.Since(start))
	}
	s.recordSent(strategy, signed.Hash())

	s.logger.Debug("transaction sent",
		slog.String("hash", signed.Hash().Hex()),
		slog.String("strategy", string(strategy)),
		slog.String("wallet", w.Name()),
		slog.String("endpoint", cli.Name()),
	)
	return nil
}

func (s *Spammer) countBuilt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result.Built++
}

func (s *Spammer) countFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result.Failed++
}

// maxRecordedHashes caps result memory on unbounded runs.
const maxRecordedHashes = 1024

func (s *Spammer) recordSent(strategy txbuilder.Strategy, hash common.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result.Sent++
	s.perStrategy[string(strategy)]++
	if len(s.result.TxHashes) < maxRecordedHashes && hash != (common.Hash{}) {
		s.result.TxHashes = append(s.result.TxHashes, hash)
	}
}
