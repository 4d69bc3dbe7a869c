// Package client wraps a single RPC endpoint with the queries the spam loop
// needs: chain identity, block gas limit, nonce lookup, raw send and receipt
// wait.
package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds individual RPC calls when the config leaves it unset.
const DefaultTimeout = 30 * time.Second

// receiptPollRate caps how often a receipt wait polls the endpoint.
const receiptPollRate = 0.5

// ErrReceiptTimeout is returned when a receipt does not appear in time.
var ErrReceiptTimeout = errors.New("timed out waiting for receipt")

// Config describes an endpoint before dialing.
type Config struct {
	URL     string
	Name    string
	Group   string
	Timeout time.Duration
}

// normalize fills defaults: name from the URL host, group "default".
func (c *Config) normalize() {
	if c.Name == "" {
		if u, err := url.Parse(c.URL); err == nil && u.Host != "" {
			c.Name = strings.Split(u.Host, ".")[0]
		} else {
			c.Name = c.URL
		}
	}
	if c.Group == "" {
		c.Group = "default"
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Client is one named endpoint. Immutable after creation apart from the
// underlying connection state.
type Client struct {
	cfg  Config
	eth  *ethclient.Client
	rpc  *rpc.Client
	poll *rate.Limiter
}

// New dials the endpoint described by cfg.
func New(cfg Config) (*Client, error) {
	cfg.normalize()

	rpcClient, err := rpc.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Name, err)
	}

	return &Client{
		cfg:  cfg,
		eth:  ethclient.NewClient(rpcClient),
		rpc:  rpcClient,
		poll: rate.NewLimiter(rate.Limit(receiptPollRate), 1),
	}, nil
}

// Close closes the endpoint connection.
func (c *Client) Close() {
	c.rpc.Close()
}

// Name returns the display name derived from the URL host when unset.
func (c *Client) Name() string {
	return c.cfg.Name
}

// Group returns the endpoint group label.
func (c *Client) Group() string {
	return c.cfg.Group
}

// URL returns the endpoint URL.
func (c *Client) URL() string {
	return c.cfg.URL
}

func (c *Client) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.cfg.Timeout)
}

// ChainID returns the chain ID.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	return c.eth.ChainID(ctx)
}

// BlockGasLimit returns the gas limit of the latest block.
func (c *Client) BlockGasLimit(ctx context.Context) (uint64, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	header, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest header: %w", err)
	}
	return header.GasLimit, nil
}

// PendingNonceAt returns the pending nonce for an account.
func (c *Client) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	return c.eth.PendingNonceAt(ctx, account)
}

// BalanceAt returns the latest balance of an account.
func (c *Client) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	return c.eth.BalanceAt(ctx, account, nil)
}

// SuggestGasTipCap returns the suggested priority fee.
func (c *Client) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	return c.eth.SuggestGasTipCap(ctx)
}

// SendTransaction submits a signed transaction.
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	return c.eth.SendTransaction(ctx, tx)
}

// SendRawTransaction submits a pre-encoded raw transaction.
func (c *Client) SendRawTransaction(ctx context.Context, rawTx []byte) (common.Hash, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	var hash common.Hash
	err := c.rpc.CallContext(ctx, &hash, "eth_sendRawTransaction", "0x"+common.Bytes2Hex(rawTx))
	return hash, err
}

// TransactionReceipt returns the receipt for a transaction hash, or an error
// if it is not yet available.
func (c *Client) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	return c.eth.TransactionReceipt(ctx, txHash)
}

// WaitForReceipt polls for a receipt until it appears, the timeout elapses or
// ctx is cancelled. Polling is paced so concurrent waiters do not hammer the
// endpoint.
func (c *Client) WaitForReceipt(ctx context.Context, txHash common.Hash, timeout time.Duration) (*types.Receipt, error) {
	deadline := time.Now().Add(timeout)
	for {
		if err := c.poll.Wait(ctx); err != nil {
			return nil, err
		}

		receipt, err := c.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%s: %w", txHash.Hex(), ErrReceiptTimeout)
		}
	}
}
