// Package txbuilder turns a spam strategy and a gas budget into an unsigned
// transaction request, and assembles requests into signable transactions.
package txbuilder

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xmhha/txspam/internal/payload"
	"github.com/0xmhha/txspam/internal/util/mathutil"
)

// Builder builds transaction requests for the six spam strategies. All
// defaults come from its config; only the strategy, sender and gas budget vary
// per call. Builder is stateless and safe for concurrent use.
type Builder struct {
	cfg *BuilderConfig
}

// NewBuilder creates a builder over the given config.
func NewBuilder(cfg *BuilderConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Build creates a transaction request for the strategy. The payload is sized
// to fill gasBudget; sizing failures (budget at or below the intrinsic cost)
// surface to the caller unclamped.
func (b *Builder) Build(strategy Strategy, sender common.Address, gasBudget uint64) (*TxRequest, error) {
	switch strategy {
	case StandardTransfer:
		return b.buildStandardTransfer(sender), nil
	case CalldataZeros:
		return b.buildCalldataZeros(sender, gasBudget)
	case CalldataNonZeros:
		return b.buildCalldataNonZeros(sender, gasBudget)
	case CalldataMix:
		return b.buildCalldataMix(sender, gasBudget)
	case AccessList:
		return b.buildAccessList(sender, gasBudget)
	case Blobs:
		return b.buildBlobs(sender)
	default:
		return nil, fmt.Errorf("%q: %w", strategy, ErrUnknownStrategy)
	}
}

// newRequest fills the fields shared by all strategies. Transfers are
// self-directed unless the config names a recipient.
func (b *Builder) newRequest(strategy Strategy, sender common.Address, gasLimit uint64) *TxRequest {
	to := sender
	if b.cfg.Recipient != nil {
		to = *b.cfg.Recipient
	}

	return &TxRequest{
		Strategy:  strategy,
		To:        &to,
		Value:     b.cfg.Value,
		GasLimit:  gasLimit,
		FeeModel:  b.cfg.FeeModel,
		GasPrice:  b.cfg.GasPrice,
		GasFeeCap: b.cfg.GasFeeCap,
		GasTipCap: b.cfg.GasTipCap,
		ChainID:   b.cfg.ChainID,
	}
}

func (b *Builder) buildStandardTransfer(sender common.Address) *TxRequest {
	return b.newRequest(StandardTransfer, sender, payload.TxBaseCost)
}

func (b *Builder) buildCalldataZeros(sender common.Address, gasBudget uint64) (*TxRequest, error) {
	n, err := payload.MaxZeroBytes(gasBudget)
	if err != nil {
		return nil, err
	}
	size, err := mathutil.Uint64ToInt(n)
	if err != nil {
		return nil, err
	}

	req := b.newRequest(CalldataZeros, sender, gasBudget)
	req.Data = payload.ZeroBytes(size)
	return req, nil
}

func (b *Builder) buildCalldataNonZeros(sender common.Address, gasBudget uint64) (*TxRequest, error) {
	n, err := payload.MaxNonZeroBytes(gasBudget)
	if err != nil {
		return nil, err
	}
	size, err := mathutil.Uint64ToInt(n)
	if err != nil {
		return nil, err
	}

	req := b.newRequest(CalldataNonZeros, sender, gasBudget)
	req.Data = payload.NonZeroBytes(size)
	return req, nil
}

func (b *Builder) buildCalldataMix(sender common.Address, gasBudget uint64) (*TxRequest, error) {
	nonZeros, zeros, err := payload.MaxMixedBytes(gasBudget, b.cfg.MixNonZeroPercent)
	if err != nil {
		return nil, err
	}
	nz, err := mathutil.Uint64ToInt(nonZeros)
	if err != nil {
		return nil, err
	}
	z, err := mathutil.Uint64ToInt(zeros)
	if err != nil {
		return nil, err
	}

	req := b.newRequest(CalldataMix, sender, gasBudget)
	req.Data = payload.MixedBytes(z, nz)
	return req, nil
}

func (b *Builder) buildAccessList(sender common.Address, gasBudget uint64) (*TxRequest, error) {
	keys, err := payload.MaxAccessListKeys(gasBudget)
	if err != nil {
		return nil, err
	}
	perEntry, err := mathutil.Uint64ToInt(keys)
	if err != nil {
		return nil, err
	}
	if b.cfg.AccessListEntries > 1 {
		perEntry /= b.cfg.AccessListEntries
	}

	req := b.newRequest(AccessList, sender, gasBudget)
	req.AccessList = payload.RandomAccessList(b.cfg.AccessListEntries, perEntry)
	return req, nil
}

func (b *Builder) buildBlobs(sender common.Address) (*TxRequest, error) {
	blobs, err := payload.RandomBlobs(b.cfg.BlobCount)
	if err != nil {
		return nil, err
	}

	req := b.newRequest(Blobs, sender, payload.TxBaseCost)
	// Blob transactions are EIP-4844 and always price gas the 1559 way.
	req.FeeModel = FeeEIP1559
	req.Blobs = blobs
	req.BlobFeeCap = b.cfg.BlobFeeCap
	return req, nil
}
