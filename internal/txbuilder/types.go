package txbuilder

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"

	"github.com/0xmhha/txspam/internal/payload"
)

// FeeModel selects how a transaction prices gas.
type FeeModel int

const (
	// FeeEIP1559 uses a max fee / priority fee pair.
	FeeEIP1559 FeeModel = iota
	// FeeLegacy uses a single gas price.
	FeeLegacy
)

// TxRequest is an unsigned transaction descriptor. It is built fresh per spam
// cycle, handed to the signer and never mutated afterwards.
type TxRequest struct {
	Strategy Strategy

	To       *common.Address
	Value    *big.Int
	GasLimit uint64

	FeeModel  FeeModel
	GasPrice  *big.Int // legacy
	GasFeeCap *big.Int // EIP-1559
	GasTipCap *big.Int // EIP-1559

	Data       []byte
	AccessList types.AccessList

	Blobs      []kzg4844.Blob
	BlobFeeCap *big.Int

	// Nonce is filled by the dispatch loop just before signing.
	Nonce *uint64

	ChainID *big.Int
}

// BuilderConfig fixes every recognized transaction option at construction
// time, so strategy handlers never consult scattered optional lookups.
type BuilderConfig struct {
	ChainID *big.Int

	// Recipient overrides the self-directed default when set.
	Recipient *common.Address
	Value     *big.Int

	FeeModel   FeeModel
	GasPrice   *big.Int
	GasFeeCap  *big.Int
	GasTipCap  *big.Int
	BlobFeeCap *big.Int

	// MixNonZeroPercent is the share of post-base gas spent on non-zero
	// bytes when sizing mixed calldata.
	MixNonZeroPercent int
	// AccessListEntries is the number of address entries generated for the
	// access-list strategy.
	AccessListEntries int
	// BlobCount is the number of blobs attached per blob transaction.
	BlobCount int
}

// Default fee and payload settings.
var (
	defaultFeeCap     = big.NewInt(1_000_000_000) // 1 gwei
	defaultTipCap     = big.NewInt(1_000_000_000)
	defaultBlobFeeCap = big.NewInt(1_000_000_000)
)

const (
	defaultAccessListEntries = 1
	defaultBlobCount         = 2
)

// DefaultBuilderConfig returns a config with EIP-1559 fees of 1 gwei, zero
// value, self-directed transfers and default payload knobs.
func DefaultBuilderConfig(chainID *big.Int) *BuilderConfig {
	return &BuilderConfig{
		ChainID:           chainID,
		Value:             big.NewInt(0),
		FeeModel:          FeeEIP1559,
		GasFeeCap:         defaultFeeCap,
		GasTipCap:         defaultTipCap,
		BlobFeeCap:        defaultBlobFeeCap,
		MixNonZeroPercent: payload.DefaultMixNonZeroPercent,
		AccessListEntries: defaultAccessListEntries,
		BlobCount:         defaultBlobCount,
	}
}
