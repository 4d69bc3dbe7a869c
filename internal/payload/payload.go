// Package payload computes how much transaction payload fits under a gas
// budget and generates the filler content itself: calldata bytes, access-list
// entries and EIP-4844 blobs.
package payload

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Per-unit gas costs used for sizing.
const (
	// TxBaseCost is the intrinsic cost of any transaction.
	TxBaseCost = 21000
	// CostZeroByte is the calldata cost of a zero byte.
	CostZeroByte = 10
	// CostNonZeroByte is the calldata cost of a non-zero byte (EIP-2028).
	CostNonZeroByte = 16
	// AccessListAddressCost is the gas cost of one access-list address entry.
	AccessListAddressCost = 2400
	// AccessListStorageKeyCost is the gas cost of one access-list storage key.
	AccessListStorageKeyCost = 1900

	// DefaultMixNonZeroPercent is the default share of post-base gas spent on
	// non-zero calldata bytes when sizing mixed payloads.
	DefaultMixNonZeroPercent = 71
)

var (
	// ErrInvalidBudget is returned when a gas budget leaves no room for any
	// payload beyond the intrinsic transaction cost.
	ErrInvalidBudget = errors.New("gas budget does not exceed base transaction cost")
	// ErrInvalidMixPercent is returned for a mix split outside (0, 100).
	ErrInvalidMixPercent = errors.New("mix percent must be between 1 and 99")
)

// MaxZeroBytes returns the maximum number of zero-valued calldata bytes that
// fit within gasBudget.
func MaxZeroBytes(gasBudget uint64) (uint64, error) {
	if gasBudget <= TxBaseCost {
		return 0, fmt.Errorf("budget %d: %w", gasBudget, ErrInvalidBudget)
	}
	return (gasBudget - TxBaseCost) / CostZeroByte, nil
}

// MaxNonZeroBytes returns the maximum number of non-zero calldata bytes that
// fit within gasBudget.
func MaxNonZeroBytes(gasBudget uint64) (uint64, error) {
	if gasBudget <= TxBaseCost {
		return 0, fmt.Errorf("budget %d: %w", gasBudget, ErrInvalidBudget)
	}
	return (gasBudget - TxBaseCost) / CostNonZeroByte, nil
}

// MaxMixedBytes splits the post-base gas between non-zero and zero calldata
// bytes. nonZeroPercent of the available gas is reserved for non-zero bytes
// first; whatever that reservation cannot spend on whole bytes flows back into
// the zero-byte budget, so the total slack stays below one zero-byte cost.
func MaxMixedBytes(gasBudget uint64, nonZeroPercent int) (nonZeros, zeros uint64, err error) {
	if nonZeroPercent <= 0 || nonZeroPercent >= 100 {
		return 0, 0, fmt.Errorf("percent %d: %w", nonZeroPercent, ErrInvalidMixPercent)
	}
	if gasBudget <= TxBaseCost {
		return 0, 0, fmt.Errorf("budget %d: %w", gasBudget, ErrInvalidBudget)
	}

	available := gasBudget - TxBaseCost
	nonZeroGas := available * uint64(nonZeroPercent) / 100

	nonZeros = nonZeroGas / CostNonZeroByte
	zeros = (available - nonZeros*CostNonZeroByte) / CostZeroByte
	return nonZeros, zeros, nil
}

// MaxAccessListKeys returns the maximum number of storage keys a single
// access-list entry can carry within gasBudget.
func MaxAccessListKeys(gasBudget uint64) (uint64, error) {
	if gasBudget <= TxBaseCost+AccessListAddressCost {
		return 0, fmt.Errorf("budget %d: %w", gasBudget, ErrInvalidBudget)
	}
	return (gasBudget - TxBaseCost - AccessListAddressCost) / AccessListStorageKeyCost, nil
}

// ZeroBytes returns n zero bytes.
func ZeroBytes(n int) []byte {
	return make([]byte, n)
}

// NonZeroBytes returns n bytes drawn uniformly from [1, 255].
func NonZeroBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(rand.IntN(255) + 1)
	}
	return b
}

// MixedBytes returns zeros zero bytes and nonZeros random non-zero bytes in
// fully shuffled order, so the zero/non-zero boundary is not detectable.
func MixedBytes(zeros, nonZeros int) []byte {
	b := make([]byte, 0, zeros+nonZeros)
	b = append(b, ZeroBytes(zeros)...)
	b = append(b, NonZeroBytes(nonZeros)...)
	rand.Shuffle(len(b), func(i, j int) {
		b[i], b[j] = b[j], b[i]
	})
	return b
}

// RandomAccessList generates addresses random access-list entries, each with
// keysPerAddress random storage keys.
func RandomAccessList(addresses, keysPerAddress int) types.AccessList {
	list := make(types.AccessList, 0, addresses)
	for range addresses {
		var addr common.Address
		fillRandom(addr[:])

		keys := make([]common.Hash, keysPerAddress)
		for i := range keys {
			fillRandom(keys[i][:])
		}
		list = append(list, types.AccessTuple{
			Address:     addr,
			StorageKeys: keys,
		})
	}
	return list
}

func fillRandom(b []byte) {
	for i := range b {
		b[i] = byte(rand.IntN(256))
	}
}
