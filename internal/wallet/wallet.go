// Package wallet manages the sender identities used for spamming.
package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
)

// Wallet is a single sender identity: one private key, its address and a
// display name. Immutable after creation.
type Wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
	name    string
}

// New creates a wallet from a private key hex string, with or without the 0x
// prefix.
func New(privateKeyHex string) (*Wallet, error) {
	if len(privateKeyHex) >= 2 && privateKeyHex[:2] == "0x" {
		privateKeyHex = privateKeyHex[2:]
	}

	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	addr := crypto.PubkeyToAddress(key.PublicKey)
	return &Wallet{
		key:     key,
		address: addr,
		name:    addr.Hex()[:10],
	}, nil
}

// WithName sets the display name.
func (w *Wallet) WithName(name string) *Wallet {
	w.name = name
	return w
}

// Address returns the wallet address.
func (w *Wallet) Address() common.Address {
	return w.address
}

// Name returns the display name, defaulting to a shortened address.
func (w *Wallet) Name() string {
	return w.name
}

// SignTx signs a transaction with the wallet key using the latest signer for
// the given chain ID.
func (w *Wallet) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), w.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signed, nil
}

// FromKeys creates one wallet per private key, named wallet_1..wallet_n in
// input order.
func FromKeys(keys []string) ([]*Wallet, error) {
	wallets := make([]*Wallet, 0, len(keys))
	for i, key := range keys {
		w, err := New(key)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		wallets = append(wallets, w.WithName(fmt.Sprintf("wallet_%d", i+1)))
	}
	return wallets, nil
}

// FromMnemonic derives count wallets from a BIP39 mnemonic using the standard
// Ethereum derivation path.
func FromMnemonic(mnemonic string, count int) ([]*Wallet, error) {
	hd, err := hdwallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("invalid mnemonic: %w", err)
	}

	wallets := make([]*Wallet, 0, count)
	for i := 0; i < count; i++ {
		path := hdwallet.MustParseDerivationPath(fmt.Sprintf("m/44'/60'/0'/0/%d", i))
		account, err := hd.Derive(path, false)
		if err != nil {
			return nil, fmt.Errorf("failed to derive account %d: %w", i, err)
		}

		key, err := hd.PrivateKey(account)
		if err != nil {
			return nil, fmt.Errorf("failed to get private key %d: %w", i, err)
		}

		addr := crypto.PubkeyToAddress(key.PublicKey)
		wallets = append(wallets, &Wallet{
			key:     key,
			address: addr,
			name:    fmt.Sprintf("wallet_%d", i+1),
		})
	}
	return wallets, nil
}
