package txbuilder

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"
	"github.com/holiman/uint256"
)

var (
	// ErrMissingNonce is returned when a request reaches assembly without a
	// nonce set by the dispatch loop.
	ErrMissingNonce = errors.New("transaction request has no nonce")
	// ErrLegacyBlobTx is returned for a blob request with a legacy fee model.
	ErrLegacyBlobTx = errors.New("blob transactions cannot use legacy gas pricing")
)

// Assemble converts a request into a signable typed transaction. The concrete
// type follows the request content: blob payloads produce a BlobTx (with
// computed KZG sidecar), an access list on a legacy fee model produces an
// AccessListTx, otherwise the fee model picks DynamicFeeTx or LegacyTx.
func Assemble(req *TxRequest) (*types.Transaction, error) {
	if req.Nonce == nil {
		return nil, ErrMissingNonce
	}
	nonce := *req.Nonce

	if len(req.Blobs) > 0 {
		if req.FeeModel == FeeLegacy {
			return nil, ErrLegacyBlobTx
		}
		return assembleBlobTx(req, nonce)
	}

	if req.FeeModel == FeeLegacy {
		if len(req.AccessList) > 0 {
			return types.NewTx(&types.AccessListTx{
				ChainID:    req.ChainID,
				Nonce:      nonce,
				GasPrice:   req.GasPrice,
				Gas:        req.GasLimit,
				To:         req.To,
				Value:      req.Value,
				Data:       req.Data,
				AccessList: req.AccessList,
			}), nil
		}
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: req.GasPrice,
			Gas:      req.GasLimit,
			To:       req.To,
			Value:    req.Value,
			Data:     req.Data,
		}), nil
	}

	return types.NewTx(&types.DynamicFeeTx{
		ChainID:    req.ChainID,
		Nonce:      nonce,
		GasTipCap:  req.GasTipCap,
		GasFeeCap:  req.GasFeeCap,
		Gas:        req.GasLimit,
		To:         req.To,
		Value:      req.Value,
		Data:       req.Data,
		AccessList: req.AccessList,
	}), nil
}

func assembleBlobTx(req *TxRequest, nonce uint64) (*types.Transaction, error) {
	sidecar, err := makeSidecar(req.Blobs)
	if err != nil {
		return nil, err
	}

	var to common.Address
	if req.To != nil {
		to = *req.To
	}

	return types.NewTx(&types.BlobTx{
		ChainID:    uint256.MustFromBig(req.ChainID),
		Nonce:      nonce,
		GasTipCap:  uint256.MustFromBig(req.GasTipCap),
		GasFeeCap:  uint256.MustFromBig(req.GasFeeCap),
		Gas:        req.GasLimit,
		To:         to,
		Value:      uint256.MustFromBig(req.Value),
		Data:       req.Data,
		BlobFeeCap: uint256.MustFromBig(req.BlobFeeCap),
		BlobHashes: sidecar.BlobHashes(),
		Sidecar:    sidecar,
	}), nil
}

func makeSidecar(blobs []kzg4844.Blob) (*types.BlobTxSidecar, error) {
	commitments := make([]kzg4844.Commitment, 0, len(blobs))
	proofs := make([]kzg4844.Proof, 0, len(blobs))

	for i := range blobs {
		commitment, err := kzg4844.BlobToCommitment(&blobs[i])
		if err != nil {
			return nil, fmt.Errorf("blob %d commitment: %w", i, err)
		}
		proof, err := kzg4844.ComputeBlobProof(&blobs[i], commitment)
		if err != nil {
			return nil, fmt.Errorf("blob %d proof: %w", i, err)
		}
		commitments = append(commitments, commitment)
		proofs = append(proofs, proof)
	}

	return types.NewBlobTxSidecar(types.BlobSidecarVersion0, blobs, commitments, proofs), nil
}
