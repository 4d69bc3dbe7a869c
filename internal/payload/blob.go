package payload

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto/kzg4844"
)

// Blob layout constants (EIP-4844).
const (
	BytesPerFieldElement = 32
	FieldElementsPerBlob = 4096
	// BlobSize is the total byte capacity of one blob.
	BlobSize = BytesPerFieldElement * FieldElementsPerBlob
)

// blsModulus is the BLS12-381 scalar field modulus. Every 32-byte field
// element of a blob must be strictly below it.
var blsModulus, _ = new(big.Int).SetString(
	"73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001", 16)

var (
	// ErrFieldOverflow is returned when a 32-byte chunk of input encodes an
	// integer that is not below the BLS modulus.
	ErrFieldOverflow = errors.New("field element exceeds BLS modulus")
	// ErrBlobTooLarge is returned when the input does not fit in one blob.
	ErrBlobTooLarge = errors.New("data exceeds blob capacity")
)

// EncodeBlob packs data into a single blob. The input is split into 32-byte
// chunks, the last chunk zero-padded on the right, and each chunk checked
// against the BLS modulus. Remaining field elements are zero.
func EncodeBlob(data []byte) (*kzg4844.Blob, error) {
	if len(data) > BlobSize {
		return nil, fmt.Errorf("%d bytes: %w", len(data), ErrBlobTooLarge)
	}

	var blob kzg4844.Blob
	elem := new(big.Int)
	for off := 0; off < len(data); off += BytesPerFieldElement {
		end := min(off+BytesPerFieldElement, len(data))
		copy(blob[off:off+BytesPerFieldElement], data[off:end])

		if elem.SetBytes(blob[off : off+BytesPerFieldElement]); elem.Cmp(blsModulus) >= 0 {
			return nil, fmt.Errorf("element at offset %d: %w", off, ErrFieldOverflow)
		}
	}
	return &blob, nil
}

// RandomBlob returns a blob whose every field element is drawn uniformly from
// [0, modulus).
func RandomBlob() (*kzg4844.Blob, error) {
	var blob kzg4844.Blob
	for i := 0; i < FieldElementsPerBlob; i++ {
		elem, err := crand.Int(crand.Reader, blsModulus)
		if err != nil {
			return nil, fmt.Errorf("failed to draw field element: %w", err)
		}
		elem.FillBytes(blob[i*BytesPerFieldElement : (i+1)*BytesPerFieldElement])
	}
	return &blob, nil
}

// RandomBlobs returns count random blobs.
func RandomBlobs(count int) ([]kzg4844.Blob, error) {
	blobs := make([]kzg4844.Blob, count)
	for i := range blobs {
		b, err := RandomBlob()
		if err != nil {
			return nil, err
		}
		blobs[i] = *b
	}
	return blobs, nil
}
