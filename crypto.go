package ledger

import (
	"github.com/pkg/errors"

	"golang.org/x/crypto/blake2b"
)

// Blake2b computes a generic blake2b hash of bufferBytes with a digest of
// 'size' bytes. Kadena transaction ids are the 32-byte form of this hash.
func Blake2b(bufferBytes []byte, size int) ([]byte, error) {

	// Generic hash of bytes
	bufferBytesHashGen, err := blake2b.New(size, []byte{})
	if err != nil {
		return []byte{0}, errors.Wrap(err, "Unable create blake2b hash object")
	}

	// Write buffer bytes to hash
	_, err = bufferBytesHashGen.Write(bufferBytes)
	if err != nil {
		return []byte{0}, errors.Wrap(err, "Unable write buffer bytes to hash function")
	}

	// Generate checksum of buffer bytes
	bufferHash := bufferBytesHashGen.Sum([]byte{})

	return bufferHash, nil
}
