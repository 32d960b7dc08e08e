package kadena

import (
	"github.com/pkg/errors"
)

var (
	ErrLengthZero    = errors.New("Returned no data")
	ErrShortResponse = errors.New("Returned data too short")
)

// parseAddressResponse decodes a GetAddr reply: a fixed 32 byte public key
// followed by the account address text, whatever its length. The trailing
// status word was already stripped and checked by the transport layer.
func parseAddressResponse(resp []byte) (*AddressResult, error) {

	if len(resp) < PubKeyLen {
		return nil, ErrShortResponse
	}

	pubKey := make([]byte, PubKeyLen)
	copy(pubKey, resp[:PubKeyLen])

	return &AddressResult{
		PublicKey: pubKey,
		Address:   string(resp[PubKeyLen:]),
	}, nil
}

// parseSignatureResponse decodes a signing reply, which is nothing but the
// raw signature bytes once the transport layer has stripped the status word.
func parseSignatureResponse(resp []byte) ([]byte, error) {

	if len(resp) == 0 {
		return nil, ErrLengthZero
	}

	sig := make([]byte, len(resp))
	copy(sig, resp)

	return sig, nil
}
