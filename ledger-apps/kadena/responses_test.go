package kadena

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddressResponse(t *testing.T) {

	key := bytes.Repeat([]byte{0x11}, PubKeyLen)
	resp := append(append([]byte{}, key...), "k:1111"...)

	addr, err := parseAddressResponse(resp)
	require.NoError(t, err)

	assert.Equal(t, key, addr.PublicKey)
	assert.Equal(t, "k:1111", addr.Address)
}

func TestParseAddressResponseTooShort(t *testing.T) {

	_, err := parseAddressResponse(make([]byte, PubKeyLen-1))
	assert.ErrorIs(t, err, ErrShortResponse)
}

func TestParseAddressResponseOwnsMemory(t *testing.T) {

	resp := bytes.Repeat([]byte{0x22}, PubKeyLen)

	addr, err := parseAddressResponse(resp)
	require.NoError(t, err)

	// Mutating the transport buffer must not reach into the result
	resp[0] = 0xff
	assert.Equal(t, byte(0x22), addr.PublicKey[0])
}

func TestParseSignatureResponse(t *testing.T) {

	sig, err := parseSignatureResponse([]byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, sig)

	_, err = parseSignatureResponse(nil)
	assert.ErrorIs(t, err, ErrLengthZero)
}
