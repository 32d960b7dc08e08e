package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBipPath(t *testing.T) {

	pathBytes, err := EncodeBipPath("m/44'/626'/0'/0/0")
	require.NoError(t, err)

	// Depth byte, then 44|H, 626|H, 0|H, 0, 0 big-endian
	assert.Equal(t, []byte{
		0x05,
		0x80, 0x00, 0x00, 0x2c,
		0x80, 0x00, 0x02, 0x72,
		0x80, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}, pathBytes)
}

func TestEncodeBipPathModifiers(t *testing.T) {

	upper, err := EncodeBipPath("m/44H/626H/0H/0/0")
	require.NoError(t, err)

	apos, err := EncodeBipPath("m/44'/626'/0'/0/0")
	require.NoError(t, err)

	assert.Equal(t, apos, upper)
}

func TestEncodeBipPathWrongDepth(t *testing.T) {

	_, err := EncodeBipPath("m/44'/626'/0'/0")
	assert.Error(t, err)

	_, err = EncodeBipPath("")
	assert.Error(t, err)
}

func TestEncodeBipPathInvalidIndex(t *testing.T) {

	// 0x80000000 collides with the hardened marker
	_, err := EncodeBipPath("m/44'/626'/0'/0/2147483648")
	assert.Error(t, err)
}

func TestDecodeBipPathRoundTrip(t *testing.T) {

	pathBytes, err := EncodeBipPath("m/44'/626'/2'/0/7")
	require.NoError(t, err)

	path, err := DecodeBipPath(pathBytes)
	require.NoError(t, err)

	assert.Equal(t, "/44'/626'/2'/0/7", path)
}

func TestDecodeBipPathTooShort(t *testing.T) {

	_, err := DecodeBipPath([]byte{})
	assert.Error(t, err)

	_, err = DecodeBipPath([]byte{5, 0, 0})
	assert.Error(t, err)
}
