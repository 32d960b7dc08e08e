package kadena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeField(t *testing.T) {

	assert.Equal(t, []byte{3, 'a', 'b', 'c'}, encodeField("abc"))
	assert.Equal(t, []byte{0}, encodeField(""))
}

func TestAssemblePayloadOrder(t *testing.T) {

	nf := normalizedFields{
		recipient:        "r",
		recipientChainID: "1",
		network:          "net",
		amount:           "2.0",
		namespace:        "ns",
		module:           "mod",
		gasPrice:         "gp",
		gasLimit:         "gl",
		creationTime:     "ct",
		chainID:          "0",
		nonce:            "n",
		ttl:              "t",
	}

	payload := assemblePayload(TxTransferCreate, nf)

	expected := []byte{TxTransferCreate}
	for _, f := range []string{"r", "1", "net", "2.0", "ns", "mod", "gp", "gl", "ct", "0", "n", "t"} {
		expected = append(expected, byte(len(f)))
		expected = append(expected, f...)
	}

	assert.Equal(t, expected, payload)
}

func TestAssemblePayloadFromNormalized(t *testing.T) {

	nf, err := normalizeTransfer(validParams(), 0, false)
	require.NoError(t, err)

	payload := assemblePayload(TxTransfer, nf)

	// Tag byte plus one length byte per field plus the field bytes
	wantLen := 1 +
		12 +
		len(nf.recipient) + len(nf.recipientChainID) + len(nf.network) +
		len(nf.amount) + len(nf.namespace) + len(nf.module) +
		len(nf.gasPrice) + len(nf.gasLimit) + len(nf.creationTime) +
		len(nf.chainID) + len(nf.nonce) + len(nf.ttl)

	assert.Equal(t, wantLen, len(payload))
	assert.Equal(t, TxTransfer, payload[0])

	// First unit is the recipient key
	assert.Equal(t, byte(64), payload[1])
	assert.Equal(t, nf.recipient, string(payload[2:66]))
}
