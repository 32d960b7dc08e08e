package kadena

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRecipient = "9790d119589a26114e1a42d92598b3f632551c566819ec48e0e8c54dae6ebb42"

func validParams() TransferTxParams {
	return TransferTxParams{
		Recipient:    testRecipient,
		Amount:       "10",
		ChainID:      0,
		Network:      "testnet04",
		CreationTime: 1665647810,
	}
}

func TestNormalizeDefaults(t *testing.T) {

	nf, err := normalizeTransfer(validParams(), 0, false)
	require.NoError(t, err)

	assert.Equal(t, testRecipient, nf.recipient)
	assert.Equal(t, "0", nf.recipientChainID)
	assert.Equal(t, "10.0", nf.amount)
	assert.Equal(t, "1.0e-6", nf.gasPrice)
	assert.Equal(t, "2300", nf.gasLimit)
	assert.Equal(t, "600", nf.ttl)
	assert.Equal(t, "", nf.nonce)
	assert.Equal(t, "1665647810", nf.creationTime)
	assert.Equal(t, "0", nf.chainID)
}

func TestNormalizeRecipientPrefix(t *testing.T) {

	p := validParams()
	p.Recipient = "k:" + testRecipient

	nf, err := normalizeTransfer(p, 0, false)
	require.NoError(t, err)
	assert.Equal(t, testRecipient, nf.recipient)
}

func TestNormalizeRecipientFormat(t *testing.T) {

	for _, recipient := range []string{
		testRecipient[:63],        // too short
		testRecipient + "a",       // too long
		"g" + testRecipient[1:],   // not hex
		"k:" + testRecipient[:63], // prefixed and too short
		"",
	} {
		p := validParams()
		p.Recipient = recipient

		_, err := normalizeTransfer(p, 0, false)
		assert.ErrorIs(t, err, ErrRecipientFormat, "recipient %q", recipient)
	}
}

func TestNormalizeNamespaceModuleCoupling(t *testing.T) {

	p := validParams()
	p.Namespace = "free"

	_, err := normalizeTransfer(p, 0, false)
	assert.ErrorIs(t, err, ErrIncompleteModule)

	// Module alone is simply unused
	p = validParams()
	p.Module = "my-coin"
	_, err = normalizeTransfer(p, 0, false)
	assert.NoError(t, err)

	// Both set is a complete reference
	p.Namespace = "free"
	_, err = normalizeTransfer(p, 0, false)
	assert.NoError(t, err)
}

func TestNormalizeNumericFields(t *testing.T) {

	for _, tc := range []struct {
		field  string
		mutate func(*TransferTxParams)
	}{
		{"amount", func(p *TransferTxParams) { p.Amount = "ten" }},
		{"amount", func(p *TransferTxParams) { p.Amount = "" }},
		{"gasPrice", func(p *TransferTxParams) { p.GasPrice = "cheap" }},
		{"gasLimit", func(p *TransferTxParams) { p.GasLimit = "1x" }},
		{"ttl", func(p *TransferTxParams) { p.TTL = "soon" }},
	} {
		p := validParams()
		tc.mutate(&p)

		_, err := normalizeTransfer(p, 0, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), tc.field)
	}

	// Scientific notation is a value, not a typo
	p := validParams()
	p.GasPrice = "1.0e-6"
	_, err := normalizeTransfer(p, 0, false)
	assert.NoError(t, err)
}

func TestNormalizeAmountPassthrough(t *testing.T) {

	p := validParams()
	p.Amount = "5.25"

	nf, err := normalizeTransfer(p, 0, false)
	require.NoError(t, err)
	assert.Equal(t, "5.25", nf.amount)
}

func TestNormalizeLengthBudgets(t *testing.T) {

	p := validParams()
	p.Network = strings.Repeat("n", 21)

	_, err := normalizeTransfer(p, 0, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network")
	assert.Contains(t, err.Error(), "20")

	p = validParams()
	p.Nonce = strings.Repeat("x", 33)
	_, err = normalizeTransfer(p, 0, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonce")
}

func TestNormalizeCrossChain(t *testing.T) {

	// Same chain on both ends fails before anything is encoded
	_, err := normalizeTransfer(validParams(), 0, true)
	assert.ErrorIs(t, err, ErrSameChain)

	nf, err := normalizeTransfer(validParams(), 1, true)
	require.NoError(t, err)
	assert.Equal(t, "1", nf.recipientChainID)
}

func TestNormalizeZeroesRecipientChainForSameChainTx(t *testing.T) {

	// The firmware ignores the field outside cross-chain transfers and
	// expects a literal zero there
	nf, err := normalizeTransfer(validParams(), 7, false)
	require.NoError(t, err)
	assert.Equal(t, "0", nf.recipientChainID)
}

func TestNormalizeIsDeterministic(t *testing.T) {

	a, err := normalizeTransfer(validParams(), 0, false)
	require.NoError(t, err)

	b, err := normalizeTransfer(validParams(), 0, false)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
