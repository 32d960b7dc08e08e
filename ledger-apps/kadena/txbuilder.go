package kadena

import (
	"encoding/base64"
	"fmt"

	"github.com/pkg/errors"

	ledger "github.com/bakingbacon/goledger-kadena"
)

// The functions below rebuild, host side, the exact command text the firmware
// crafts on the device from the same transfer fields. Both sides hash this
// text and the signature is only valid for the hash the device produced, so
// key order, quoting and punctuation are a frozen wire contract. Treat the
// templates as golden strings: any edit here must match a firmware release.
//
// Amount is emitted unquoted in both the invocation and the capability
// argument list; it is a Pact decimal literal, which is why it always
// carries a decimal point. creationTime is the one bare number in meta.

const defaultModule = "coin"

// moduleQualifier selects the contract the transfer functions and
// capabilities are resolved under: the default module when no namespace was
// given, otherwise the caller's namespace.module.
func moduleQualifier(nf normalizedFields) string {

	if nf.namespace == "" {
		return defaultModule
	}
	return nf.namespace + "." + nf.module
}

// buildCommand dispatches on the transaction type tag
func buildCommand(txType uint8, nf normalizedFields, pubKey string) (string, error) {

	switch txType {
	case TxTransfer:
		return buildTransferCommand(nf, pubKey), nil
	case TxTransferCreate:
		return buildTransferCreateCommand(nf, pubKey), nil
	case TxTransferCrossChain:
		return buildTransferCrossChainCommand(nf, pubKey), nil
	}

	return "", errors.Errorf("Unknown transaction type %d", txType)
}

func buildTransferCommand(nf normalizedFields, pubKey string) string {

	q := moduleQualifier(nf)

	return fmt.Sprintf(
		`{"networkId":"%s","payload":{"exec":{"data":{},"code":"(%s.transfer \"%s\" \"%s\" %s)"}},"signers":[{"pubKey":"%s","clist":[{"args":["%s","%s",%s],"name":"%s.TRANSFER"},{"args":[],"name":"%s.GAS"}]}],"meta":{"creationTime":%s,"ttl":"%s","gasLimit":"%s","chainId":"%s","gasPrice":"%s","sender":"%s"},"nonce":"%s"}`,
		nf.network,
		q, pubKey, nf.recipient, nf.amount,
		pubKey,
		pubKey, nf.recipient, nf.amount, q,
		q,
		nf.creationTime, nf.ttl, nf.gasLimit, nf.chainID, nf.gasPrice, pubKey,
		nf.nonce,
	)
}

func buildTransferCreateCommand(nf normalizedFields, pubKey string) string {

	q := moduleQualifier(nf)

	return fmt.Sprintf(
		`{"networkId":"%s","payload":{"exec":{"data":{"ks":{"keys":["%s"],"pred":"keys-all"}},"code":"(%s.transfer-create \"%s\" \"%s\" (read-keyset \"ks\") %s)"}},"signers":[{"pubKey":"%s","clist":[{"args":["%s","%s",%s],"name":"%s.TRANSFER"},{"args":[],"name":"%s.GAS"}]}],"meta":{"creationTime":%s,"ttl":"%s","gasLimit":"%s","chainId":"%s","gasPrice":"%s","sender":"%s"},"nonce":"%s"}`,
		nf.network,
		nf.recipient,
		q, pubKey, nf.recipient, nf.amount,
		pubKey,
		pubKey, nf.recipient, nf.amount, q,
		q,
		nf.creationTime, nf.ttl, nf.gasLimit, nf.chainID, nf.gasPrice, pubKey,
		nf.nonce,
	)
}

func buildTransferCrossChainCommand(nf normalizedFields, pubKey string) string {

	q := moduleQualifier(nf)

	return fmt.Sprintf(
		`{"networkId":"%s","payload":{"exec":{"data":{"ks":{"keys":["%s"],"pred":"keys-all"}},"code":"(%s.transfer-crosschain \"%s\" \"%s\" (read-keyset \"ks\") \"%s\" %s)"}},"signers":[{"pubKey":"%s","clist":[{"args":["%s","%s",%s,"%s"],"name":"%s.TRANSFER_XCHAIN"},{"args":[],"name":"%s.GAS"}]}],"meta":{"creationTime":%s,"ttl":"%s","gasLimit":"%s","chainId":"%s","gasPrice":"%s","sender":"%s"},"nonce":"%s"}`,
		nf.network,
		nf.recipient,
		q, pubKey, nf.recipient, nf.recipientChainID, nf.amount,
		pubKey,
		pubKey, nf.recipient, nf.amount, nf.recipientChainID, q,
		q,
		nf.creationTime, nf.ttl, nf.gasLimit, nf.chainID, nf.gasPrice, pubKey,
		nf.nonce,
	)
}

// commandHash derives the canonical transaction id of a command: the 32 byte
// blake2b digest of its text, base64url encoded without padding (43 chars).
func commandHash(command string) (string, error) {

	digest, err := ledger.Blake2b([]byte(command), 32)
	if err != nil {
		return "", errors.Wrap(err, "Unable to hash command")
	}

	return base64.RawURLEncoding.EncodeToString(digest), nil
}
