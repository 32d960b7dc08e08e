package kadena

// encodeField renders one text field as the firmware's length-prefixed unit:
// a single length byte followed by the raw bytes. Budgets in fieldMaxLen are
// all below 256, so the cast cannot truncate once validation has run.
func encodeField(value string) []byte {

	unit := make([]byte, 0, 1+len(value))
	unit = append(unit, byte(len(value)))
	unit = append(unit, value...)

	return unit
}

// assemblePayload builds the binary transfer payload the firmware parses:
// the transaction type tag, then every field as a length-prefixed unit in
// the firmware-defined order. The order is a wire contract; reordering the
// fields breaks device-side parsing.
func assemblePayload(txType uint8, nf normalizedFields) []byte {

	payload := []byte{txType}

	for _, value := range []string{
		nf.recipient,
		nf.recipientChainID,
		nf.network,
		nf.amount,
		nf.namespace,
		nf.module,
		nf.gasPrice,
		nf.gasLimit,
		nf.creationTime,
		nf.chainID,
		nf.nonce,
		nf.ttl,
	} {
		payload = append(payload, encodeField(value)...)
	}

	return payload
}
