package kadena

import "fmt"

// TransferTxParams describes a simple same-chain transfer to be signed by
// the device. Optional string fields may be left empty; CreationTime 0 means
// "now". Amount may be integral ("5") or decimal ("5.25"); it is normalized
// to always carry a decimal point before it reaches the device, because a
// bare integer literal would change type inside the Pact interpreter.
type TransferTxParams struct {
	Recipient    string // 64 hex chars, optionally "k:" prefixed
	Amount       string
	ChainID      uint32 // sender chain
	Network      string // ie: "mainnet01", "testnet04"
	Namespace    string // optional; requires Module when set
	Module       string // optional custom transfer module
	GasPrice     string // optional, default "1.0e-6"
	GasLimit     string // optional, default "2300"
	CreationTime int64  // unix seconds; 0 = current time
	TTL          string // optional, default "600"
	Nonce        string // optional, default ""
}

// TransferCrossChainTxParams extends TransferTxParams with the chain the
// recipient account lives on. RecipientChainID must differ from ChainID.
type TransferCrossChainTxParams struct {
	TransferTxParams
	RecipientChainID uint32
}

// VersionInfo is the firmware version of the open app
type VersionInfo struct {
	TestMode bool
	Major    uint8
	Minor    uint8
	Patch    uint8
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AddressResult is the decoded response to a GetAddr instruction
type AddressResult struct {
	PublicKey []byte // raw 32 byte ed25519 key
	Address   string // account name as rendered by the device (ie: "k:<hex>")
}

// SignResult carries the raw signature of a blind signing operation
type SignResult struct {
	Signature []byte
}

// SignTransferResult carries the signature of a transfer operation together
// with the canonical command the device signed and its base64url tx id. The
// command text is rebuilt host-side from the same inputs the firmware used;
// callers attach Signature to Command and submit it under Hash.
type SignTransferResult struct {
	Signature []byte
	Command   string
	Hash      string
}

// normalizedFields is a TransferTxParams after validation: prefix stripped,
// defaults applied, every field in the exact textual form that goes on the
// wire and into the command document.
type normalizedFields struct {
	recipient        string
	recipientChainID string
	network          string
	amount           string
	namespace        string
	module           string
	gasPrice         string
	gasLimit         string
	creationTime     string
	chainID          string
	nonce            string
	ttl              string
}
