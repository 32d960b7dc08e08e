// Package kadena is a sub-module for the parent ledger package.
// This module provides an interface to the signing and address
// features of the Kadena Ledger application: blind signing of
// arbitrary blobs, hash signing, and the three device-crafted
// transfer variants (transfer, transfer-create, cross-chain).
package kadena

import (
	"encoding/base64"
	"encoding/hex"

	"github.com/pkg/errors"

	ledger "github.com/bakingbacon/goledger-kadena"
)

const (
	LEDGER_VENDOR    uint16 = 11415
	LEDGER_PRODUCTID uint16 = 1
	LEDGER_USAGEPAGE uint16 = 65440
	LEDGER_IFACENUM  uint16 = 0
)

var KADENA_CHANNEL = []byte{1, 1}

// Transport is the request/response channel to the device. Each Exchange
// sends one APDU (class byte fixed to CLA) and blocks for the reply, with
// device-reported status words already normalized into errors. It exists as
// an interface so signing logic can be exercised against a fake device.
type Transport interface {
	Exchange(ins, p1, p2 uint8, data []byte) ([]byte, error)
	Close()
}

// KadenaLedger drives the Kadena app over any Transport. The zero value is
// not usable; construct with Get or NewWithTransport.
type KadenaLedger struct {
	device Transport
}

// Use the HID library to establish a connection to the ledger device. The
// device will not appear to the USB subsystem until the ledger is unlocked
// by entering the PIN code
func Get() (*KadenaLedger, error) {

	dev, err := ledger.Get(LEDGER_VENDOR, LEDGER_PRODUCTID, LEDGER_IFACENUM, LEDGER_USAGEPAGE)
	if err != nil {
		return nil, err
	}

	return &KadenaLedger{
		device: &hidDevice{dev},
	}, nil
}

// NewWithTransport wires the driver to a caller-supplied device channel
func NewWithTransport(t Transport) *KadenaLedger {
	return &KadenaLedger{device: t}
}

// Instructs the transport to close device communications
func (l *KadenaLedger) Close() {
	l.device.Close()
}

// hidDevice adapts the parent package's HID session to the Transport
// interface: marshal one APDU, write it, read back the unwrapped reply.
type hidDevice struct {
	*ledger.Ledger
}

func (h *hidDevice) Exchange(ins, p1, p2 uint8, data []byte) ([]byte, error) {

	apdu := &KdApdu{
		ins,
		p1,
		p2,
		data,
	}

	if _, err := h.Write(apdu, KADENA_CHANNEL); err != nil {
		return nil, errors.Wrap(err, "Unable to write APDU")
	}

	return h.Read(KADENA_CHANNEL)
}

// Returns the version of the currently open app
// Ex: 1.0.2
func (l *KadenaLedger) GetVersion() (*VersionInfo, error) {

	resp, err := l.device.Exchange(GetVersion, 0x00, 0x00, nil)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to get version")
	}

	if len(resp) < 4 {
		return nil, ErrShortResponse
	}

	return &VersionInfo{
		TestMode: resp[0] != 0,
		Major:    resp[1],
		Minor:    resp[2],
		Patch:    resp[3],
	}, nil
}

// Returns the public key and account address derived for the given BIP32
// path (ie: "m/44'/626'/0'/0/0") without any user interaction
func (l *KadenaLedger) GetAddress(path string) (*AddressResult, error) {
	return l.getAddr(path, P1RetrieveOnly)
}

// Prompts the user to confirm the account address on the device screen
// before returning it
func (l *KadenaLedger) GetAddressWithPrompt(path string) (*AddressResult, error) {
	return l.getAddr(path, P1ShowAddress)
}

// Internal helper function to retrieve the public key from the device
func (l *KadenaLedger) getAddr(path string, p1 uint8) (*AddressResult, error) {

	bipPath, err := ledger.EncodeBipPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "Invalid derivation path")
	}

	resp, err := l.device.Exchange(GetAddr, p1, 0x00, bipPath)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to get address")
	}

	return parseAddressResponse(resp)
}

// Sign asks the device to sign an arbitrary transaction blob. The device
// parses and displays what it can; the caller gets back the raw signature.
func (l *KadenaLedger) Sign(path string, blob []byte) (*SignResult, error) {

	bipPath, err := ledger.EncodeBipPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "Invalid derivation path")
	}

	resp, err := l.exchangeChunks(Sign, bipPath, blob)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to sign")
	}

	sig, err := parseSignatureResponse(resp)
	if err != nil {
		return nil, err
	}

	return &SignResult{Signature: sig}, nil
}

// SignHash asks the device to sign a pre-computed 32 byte digest. The device
// cannot display what the hash commits to, so the firmware warns the user
// before accepting. Use ParseHashInput to accept hex or base64 text forms.
func (l *KadenaLedger) SignHash(path string, hash []byte) (*SignResult, error) {

	if len(hash) != HashLen {
		return nil, errors.Errorf("Hash must be exactly %d bytes; got %d", HashLen, len(hash))
	}

	bipPath, err := ledger.EncodeBipPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "Invalid derivation path")
	}

	resp, err := l.exchangeChunks(SignHash, bipPath, hash)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to sign hash")
	}

	sig, err := parseSignatureResponse(resp)
	if err != nil {
		return nil, err
	}

	return &SignResult{Signature: sig}, nil
}

// ParseHashInput decodes a digest supplied as hex, standard base64 or
// base64url text into its raw bytes
func ParseHashInput(hash string) ([]byte, error) {

	if b, err := hex.DecodeString(hash); err == nil {
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(hash); err == nil {
		return b, nil
	}
	if b, err := base64.RawURLEncoding.DecodeString(hash); err == nil {
		return b, nil
	}

	return nil, errors.New("Hash is not valid hex or base64")
}

// SignTransferTx signs a same-chain transfer to an existing account
func (l *KadenaLedger) SignTransferTx(path string, params TransferTxParams) (*SignTransferResult, error) {
	return l.signTransfer(TxTransfer, path, params, 0)
}

// SignTransferCreateTx signs a transfer that also creates the recipient
// account, guarded by a keyset holding the recipient key
func (l *KadenaLedger) SignTransferCreateTx(path string, params TransferTxParams) (*SignTransferResult, error) {
	return l.signTransfer(TxTransferCreate, path, params, 0)
}

// SignTransferCrossChainTx signs a transfer whose recipient lives on a
// different chain than the sender
func (l *KadenaLedger) SignTransferCrossChainTx(path string, params TransferCrossChainTxParams) (*SignTransferResult, error) {
	return l.signTransfer(TxTransferCrossChain, path, params.TransferTxParams, params.RecipientChainID)
}

// signTransfer is the shared pipeline of the three transfer variants:
// validate and normalize, fetch the signer key for the command text,
// assemble the binary payload, run the chunked exchange, then rebuild the
// command the firmware signed and derive its transaction id. Validation
// failures abort before any packet reaches the device.
func (l *KadenaLedger) signTransfer(txType uint8, path string, params TransferTxParams, recipientChainID uint32) (*SignTransferResult, error) {

	nf, err := normalizeTransfer(params, recipientChainID, txType == TxTransferCrossChain)
	if err != nil {
		return nil, err
	}

	bipPath, err := ledger.EncodeBipPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "Invalid derivation path")
	}

	// The command text embeds the signer's own key as sender; fetch it
	// without prompting. The transfer itself is confirmed on screen.
	addr, err := l.getAddr(path, P1RetrieveOnly)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to fetch signer key")
	}
	pubKey := hex.EncodeToString(addr.PublicKey)

	payload := assemblePayload(txType, nf)

	resp, err := l.exchangeChunks(SignTransferTx, bipPath, payload)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to sign transfer")
	}

	sig, err := parseSignatureResponse(resp)
	if err != nil {
		return nil, err
	}

	command, err := buildCommand(txType, nf, pubKey)
	if err != nil {
		return nil, err
	}

	hash, err := commandHash(command)
	if err != nil {
		return nil, err
	}

	return &SignTransferResult{
		Signature: sig,
		Command:   command,
		Hash:      hash,
	}, nil
}
