package kadena

const (
	CLA uint8 = 0x00 // Always the same for every APDU call

	// APDU Instructions understood by the Kadena app firmware
	GetVersion     uint8 = 0x00 // Get version information for the open app
	GetAddr        uint8 = 0x01 // Get the public key / account address for a path
	Sign           uint8 = 0x02 // Sign an arbitrary transaction blob
	SignHash       uint8 = 0x03 // Sign a pre-computed 32 byte hash
	SignTransferTx uint8 = 0x04 // Sign a device-crafted transfer transaction

	// P1 values for GetAddr
	P1RetrieveOnly uint8 = 0x00 // Return the address without user interaction
	P1ShowAddress  uint8 = 0x01 // Also display the address on the device screen

	// ChunkSize is the largest CDATA payload the firmware buffers per packet
	ChunkSize = 250

	// PubKeyLen is the size of the ed25519 public key that leads every
	// address response
	PubKeyLen = 32

	// HashLen is the only input size SignHash accepts
	HashLen = 32
)

// Transaction type tags, first byte of a transfer payload. The firmware
// parses the remaining fields identically for all three and branches on
// this tag when it crafts the command.
const (
	TxTransfer           uint8 = 0
	TxTransferCreate     uint8 = 1
	TxTransferCrossChain uint8 = 2
)

// Per-field character budgets of the firmware's transfer parser buffers.
// Validation and payload encoding both consult this table; every budget is
// below 256 so a single length byte always suffices on the wire.
var fieldMaxLen = map[string]int{
	"recipient":         64, // exact, not merely a maximum
	"recipient_chainId": 2,
	"network":           20,
	"amount":            32,
	"namespace":         16,
	"module":            32,
	"gasPrice":          20,
	"gasLimit":          10,
	"creationTime":      12,
	"chainId":           2,
	"nonce":             32,
	"ttl":               20,
}

// This struct represents the data to be encoded and sent to the device.
// The following 2 components of the APDU are either static, or calculated
// at run-time:
//	CLA   uint8    // Instruction class (always 0x00)
//	LC    uint8    // Length of CDATA (Calculated during marshaling)
// KdApdu implements the ledger.Apdu interface
type KdApdu struct {
	INS   uint8   // Instruction code (0x00-0x04)
	P1    uint8   // Chunk index, or display flag for GetAddr
	P2    uint8   // Chunk count; 0 for single-packet instructions
	CDATA []uint8 // Variable length data depending on INS
}

// Encodes a KdApdu struct as needed by the Kadena Ledger app for writing to
// the device
func (a KdApdu) MarshalBinary() ([]byte, error) {

	var bbytes = make([]byte, 5)
	bbytes[0] = CLA
	bbytes[1] = a.INS
	bbytes[2] = a.P1
	bbytes[3] = a.P2

	// Length of CDATA
	bbytes[4] = byte(len(a.CDATA))

	// CDATA is variable length, so append/grow
	bbytes = append(bbytes, a.CDATA...)

	return bbytes, nil
}
