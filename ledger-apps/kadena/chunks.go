package kadena

import (
	"github.com/pkg/errors"

	log "github.com/sirupsen/logrus"
)

// exchangeChunks drives a multi-packet signing exchange: the serialized bip
// path and the payload are concatenated, split into ChunkSize packets, and
// each packet is sent in turn with P1 = 1-based chunk index and P2 = total
// chunk count. The firmware accumulates the packets and answers the last one
// with the signature, so only the final response is returned; every
// intermediate response is still awaited so a device error (ie: the user
// rejecting on screen) aborts the rest of the sequence immediately. There is
// no retry here; a failed sequence leaves no device state behind.
func (l *KadenaLedger) exchangeChunks(ins uint8, bipPath []byte, payload []byte) ([]byte, error) {

	blob := make([]byte, 0, len(bipPath)+len(payload))
	blob = append(blob, bipPath...)
	blob = append(blob, payload...)

	chunks := splitChunks(blob, ChunkSize)
	chunkNum := len(chunks)

	var resp []byte

	for i, chunk := range chunks {

		log.WithFields(log.Fields{
			"Ins": ins, "Chunk": i + 1, "Of": chunkNum, "Bytes": len(chunk),
		}).Debug("Chunk dispatch")

		var err error
		resp, err = l.device.Exchange(ins, uint8(i+1), uint8(chunkNum), chunk)
		if err != nil {
			return nil, errors.Wrapf(err, "Chunk %d/%d failed", i+1, chunkNum)
		}
	}

	return resp, nil
}

// splitChunks slices blob into pieces of at most size bytes. An empty blob
// still yields one empty chunk so the exchange always sends something.
func splitChunks(blob []byte, size int) [][]byte {

	var chunks [][]byte

	for offset := 0; offset < len(blob); offset += size {
		end := offset + size
		if end > len(blob) {
			end = len(blob)
		}
		chunks = append(chunks, blob[offset:end])
	}

	if len(chunks) == 0 {
		chunks = append(chunks, []byte{})
	}

	return chunks
}
