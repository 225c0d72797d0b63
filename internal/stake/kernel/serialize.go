package kernel

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// hashWriter accumulates the little-endian serialization the reference
// client feeds to its hash streams.
type hashWriter struct {
	buf []byte
}

func newHashWriter(size int) *hashWriter {
	return &hashWriter{buf: make([]byte, 0, size)}
}

func (w *hashWriter) uint32(v uint32) *hashWriter {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
	return w
}

func (w *hashWriter) uint64(v uint64) *hashWriter {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
	return w
}

func (w *hashWriter) hash(h *chainhash.Hash) *hashWriter {
	w.buf = append(w.buf, h[:]...)
	return w
}

// sum returns the double SHA-256 of everything written so far.
func (w *hashWriter) sum() chainhash.Hash {
	return chainhash.DoubleHashH(w.buf)
}
