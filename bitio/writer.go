package bitio

import "encoding/binary"

// Writer packs values bit by bit into an owned byte buffer. The zero value
// is not usable; construct with NewWriter.
//
// Writer exclusively owns its backing buffer. Every public write either
// completes in full or leaves scratch, scratchBits, and wordIndex (and the
// buffer) byte-for-byte unchanged — see bitio's package doc for the
// atomicity contract.
type Writer struct {
	buf []byte

	// scratch accumulates bits not yet flushed to buf. Invariant: after every
	// public operation returns, scratchBits < 32 (the low 32 bits are
	// flushed to buf as soon as 32 bits accumulate).
	scratch     uint64
	scratchBits int
	wordIndex   int // byte offset of the next word flush in buf
}

// NewWriter returns a Writer over buf. Writes are bounded by SpaceBits, so
// every bit of buf can be used and the scratch-flush loop never writes past
// the end. The Writer takes ownership of buf's contents from index 0.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Reset rewinds w to the start of buf (or a new buffer, if provided) without
// reallocating, so the Writer can be reused across messages.
func (w *Writer) Reset(buf []byte) {
	if buf != nil {
		w.buf = buf
	}
	w.scratch = 0
	w.scratchBits = 0
	w.wordIndex = 0
}

// BitPosition returns the number of bits written so far.
func (w *Writer) BitPosition() int64 {
	return int64(w.wordIndex)*8 + int64(w.scratchBits)
}

// SpaceBits returns the number of bits that can still be written before the
// buffer is full, i.e. len(buf)*8 - BitPosition(); callers compare it
// against a required bit count.
func (w *Writer) SpaceBits() int64 {
	return int64(32-w.scratchBits) + int64(len(w.buf)-w.wordIndex-4)*8
}

// flushWord copies the low 32 bits of scratch to buf at wordIndex in
// little-endian byte order and advances wordIndex, restoring
// scratchBits < 32. Called in a loop by rawWriteBits whenever 32 bits have
// accumulated.
func (w *Writer) flushWord() {
	binary.LittleEndian.PutUint32(w.buf[w.wordIndex:w.wordIndex+4], uint32(w.scratch))
	w.wordIndex += 4
	w.scratch >>= 32
	w.scratchBits -= 32
}

// rawWriteBits packs the low n bits of v into scratch and flushes whole words
// as they accumulate. Callers must have already verified SpaceBits() >= n;
// rawWriteBits never checks space and always succeeds.
func (w *Writer) rawWriteBits(v uint32, n int) {
	if n == 0 {
		return
	}
	v &= maskU32(n)
	w.scratch |= uint64(v) << w.scratchBits
	w.scratchBits += n
	for w.scratchBits >= 32 {
		w.flushWord()
	}
}

// WriteUintBits packs the low n bits of v, n in [0,32]. n=0 is a no-op that
// always succeeds. Returns false (state unchanged) if there is not enough
// buffer space; panics if n is out of range.
func (w *Writer) WriteUintBits(v uint32, n int) bool {
	if n < 0 || n > 32 {
		panic(ErrInvalidBitWidth)
	}
	if n == 0 {
		return true
	}
	if w.SpaceBits() < int64(n) {
		return false
	}
	w.rawWriteBits(v, n)
	return true
}

// WriteUshortBits packs the low n bits of v, n in [0,16].
func (w *Writer) WriteUshortBits(v uint16, n int) bool {
	if n < 0 || n > 16 {
		panic(ErrInvalidBitWidth)
	}
	return w.WriteUintBits(uint32(v), n)
}

// WriteByteBits packs the low n bits of v, n in [0,8].
func (w *Writer) WriteByteBits(v byte, n int) bool {
	if n < 0 || n > 8 {
		panic(ErrInvalidBitWidth)
	}
	return w.WriteUintBits(uint32(v), n)
}

// WriteBool packs a single bit: true as 1, false as 0.
func (w *Writer) WriteBool(v bool) bool {
	if v {
		return w.WriteUintBits(1, 1)
	}
	return w.WriteUintBits(0, 1)
}

// WriteUlongBits packs the low n bits of v, n in [0,64]. Implemented as two
// uint writes (lower 32 bits, then upper bits), pre-checked as a single unit
// so a failure never writes the lower half without the upper half.
func (w *Writer) WriteUlongBits(v uint64, n int) bool {
	if n < 0 || n > 64 {
		panic(ErrInvalidBitWidth)
	}
	if n == 0 {
		return true
	}
	if w.SpaceBits() < int64(n) {
		return false
	}
	lower := n
	if lower > 32 {
		lower = 32
	}
	upper := n - 32
	if upper < 0 {
		upper = 0
	}
	w.rawWriteBits(uint32(v), lower)
	if upper > 0 {
		w.rawWriteBits(uint32(v>>32), upper)
	}
	return true
}

// Segment returns the bytes written so far, padded with zero bits to the
// next byte boundary, without mutating w. The returned slice is a fresh copy
// safe to hand to a transport. This view is a byte-boundary snapshot only:
// it is not valid input for further bit-level reading across multiple
// writers unless messages were appended with WriteBytesBitSize to avoid
// padding between them.
func (w *Writer) Segment() []byte {
	n := w.wordIndex
	if w.scratchBits > 0 {
		n += (w.scratchBits + 7) / 8
	}
	out := make([]byte, n)
	copy(out, w.buf[:w.wordIndex])
	if w.scratchBits > 0 {
		tail := out[w.wordIndex:n]
		rem := w.scratch
		for i := range tail {
			tail[i] = byte(rem)
			rem >>= 8
		}
	}
	return out
}

func maskU32(n int) uint32 {
	if n >= 32 {
		return ^uint32(0)
	}
	return (uint32(1) << n) - 1
}

func maskU64(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}
