package bitio

// Fixed string capacities, matching Unity's FixedStringNBytes convention:
// N total bytes minus a 3-byte reserved header leaves N-3 usable payload
// bytes. On the wire only the u16 length prefix and the actual payload
// bytes are written — the capacity only bounds how long s may be, it does
// not pad the wire representation.
const (
	FixedString32  = 29
	FixedString64  = 61
	FixedString128 = 125
	FixedString512 = 509
)

// WriteFixedString writes s as a u16 length prefix followed by its raw
// bytes. Panics if len(s) exceeds capacity (a programming error: the caller
// chose the wrong fixed-string type for its data). Returns false (state
// unchanged) if the buffer lacks room for the prefix and payload together.
func (w *Writer) WriteFixedString(s string, capacity int) bool {
	if len(s) > capacity {
		panic(ErrInvalidRange)
	}
	total := int64(16 + len(s)*8)
	if w.SpaceBits() < total {
		return false
	}
	w.rawWriteBits(uint32(len(s)), 16)
	for i := 0; i < len(s); i++ {
		w.rawWriteBits(uint32(s[i]), 8)
	}
	return true
}

// ReadFixedString reads a value written by WriteFixedString with the same
// capacity. A length prefix exceeding capacity is treated as malformed
// input, not a programming error: it fails rather than panicking, leaving
// the Reader unchanged. Peeks the length prefix before committing to the
// payload read so a short buffer never leaves the Reader mid-field.
func (r *Reader) ReadFixedString(capacity int) (string, bool) {
	snap := r.snapshot()
	n, ok := r.ReadUshortBits(16)
	if !ok {
		return "", false
	}
	if int(n) > capacity {
		r.restore(snap)
		return "", false
	}
	b, ok := r.ReadBytes(int(n))
	if !ok {
		r.restore(snap)
		return "", false
	}
	return string(b), true
}

// WriteFixedString32 writes s, which must be at most FixedString32 bytes.
func (w *Writer) WriteFixedString32(s string) bool { return w.WriteFixedString(s, FixedString32) }

// ReadFixedString32 reads a value written by WriteFixedString32.
func (r *Reader) ReadFixedString32() (string, bool) { return r.ReadFixedString(FixedString32) }

// WriteFixedString64 writes s, which must be at most FixedString64 bytes.
func (w *Writer) WriteFixedString64(s string) bool { return w.WriteFixedString(s, FixedString64) }

// ReadFixedString64 reads a value written by WriteFixedString64.
func (r *Reader) ReadFixedString64() (string, bool) { return r.ReadFixedString(FixedString64) }

// WriteFixedString128 writes s, which must be at most FixedString128 bytes.
func (w *Writer) WriteFixedString128(s string) bool { return w.WriteFixedString(s, FixedString128) }

// ReadFixedString128 reads a value written by WriteFixedString128.
func (r *Reader) ReadFixedString128() (string, bool) { return r.ReadFixedString(FixedString128) }

// WriteFixedString512 writes s, which must be at most FixedString512 bytes.
func (w *Writer) WriteFixedString512(s string) bool { return w.WriteFixedString(s, FixedString512) }

// ReadFixedString512 reads a value written by WriteFixedString512.
func (r *Reader) ReadFixedString512() (string, bool) { return r.ReadFixedString(FixedString512) }
