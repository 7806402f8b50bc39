package bitio

import "math/bits"

// BitsRequired returns the number of bits needed to range-code any value in
// [min,max]: 0 if min==max, otherwise ceil(log2(max-min+1)). Computed in
// 64-bit unsigned arithmetic so it never overflows; when max-min is
// math.MaxUint64 the answer is 64.
func BitsRequired(min, max uint64) int {
	diff := max - min
	if diff == 0 {
		return 0
	}
	return bits.Len64(diff)
}

// writeRanged64 range-codes v-min in BitsRequired(min,max) bits. All three
// are compared/subtracted as raw uint64 bit patterns, which is exact modular
// arithmetic even when the caller's true type is signed: a signed
// min<=v<=max implies uint64(v)-uint64(min) (mod 2^64) equals the true
// nonnegative offset, and likewise for the declared range width.
func writeRanged64(w *Writer, v, min, max uint64, inRange bool) bool {
	if !inRange {
		panic(ErrInvalidRange)
	}
	n := BitsRequired(min, max)
	return w.WriteUlongBits(v-min, n)
}

func readRanged64(r *Reader, min, max uint64) (uint64, bool) {
	n := BitsRequired(min, max)
	off, ok := r.ReadUlongBits(n)
	if !ok {
		return 0, false
	}
	return min + off, true
}

// WriteU8 range-codes v in [min,max].
func (w *Writer) WriteU8(v, min, max uint8) bool {
	if min > max || v < min || v > max {
		panic(ErrInvalidRange)
	}
	return writeRanged64(w, uint64(v), uint64(min), uint64(max), true)
}

// ReadU8 decodes a value written by WriteU8 with the same [min,max].
func (r *Reader) ReadU8(min, max uint8) (uint8, bool) {
	v, ok := readRanged64(r, uint64(min), uint64(max))
	return uint8(v), ok
}

// WriteI8 range-codes v in [min,max].
func (w *Writer) WriteI8(v, min, max int8) bool {
	if min > max || v < min || v > max {
		panic(ErrInvalidRange)
	}
	return writeRanged64(w, uint64(int64(v)), uint64(int64(min)), uint64(int64(max)), true)
}

// ReadI8 decodes a value written by WriteI8 with the same [min,max].
func (r *Reader) ReadI8(min, max int8) (int8, bool) {
	v, ok := readRanged64(r, uint64(int64(min)), uint64(int64(max)))
	return int8(int64(v)), ok
}

// WriteU16 range-codes v in [min,max].
func (w *Writer) WriteU16(v, min, max uint16) bool {
	if min > max || v < min || v > max {
		panic(ErrInvalidRange)
	}
	return writeRanged64(w, uint64(v), uint64(min), uint64(max), true)
}

// ReadU16 decodes a value written by WriteU16 with the same [min,max].
func (r *Reader) ReadU16(min, max uint16) (uint16, bool) {
	v, ok := readRanged64(r, uint64(min), uint64(max))
	return uint16(v), ok
}

// WriteI16 range-codes v in [min,max].
func (w *Writer) WriteI16(v, min, max int16) bool {
	if min > max || v < min || v > max {
		panic(ErrInvalidRange)
	}
	return writeRanged64(w, uint64(int64(v)), uint64(int64(min)), uint64(int64(max)), true)
}

// ReadI16 decodes a value written by WriteI16 with the same [min,max].
func (r *Reader) ReadI16(min, max int16) (int16, bool) {
	v, ok := readRanged64(r, uint64(int64(min)), uint64(int64(max)))
	return int16(int64(v)), ok
}

// WriteU32 range-codes v in [min,max].
func (w *Writer) WriteU32(v, min, max uint32) bool {
	if min > max || v < min || v > max {
		panic(ErrInvalidRange)
	}
	return writeRanged64(w, uint64(v), uint64(min), uint64(max), true)
}

// ReadU32 decodes a value written by WriteU32 with the same [min,max].
func (r *Reader) ReadU32(min, max uint32) (uint32, bool) {
	v, ok := readRanged64(r, uint64(min), uint64(max))
	return uint32(v), ok
}

// WriteI32 range-codes v in [min,max].
func (w *Writer) WriteI32(v, min, max int32) bool {
	if min > max || v < min || v > max {
		panic(ErrInvalidRange)
	}
	return writeRanged64(w, uint64(int64(v)), uint64(int64(min)), uint64(int64(max)), true)
}

// ReadI32 decodes a value written by WriteI32 with the same [min,max].
func (r *Reader) ReadI32(min, max int32) (int32, bool) {
	v, ok := readRanged64(r, uint64(int64(min)), uint64(int64(max)))
	return int32(int64(v)), ok
}

// WriteU64 range-codes v in [min,max].
func (w *Writer) WriteU64(v, min, max uint64) bool {
	if min > max || v < min || v > max {
		panic(ErrInvalidRange)
	}
	return writeRanged64(w, v, min, max, true)
}

// ReadU64 decodes a value written by WriteU64 with the same [min,max].
func (r *Reader) ReadU64(min, max uint64) (uint64, bool) {
	return readRanged64(r, min, max)
}

// WriteI64 range-codes v in [min,max].
func (w *Writer) WriteI64(v, min, max int64) bool {
	if min > max || v < min || v > max {
		panic(ErrInvalidRange)
	}
	return writeRanged64(w, uint64(v), uint64(min), uint64(max), true)
}

// ReadI64 decodes a value written by WriteI64 with the same [min,max].
func (r *Reader) ReadI64(min, max int64) (int64, bool) {
	v, ok := readRanged64(r, uint64(min), uint64(max))
	return int64(v), ok
}
