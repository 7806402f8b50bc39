package bitio

import "math"

// WriteFloat writes v as an uncompressed 32-bit IEEE-754 value.
func (w *Writer) WriteFloat(v float32) bool {
	return w.WriteUintBits(math.Float32bits(v), 32)
}

// ReadFloat reads a value written by WriteFloat.
func (r *Reader) ReadFloat() (float32, bool) {
	bits, ok := r.ReadUintBits(32)
	if !ok {
		return 0, false
	}
	return math.Float32frombits(bits), true
}

// WriteDouble writes v as an uncompressed 64-bit IEEE-754 value.
func (w *Writer) WriteDouble(v float64) bool {
	return w.WriteUlongBits(math.Float64bits(v), 64)
}

// ReadDouble reads a value written by WriteDouble.
func (r *Reader) ReadDouble() (float64, bool) {
	bits, ok := r.ReadUlongBits(64)
	if !ok {
		return 0, false
	}
	return math.Float64frombits(bits), true
}

// scaleToInt64 rounds x to the nearest integer and reports whether it fits
// in an int64. Used to validate v/precision, min/precision, and max/precision
// before range-coding a scaled float or double.
func scaleToInt64(x float64) (int64, bool) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	if x < float64(math.MinInt64) || x >= float64(math.MaxInt64) {
		return 0, false
	}
	return int64(math.Round(x)), true
}

// writeScaled range-codes round(v/precision) against round(min/precision)..
// round(max/precision). Returns false (no mutation) if any of the three
// scaled quantities overflows int64; panics if min>max or v is outside
// [min,max] once scaled.
func writeScaled(w *Writer, v, min, max, precision float64) bool {
	vs, ok := scaleToInt64(v / precision)
	if !ok {
		return false
	}
	mins, ok := scaleToInt64(min / precision)
	if !ok {
		return false
	}
	maxs, ok := scaleToInt64(max / precision)
	if !ok {
		return false
	}
	if mins > maxs || vs < mins || vs > maxs {
		panic(ErrInvalidRange)
	}
	return writeRanged64(w, uint64(vs), uint64(mins), uint64(maxs), true)
}

func readScaled(r *Reader, min, max, precision float64) (float64, bool) {
	mins, ok := scaleToInt64(min / precision)
	if !ok {
		return 0, false
	}
	maxs, ok := scaleToInt64(max / precision)
	if !ok {
		return 0, false
	}
	raw, ok := readRanged64(r, uint64(mins), uint64(maxs))
	if !ok {
		return 0, false
	}
	scaled := int64(raw)
	return float64(scaled) * precision, true
}

// WriteFloatRange quantizes v to the nearest multiple of precision within
// [min,max] and range-codes the result. The decoded value satisfies
// |decoded-v| <= precision.
func (w *Writer) WriteFloatRange(v, min, max, precision float32) bool {
	return writeScaled(w, float64(v), float64(min), float64(max), float64(precision))
}

// ReadFloatRange decodes a value written by WriteFloatRange with the same
// [min,max,precision].
func (r *Reader) ReadFloatRange(min, max, precision float32) (float32, bool) {
	v, ok := readScaled(r, float64(min), float64(max), float64(precision))
	return float32(v), ok
}

// WriteDoubleRange quantizes v to the nearest multiple of precision within
// [min,max] and range-codes the result. The decoded value satisfies
// |decoded-v| <= precision.
func (w *Writer) WriteDoubleRange(v, min, max, precision float64) bool {
	return writeScaled(w, v, min, max, precision)
}

// ReadDoubleRange decodes a value written by WriteDoubleRange with the same
// [min,max,precision].
func (r *Reader) ReadDoubleRange(min, max, precision float64) (float64, bool) {
	return readScaled(r, min, max, precision)
}
