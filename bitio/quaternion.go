package bitio

import "math"

// smallestThreeRange bounds every retained quaternion component: once the
// largest-magnitude component is dropped, a unit quaternion's remaining
// three components each lie in [-1/sqrt(2), 1/sqrt(2)].
const smallestThreeRange = 0.70710678118654752440

// smallestThreePrecision quantizes a retained component to roughly 10 bits
// (1024 levels) across smallestThreeRange.
const smallestThreePrecision = (2 * smallestThreeRange) / 1023.0

// smallestThreeComponentBits is the fixed bit width WriteFloatRange/
// ReadFloatRange spend on one retained component at
// [-smallestThreeRange,smallestThreeRange] with smallestThreePrecision,
// computed once (from the same float32-rounded bounds those functions
// receive) so WriteQuaternionSmallestThree can pre-check total space before
// writing anything.
var smallestThreeComponentBits = func() int {
	rng, prec := float64(float32(smallestThreeRange)), float64(float32(smallestThreePrecision))
	mins, _ := scaleToInt64(-rng / prec)
	maxs, _ := scaleToInt64(rng / prec)
	return BitsRequired(uint64(mins), uint64(maxs))
}()

// Quaternion is a rotation in X,Y,Z,W form.
type Quaternion struct {
	X, Y, Z, W float32
}

// WriteQuaternion writes q as four uncompressed floats.
func (w *Writer) WriteQuaternion(q Quaternion) bool {
	return w.WriteFloat(q.X) && w.WriteFloat(q.Y) && w.WriteFloat(q.Z) && w.WriteFloat(q.W)
}

// ReadQuaternion reads a value written by WriteQuaternion.
func (r *Reader) ReadQuaternion() (Quaternion, bool) {
	x, ok := r.ReadFloat()
	if !ok {
		return Quaternion{}, false
	}
	y, ok := r.ReadFloat()
	if !ok {
		return Quaternion{}, false
	}
	z, ok := r.ReadFloat()
	if !ok {
		return Quaternion{}, false
	}
	v, ok := r.ReadFloat()
	if !ok {
		return Quaternion{}, false
	}
	return Quaternion{x, y, z, v}, true
}

// WriteQuaternionSmallestThree writes q (assumed already normalized) using
// the smallest-three compression: the largest-magnitude component is
// dropped and reconstructed on read as sqrt(1 - sum of the other three
// squares), after canonicalizing its sign to positive by negating the whole
// quaternion if needed (a unit quaternion and its negation represent the
// same rotation). The remaining three components are each range-coded to
// roughly 10 bits, alongside a 2-bit index identifying which was dropped.
func (w *Writer) WriteQuaternionSmallestThree(q Quaternion) bool {
	c := [4]float32{q.X, q.Y, q.Z, q.W}
	largest := 0
	for i := 1; i < 4; i++ {
		if abs32(c[i]) > abs32(c[largest]) {
			largest = i
		}
	}
	if c[largest] < 0 {
		c[0], c[1], c[2], c[3] = -c[0], -c[1], -c[2], -c[3]
	}
	if w.SpaceBits() < 2+3*int64(smallestThreeComponentBits) {
		return false
	}
	if !w.WriteByteBits(byte(largest), 2) {
		return false
	}
	for i := 0; i < 4; i++ {
		if i == largest {
			continue
		}
		if !w.WriteFloatRange(c[i], -smallestThreeRange, smallestThreeRange, smallestThreePrecision) {
			return false
		}
	}
	return true
}

// ReadQuaternionSmallestThree reads a value written by
// WriteQuaternionSmallestThree.
func (r *Reader) ReadQuaternionSmallestThree() (Quaternion, bool) {
	idxByte, ok := r.ReadByteBits(2)
	if !ok {
		return Quaternion{}, false
	}
	idx := int(idxByte)
	var c [4]float32
	var sumSq float32
	for i := 0; i < 4; i++ {
		if i == idx {
			continue
		}
		v, ok := r.ReadFloatRange(-smallestThreeRange, smallestThreeRange, smallestThreePrecision)
		if !ok {
			return Quaternion{}, false
		}
		c[i] = v
		sumSq += v * v
	}
	rem := float32(1) - sumSq
	if rem < 0 {
		rem = 0
	}
	c[idx] = float32(math.Sqrt(float64(rem)))
	q := Quaternion{c[0], c[1], c[2], c[3]}
	return normalizeQuaternion(q), true
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func normalizeQuaternion(q Quaternion) Quaternion {
	n := math.Sqrt(float64(q.X)*float64(q.X) + float64(q.Y)*float64(q.Y) + float64(q.Z)*float64(q.Z) + float64(q.W)*float64(q.W))
	if n == 0 {
		return q
	}
	inv := float32(1 / n)
	return Quaternion{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}
