// Package bitio provides atomic, bit-level serialization over a contiguous
// byte buffer.
//
// Semantics and design:
//   - Word model: Writer accumulates bits in a 64-bit scratch register and
//     flushes 32 bits at a time to the backing buffer in little-endian byte
//     order, independent of host endianness. Reader is symmetric: it pulls up
//     to 32 bits at a time from the buffer into its own scratch register.
//   - Atomicity: every operation either completes in full or leaves the
//     Writer/Reader state byte-for-byte unchanged. Recoverable failures
//     (insufficient space or data) are reported as a boolean false, never a
//     partial write or read.
//   - Range coding: integers are packed in the minimum number of bits needed
//     to represent their declared [min,max] range; floats and doubles can
//     additionally be scaled by a precision step before range coding.
//   - Programming errors (bit widths out of range, min > max, a value outside
//     its declared range on write) panic rather than fail silently — they are
//     defects in the caller, not recoverable protocol conditions.
//
// Wire format: all multi-byte quantities are little-endian. Fixed strings are
// a 16-bit length prefix followed by that many UTF-8 bytes, with no trailing
// padding. Quaternions can be written either as four uncompressed 32-bit
// floats or compressed to 32 bits with the smallest-three encoding: a 2-bit
// index for the dropped (largest-magnitude) component plus three 10-bit
// signed quantizations of the remaining components.
package bitio
