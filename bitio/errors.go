package bitio

import "errors"

var (
	// ErrInvalidBitWidth reports a bit width outside an operation's declared
	// range (e.g. more than 32 bits passed to WriteUintBits). This is a
	// programming error: callers must fix the call site, not retry.
	ErrInvalidBitWidth = errors.New("bitio: invalid bit width")

	// ErrInvalidRange reports min > max, or a value outside [min,max] on
	// write. This is a programming error: callers must fix the call site,
	// not retry.
	ErrInvalidRange = errors.New("bitio: invalid range or out-of-range value")
)
