package bitstream

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderLocked is returned on an attempt to change the byte order of
	// an order-locked instance.
	ErrOrderLocked = errors.New("byte order is locked")

	// ErrPositionLocked is returned on an attempt to reassign the bit
	// cursor of a position-locked writer.
	ErrPositionLocked = errors.New("bit position is locked")

	// ErrClosed is returned by operations on a closed Writer or Reader.
	ErrClosed = errors.New("instance is closed")
)

// RangeError reports a bit count which exceeds the capacity of the supplied
// buffer or value type.
type RangeError struct {
	Op      string
	NumBits uint
	Max     uint
}

func (err *RangeError) Error() string {
	return fmt.Sprintf("%s: invalid `numBits`; expected: in range [1, %d], given: %d",
		err.Op, err.Max, err.NumBits)
}

// InvalidByteOrderError reports an unrecognized byte order name.
type InvalidByteOrderError struct {
	Given string
}

func (err *InvalidByteOrderError) Error() string {
	return fmt.Sprintf("invalid byte order; expected: \"little\" or \"big\", given: %q", err.Given)
}
