package shared

import (
	"math/bits"
)

// NumBits returns the minimal number of bits required to represent val.
// NumBits(0) is 1, so that a value always occupies at least one bit.
func NumBits(val uint64) uint {
	if val == 0 {
		return 1
	}
	return uint(bits.Len64(val))
}

// BitsToBytes returns the number of whole bytes required to hold numBits bits.
func BitsToBytes(numBits uint) uint {
	return (numBits + 7) / 8
}

// UintBE decodes b as an unsigned integer in Big-Endian byte order.
// len(b) may be anything in [1,8].
func UintBE(b []byte) uint64 {
	var v uint64
	for _, byt := range b {
		v = v<<8 | uint64(byt)
	}
	return v
}

// UintLE decodes b as an unsigned integer in Little-Endian byte order.
func UintLE(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// PutUintBE encodes v into b in Big-Endian byte order. v is truncated to
// the len(b) least significant bytes.
func PutUintBE(b []byte, v uint64) {
	for i := len(b) - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}

// PutUintLE encodes v into b in Little-Endian byte order. v is truncated to
// the len(b) least significant bytes.
func PutUintLE(b []byte, v uint64) {
	for i := 0; i < len(b); i++ {
		b[i] = byte(v)
		v >>= 8
	}
}
