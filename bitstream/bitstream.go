// Package bitstream provides bit-granular access to a random-access byte
// stream: a Writer and a Reader advancing a shared-format bit cursor, where
// bit 0 of a byte is its most significant bit. Values spanning byte
// boundaries are spliced bit-group by bit-group, and multi-byte values are
// converted according to the instance byte order before splicing, never on
// bytes already stored in the stream.
package bitstream

import (
	"io"

	"github.com/spacemeshos/bitpack/stream"
)

type Bit bool

const (
	Zero Bit = false
	One  Bit = true
)

// ByteOrder selects the byte order applied to multi-byte values.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "little"
	case BigEndian:
		return "big"
	default:
		return "unknown"
	}
}

// ParseByteOrder parses "little" or "big" into a ByteOrder.
func ParseByteOrder(s string) (ByteOrder, error) {
	switch s {
	case "little", "":
		return LittleEndian, nil
	case "big":
		return BigEndian, nil
	default:
		return 0, &InvalidByteOrderError{Given: s}
	}
}

// Serializable is the self-serialization capability: a composite value
// encodes and decodes its own fields through a supplied Writer or Reader, so
// the bit engine needs no knowledge of its layout.
type Serializable interface {
	EncodeBits(w *Writer) error
	DecodeBits(r *Reader) error
}

// topMask returns a byte with the n most significant bits set, 1 <= n <= 8.
func topMask(n uint) byte {
	return byte(0xFF << (8 - n))
}

// readSpan reads up to len(p) bytes from s at absolute byte offset off.
// Bytes beyond the end of the stream are left zeroed; the number of bytes
// actually backed by the stream is returned.
func readSpan(s stream.Stream, off int64, p []byte) (int, error) {
	if _, err := s.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	var n int
	for n < len(p) {
		m, err := s.Read(p[n:])
		n += m
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, err
		}
		if m == 0 {
			break
		}
	}
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return n, nil
}

// putUintBits packs the numBits least significant bits of v into buf in the
// given byte order, MSB-first within each byte. The most significant partial
// chunk, if any, is left-aligned within its byte. Returns the number of
// bytes used.
func putUintBits(buf []byte, v uint64, numBits uint, order ByteOrder) int {
	if numBits < 64 {
		v &= 1<<numBits - 1
	}
	nBytes := int((numBits + 7) / 8)
	rem := numBits % 8

	switch order {
	case BigEndian:
		x := v << (64 - numBits)
		for i := 0; i < nBytes; i++ {
			buf[i] = byte(x >> 56)
			x <<= 8
		}
	default:
		for i := 0; i < nBytes; i++ {
			buf[i] = byte(v >> (8 * uint(i)))
		}
		if rem != 0 {
			buf[nBytes-1] <<= 8 - rem
		}
	}
	return nBytes
}

// takeUintBits is the inverse of putUintBits.
func takeUintBits(buf []byte, numBits uint, order ByteOrder) uint64 {
	nBytes := int((numBits + 7) / 8)
	rem := numBits % 8
	full := nBytes
	if rem != 0 {
		full--
	}

	var v uint64
	switch order {
	case BigEndian:
		for i := 0; i < full; i++ {
			v = v<<8 | uint64(buf[i])
		}
		if rem != 0 {
			v = v<<rem | uint64(buf[nBytes-1]>>(8-rem))
		}
	default:
		for i := 0; i < full; i++ {
			v |= uint64(buf[i]) << (8 * uint(i))
		}
		if rem != 0 {
			v |= uint64(buf[nBytes-1]>>(8-rem)) << (8 * uint(full))
		}
	}
	return v
}
