package bitstream

import (
	"fmt"
	"io"
	"sync"

	"github.com/spacemeshos/bitpack/stream"
)

// Reader extracts values of arbitrary bit length from a stream at its bit
// cursor, splicing bits that span byte boundaries. Bytes read but not fully
// consumed are repositioned so the stream byte position always equals the
// cursor's containing byte between operations. All operations serialize
// through a per-instance mutex.
type Reader struct {
	mu          sync.Mutex
	stream      stream.Stream
	pos         int64
	order       ByteOrder
	orderLocked bool
	leaveOpen   bool
	closed      bool
}

// NewReader returns a Reader over s. When s is also writable the stream read
// position is reset to the start, guarding against reading a stream just
// written through the same handle without explicit repositioning.
func NewReader(s stream.Stream, opts ...OptionFunc) (*Reader, error) {
	if !s.CanRead() {
		return nil, stream.ErrNotReadable
	}
	o := applyOpts(opts...)

	r := &Reader{
		stream:      s,
		order:       o.order,
		orderLocked: o.orderLocked,
		leaveOpen:   o.leaveOpen,
	}
	if s.CanWrite() {
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
	} else {
		pos, err := s.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		r.pos = pos * 8
	}
	return r, nil
}

// Position returns the bit cursor.
func (r *Reader) Position() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos
}

// SetPosition reassigns the bit cursor.
func (r *Reader) SetPosition(bits int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if bits < 0 {
		return fmt.Errorf("invalid position; expected: >= 0, given: %d", bits)
	}
	r.pos = bits
	_, err := r.stream.Seek(r.pos>>3, io.SeekStart)
	return err
}

// ByteOrder returns the byte order applied to multi-byte values.
func (r *Reader) ByteOrder() ByteOrder {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.order
}

// SetByteOrder changes the byte order. Fails with ErrOrderLocked on an
// order-locked reader, leaving the order unchanged.
func (r *Reader) SetByteOrder(order ByteOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if r.orderLocked {
		return ErrOrderLocked
	}
	r.order = order
	return nil
}

// ReadBit reads the bit at the cursor, MSB-first within its byte, and
// advances the cursor by one.
func (r *Reader) ReadBit() (Bit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Zero, ErrClosed
	}

	bytePos := r.pos >> 3
	off := uint(r.pos & 7)

	var b [1]byte
	n, err := readSpan(r.stream, bytePos, b[:])
	if err != nil {
		return Zero, err
	}
	if n == 0 {
		return Zero, io.EOF
	}

	bit := Bit(b[0]>>(7-off)&1 == 1)
	r.pos++
	return bit, r.realign()
}

// Read reads numBits bits starting at the cursor into buf, MSB-first within
// each byte, zero-filling the unused tail of the final partial byte. Returns
// the number of whole bytes covering numBits. Bits past the end of the
// stream read as zero; a read beginning at or past the end fails with
// io.EOF.
func (r *Reader) Read(buf []byte, numBits uint) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, ErrClosed
	}
	return r.read(buf, numBits)
}

func (r *Reader) read(buf []byte, numBits uint) (int, error) {
	if numBits == 0 {
		return 0, nil
	}
	if numBits > uint(len(buf))*8 {
		return 0, &RangeError{Op: "read", NumBits: numBits, Max: uint(len(buf)) * 8}
	}

	nBytes := int((numBits + 7) / 8)
	bytePos := r.pos >> 3
	off := uint(r.pos & 7)

	// Fast path: byte-aligned cursor, whole bytes.
	if off == 0 && numBits%8 == 0 {
		n, err := readSpan(r.stream, bytePos, buf[:nBytes])
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, io.EOF
		}
		r.pos += int64(numBits)
		if err := r.realign(); err != nil {
			return 0, err
		}
		return nBytes, nil
	}

	span := int((off + numBits + 7) / 8)
	scratch := make([]byte, span)
	n, err := readSpan(r.stream, bytePos, scratch)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}

	for i := 0; i < nBytes; i++ {
		bits := numBits - uint(i)*8
		if bits > 8 {
			bits = 8
		}
		var v byte
		if off == 0 {
			v = scratch[i]
		} else {
			v = scratch[i] << off
			if i+1 < span {
				v |= scratch[i+1] >> (8 - off)
			}
		}
		buf[i] = v & topMask(bits)
	}

	r.pos += int64(numBits)
	if err := r.realign(); err != nil {
		return 0, err
	}
	return nBytes, nil
}

// ReadUint64 reads numBits bits and decodes them as an unsigned integer in
// the instance byte order.
func (r *Reader) ReadUint64(numBits uint) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, ErrClosed
	}
	if numBits == 0 || numBits > 64 {
		return 0, &RangeError{Op: "read uint", NumBits: numBits, Max: 64}
	}

	var buf [8]byte
	if _, err := r.read(buf[:], numBits); err != nil {
		return 0, err
	}
	return takeUintBits(buf[:], numBits, r.order), nil
}

// ReadSerializable lets s decode its own fields through this reader.
func (r *Reader) ReadSerializable(s Serializable) error {
	return s.DecodeBits(r)
}

// Align rounds the cursor to a byte boundary without consuming stream
// content: up to the next boundary when advance is true, otherwise down to
// the start of the current byte. A no-op at a boundary.
func (r *Reader) Align(advance bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if advance {
		r.pos = (r.pos + 7) &^ 7
	} else {
		r.pos &^= 7
	}
	return r.realign()
}

// Close closes the underlying stream unless the reader was constructed with
// LeaveOpen. Close is idempotent.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.leaveOpen {
		return nil
	}
	return r.stream.Close()
}

func (r *Reader) realign() error {
	_, err := r.stream.Seek(r.pos>>3, io.SeekStart)
	return err
}
