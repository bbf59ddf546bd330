package bitstream

import (
	"fmt"
	"io"
	"sync"

	"github.com/spacemeshos/bitpack/stream"
)

// Writer appends values of arbitrary bit length to a stream at its bit
// cursor, preserving the untouched bits of partially filled bytes already in
// the stream. All operations serialize through a per-instance mutex; two
// instances over the same stream are not coordinated with each other.
type Writer struct {
	mu     sync.Mutex
	stream stream.Stream
	// bit cursor; the stream byte position equals pos>>3 between operations
	pos         int64
	order       ByteOrder
	orderLocked bool
	posLocked   bool
	leaveOpen   bool
	closed      bool
}

// NewWriter returns a Writer over s. The stream must be writable and also
// readable, since splicing into a partially filled byte reads it back first.
func NewWriter(s stream.Stream, opts ...OptionFunc) (*Writer, error) {
	if !s.CanWrite() {
		return nil, stream.ErrNotWritable
	}
	if !s.CanRead() {
		return nil, stream.ErrNotReadable
	}
	o := applyOpts(opts...)

	w := &Writer{
		stream:      s,
		pos:         o.startOffset,
		order:       o.order,
		orderLocked: o.orderLocked,
		posLocked:   o.positionLocked,
		leaveOpen:   o.leaveOpen,
	}
	if _, err := s.Seek(w.pos>>3, io.SeekStart); err != nil {
		return nil, err
	}
	return w, nil
}

// Position returns the bit cursor.
func (w *Writer) Position() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pos
}

// SetPosition reassigns the bit cursor. Fails with ErrPositionLocked on a
// position-locked writer.
func (w *Writer) SetPosition(bits int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.posLocked {
		return ErrPositionLocked
	}
	if bits < 0 {
		return fmt.Errorf("invalid position; expected: >= 0, given: %d", bits)
	}
	w.pos = bits
	_, err := w.stream.Seek(w.pos>>3, io.SeekStart)
	return err
}

// ByteOrder returns the byte order applied to multi-byte values.
func (w *Writer) ByteOrder() ByteOrder {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.order
}

// SetByteOrder changes the byte order. Fails with ErrOrderLocked on an
// order-locked writer, leaving the order unchanged.
func (w *Writer) SetByteOrder(order ByteOrder) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.orderLocked {
		return ErrOrderLocked
	}
	w.order = order
	return nil
}

// WriteBit sets or clears the single bit at the cursor within its containing
// byte and advances the cursor by one. A byte not yet present in the stream
// is treated as zero.
func (w *Writer) WriteBit(bit Bit) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	bytePos := w.pos >> 3
	off := uint(w.pos & 7)

	var b [1]byte
	if _, err := readSpan(w.stream, bytePos, b[:]); err != nil {
		return err
	}
	mask := byte(1) << (7 - off)
	if bit {
		b[0] |= mask
	} else {
		b[0] &^= mask
	}
	if _, err := w.stream.Seek(bytePos, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.stream.Write(b[:]); err != nil {
		return err
	}

	w.pos++
	return w.realign()
}

// Write writes the first numBits bits of buf, MSB-first within each byte,
// starting at the cursor. Returns the number of whole bytes the input
// represented. Fails with a RangeError before touching the stream when
// numBits exceeds the buffer capacity.
func (w *Writer) Write(buf []byte, numBits uint) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0, ErrClosed
	}
	return w.write(buf, numBits)
}

func (w *Writer) write(buf []byte, numBits uint) (int, error) {
	if numBits == 0 {
		return 0, nil
	}
	if numBits > uint(len(buf))*8 {
		return 0, &RangeError{Op: "write", NumBits: numBits, Max: uint(len(buf)) * 8}
	}

	nBytes := int((numBits + 7) / 8)
	bytePos := w.pos >> 3
	off := uint(w.pos & 7)

	// Fast path: byte-aligned cursor, whole bytes.
	if off == 0 && numBits%8 == 0 {
		if _, err := w.stream.Seek(bytePos, io.SeekStart); err != nil {
			return 0, err
		}
		if _, err := w.stream.Write(buf[:nBytes]); err != nil {
			return 0, err
		}
		w.pos += int64(numBits)
		return nBytes, nil
	}

	// Slow path: stage the overlapped span, splice, write back only the
	// touched bytes so a failure cannot leave a half-written sequence.
	span := int((off + numBits + 7) / 8)
	scratch := make([]byte, span)
	if _, err := readSpan(w.stream, bytePos, scratch); err != nil {
		return 0, err
	}

	for i := 0; i < nBytes; i++ {
		bits := numBits - uint(i)*8
		if bits > 8 {
			bits = 8
		}
		used := buf[i] & topMask(bits)
		if off == 0 {
			scratch[i] = scratch[i]&^topMask(bits) | used
			continue
		}
		m1 := topMask(bits) >> off
		scratch[i] = scratch[i]&^m1 | used>>off
		if m2 := topMask(bits) << (8 - off); m2 != 0 {
			scratch[i+1] = scratch[i+1]&^m2 | used<<(8-off)
		}
	}

	if _, err := w.stream.Seek(bytePos, io.SeekStart); err != nil {
		return 0, err
	}
	if _, err := w.stream.Write(scratch); err != nil {
		return 0, err
	}

	w.pos += int64(numBits)
	if err := w.realign(); err != nil {
		return 0, err
	}
	return nBytes, nil
}

// WriteUint64 writes the numBits least significant bits of v in the instance
// byte order.
func (w *Writer) WriteUint64(v uint64, numBits uint) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if numBits == 0 || numBits > 64 {
		return &RangeError{Op: "write uint", NumBits: numBits, Max: 64}
	}

	var buf [8]byte
	n := putUintBits(buf[:], v, numBits, w.order)
	_, err := w.write(buf[:n], numBits)
	return err
}

// WriteSerializable lets s encode its own fields through this writer.
func (w *Writer) WriteSerializable(s Serializable) error {
	return s.EncodeBits(w)
}

// Align rounds the cursor to a byte boundary without touching stream
// content: up to the next boundary when advance is true, otherwise down to
// the start of the current byte. A no-op at a boundary.
func (w *Writer) Align(advance bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if advance {
		w.pos = (w.pos + 7) &^ 7
	} else {
		w.pos &^= 7
	}
	return w.realign()
}

// Flush forces the underlying stream to its backing store.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	return w.stream.Flush()
}

// Close flushes and, unless the writer was constructed with LeaveOpen,
// closes the underlying stream. Close is idempotent.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.leaveOpen {
		return w.stream.Flush()
	}
	return w.stream.Close()
}

// realign restores the invariant that the stream byte position equals the
// bit cursor's containing byte.
func (w *Writer) realign() error {
	_, err := w.stream.Seek(w.pos>>3, io.SeekStart)
	return err
}
