package stream

import (
	"fmt"
	"io"
)

// MemoryStream is a growable in-memory Stream. Writing or seeking past the
// end extends the store with zero bytes, so a byte that was never written
// reads back as zero.
type MemoryStream struct {
	data     []byte
	pos      int64
	readable bool
	writable bool
	closed   bool
}

// A compile time check to ensure that MemoryStream fully implements the Stream interface.
var _ Stream = (*MemoryStream)(nil)

// NewMemoryStream returns an empty readable and writable MemoryStream.
func NewMemoryStream() *MemoryStream {
	return &MemoryStream{readable: true, writable: true}
}

// NewMemoryStreamOn returns a readable and writable MemoryStream operating
// directly on data.
func NewMemoryStreamOn(data []byte) *MemoryStream {
	return &MemoryStream{data: data, readable: true, writable: true}
}

// NewReadOnlyMemoryStream returns a MemoryStream over data which rejects
// writes.
func NewReadOnlyMemoryStream(data []byte) *MemoryStream {
	return &MemoryStream{data: data, readable: true}
}

func (s *MemoryStream) CanRead() bool  { return s.readable && !s.closed }
func (s *MemoryStream) CanWrite() bool { return s.writable && !s.closed }

// Bytes returns the backing store. The slice is valid until the next write.
func (s *MemoryStream) Bytes() []byte { return s.data }

// Len returns the current size of the store in bytes.
func (s *MemoryStream) Len() int64 { return int64(len(s.data)) }

func (s *MemoryStream) Read(p []byte) (int, error) {
	if !s.CanRead() {
		if s.closed {
			return 0, ErrClosed
		}
		return 0, ErrNotReadable
	}
	if s.pos >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *MemoryStream) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := s.Read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (s *MemoryStream) Write(p []byte) (int, error) {
	if !s.CanWrite() {
		if s.closed {
			return 0, ErrClosed
		}
		return 0, ErrNotWritable
	}
	if end := s.pos + int64(len(p)); end > int64(len(s.data)) {
		s.grow(end)
	}
	n := copy(s.data[s.pos:], p)
	s.pos += int64(n)
	return n, nil
}

func (s *MemoryStream) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = s.pos + offset
	case io.SeekEnd:
		pos = int64(len(s.data)) + offset
	default:
		return 0, fmt.Errorf("invalid `whence`; expected: 0, 1 or 2, given: %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("invalid position; expected: >= 0, given: %d", pos)
	}
	s.pos = pos
	return pos, nil
}

func (s *MemoryStream) Flush() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Close marks the stream closed. Further reads and writes fail. Close is
// idempotent.
func (s *MemoryStream) Close() error {
	s.closed = true
	return nil
}

func (s *MemoryStream) grow(size int64) {
	if size <= int64(cap(s.data)) {
		old := len(s.data)
		s.data = s.data[:size]
		// The backing array may be caller-provided; absent bytes must read as zero.
		for i := old; i < int(size); i++ {
			s.data[i] = 0
		}
		return
	}
	grown := make([]byte, size, size*2)
	copy(grown, s.data)
	s.data = grown
}
