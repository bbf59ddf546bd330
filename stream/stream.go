// Package stream defines the random-access byte stream capability consumed
// by the bit-granular reader and writer, along with in-memory and file-backed
// implementations. End of data is always reported as io.EOF, never as a
// sentinel byte value.
package stream

import (
	"errors"
	"io"
)

var (
	ErrNotReadable = errors.New("stream is not readable")
	ErrNotWritable = errors.New("stream is not writable")
	ErrClosed      = errors.New("stream is closed")
)

// Stream is a random-access byte store. Implementations report their
// capabilities up front via CanRead/CanWrite; calling an unsupported
// operation returns ErrNotReadable or ErrNotWritable.
type Stream interface {
	io.ReadWriteSeeker
	io.ByteReader
	io.Closer

	CanRead() bool
	CanWrite() bool

	// Flush forces buffered state to the backing store. A no-op for
	// unbuffered implementations.
	Flush() error
}
