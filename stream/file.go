package stream

import (
	"fmt"
	"io"
	"os"
)

const ownerReadWrite = 0o600

// FileStream is a Stream backed by an *os.File.
type FileStream struct {
	file     *os.File
	readable bool
	writable bool
}

// A compile time check to ensure that FileStream fully implements the Stream interface.
var _ Stream = (*FileStream)(nil)

// CreateFileStream creates (or truncates) the named file and returns a
// readable and writable FileStream over it.
func CreateFileStream(name string) (*FileStream, error) {
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, ownerReadWrite)
	if err != nil {
		return nil, fmt.Errorf("failed to create file stream: %w", err)
	}
	return &FileStream{file: f, readable: true, writable: true}, nil
}

// OpenFileStream opens the named file for reading only.
func OpenFileStream(name string) (*FileStream, error) {
	f, err := os.OpenFile(name, os.O_RDONLY, ownerReadWrite)
	if err != nil {
		return nil, fmt.Errorf("failed to open file stream: %w", err)
	}
	return &FileStream{file: f, readable: true}, nil
}

// OpenFileStreamRW opens the named file for reading and writing without
// truncating it.
func OpenFileStreamRW(name string) (*FileStream, error) {
	f, err := os.OpenFile(name, os.O_RDWR, ownerReadWrite)
	if err != nil {
		return nil, fmt.Errorf("failed to open file stream: %w", err)
	}
	return &FileStream{file: f, readable: true, writable: true}, nil
}

func (s *FileStream) CanRead() bool  { return s.readable }
func (s *FileStream) CanWrite() bool { return s.writable }

func (s *FileStream) Read(p []byte) (int, error) {
	if !s.readable {
		return 0, ErrNotReadable
	}
	return s.file.Read(p)
}

func (s *FileStream) ReadByte() (byte, error) {
	var b [1]byte
	n, err := s.Read(b[:])
	if n != 1 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
	return b[0], nil
}

func (s *FileStream) Write(p []byte) (int, error) {
	if !s.writable {
		return 0, ErrNotWritable
	}
	return s.file.Write(p)
}

func (s *FileStream) Seek(offset int64, whence int) (int64, error) {
	return s.file.Seek(offset, whence)
}

func (s *FileStream) Flush() error {
	if !s.writable {
		return nil
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("failed to flush file stream: %w", err)
	}
	return nil
}

func (s *FileStream) Close() error {
	return s.file.Close()
}
