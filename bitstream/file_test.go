package bitstream_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/bitpack/bitstream"
	"github.com/spacemeshos/bitpack/stream"
)

// The engine must behave identically over a file-backed stream.
func TestFileBackedRoundTrip(t *testing.T) {
	req := require.New(t)
	name := filepath.Join(t.TempDir(), "packed.bin")

	fs, err := stream.CreateFileStream(name)
	req.NoError(err)
	w, err := bitstream.NewWriter(fs, bitstream.WithByteOrder(bitstream.BigEndian))
	req.NoError(err)

	req.NoError(w.WriteBit(One))
	req.NoError(w.WriteUint64(0xCAFE, 16))
	req.NoError(w.WriteUint64(0x2A, 6))
	req.NoError(w.WriteBit(Zero))
	req.NoError(w.Close())

	fs2, err := stream.OpenFileStream(name)
	req.NoError(err)
	r, err := bitstream.NewReader(fs2, bitstream.WithByteOrder(bitstream.BigEndian))
	req.NoError(err)
	defer r.Close()

	bit, err := r.ReadBit()
	req.NoError(err)
	req.Equal(One, bit)

	v, err := r.ReadUint64(16)
	req.NoError(err)
	req.Equal(uint64(0xCAFE), v)

	v, err = r.ReadUint64(6)
	req.NoError(err)
	req.Equal(uint64(0x2A), v)

	bit, err = r.ReadBit()
	req.NoError(err)
	req.Equal(Zero, bit)
}

// A partial byte written through one handle must survive a second writer
// splicing more bits into the same byte.
func TestFileBackedPartialByteMerge(t *testing.T) {
	req := require.New(t)
	name := filepath.Join(t.TempDir(), "packed.bin")

	fs, err := stream.CreateFileStream(name)
	req.NoError(err)
	w, err := bitstream.NewWriter(fs)
	req.NoError(err)
	req.NoError(w.WriteUint64(0b1111, 4))
	req.NoError(w.Close())

	fs, err = stream.OpenFileStreamRW(name)
	req.NoError(err)
	w, err = bitstream.NewWriter(fs, bitstream.WithStartOffset(4))
	req.NoError(err)
	req.NoError(w.WriteUint64(0b0110, 4))
	req.NoError(w.Close())

	fs2, err := stream.OpenFileStream(name)
	req.NoError(err)
	r, err := bitstream.NewReader(fs2)
	req.NoError(err)
	defer r.Close()

	v, err := r.ReadUint64(8)
	req.NoError(err)
	req.Equal(uint64(0b11110110), v)
}
