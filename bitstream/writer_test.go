package bitstream_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/bitpack/bitstream"
	"github.com/spacemeshos/bitpack/stream"
)

func TestWriter_PartialByteNonDestructive(t *testing.T) {
	req := require.New(t)

	ms := stream.NewMemoryStreamOn([]byte{0b11110000})
	w, err := bitstream.NewWriter(ms, bitstream.WithStartOffset(4))
	req.NoError(err)

	req.NoError(w.WriteBit(Zero))
	req.NoError(w.WriteBit(One))
	req.NoError(w.WriteBit(One))
	req.NoError(w.Close())

	req.Equal([]byte{0b11110110}, ms.Bytes())
}

func TestWriter_BitIntoAbsentByte(t *testing.T) {
	req := require.New(t)

	w, ms := newPair(t)
	req.NoError(w.WriteBit(One))
	req.Equal([]byte{0x80}, ms.Bytes())

	// Bit 12 lives in a byte that does not exist yet; it is treated as zero.
	req.NoError(w.SetPosition(12))
	req.NoError(w.WriteBit(One))
	req.NoError(w.Close())
	req.Equal([]byte{0x80, 0x08}, ms.Bytes())
}

func TestWriter_OverlappingWritesPreserveBits(t *testing.T) {
	req := require.New(t)

	w, ms := newPair(t)
	req.NoError(w.WriteUint64(0xFF, 8))
	req.Equal([]byte{0xFF}, ms.Bytes())

	// Rewriting three bits in the middle leaves the other five alone.
	req.NoError(w.SetPosition(2))
	req.NoError(w.WriteUint64(0, 3))
	req.NoError(w.Close())
	req.Equal([]byte{0b11000111}, ms.Bytes())
}

func TestWriter_ReturnsWholeInputBytes(t *testing.T) {
	req := require.New(t)

	w, _ := newPair(t)
	n, err := w.Write([]byte{0xAB, 0xCD, 0xEF}, 17)
	req.NoError(err)
	req.Equal(3, n)
	req.NoError(w.Close())
}

func TestWriter_RangeViolation(t *testing.T) {
	req := require.New(t)

	w, ms := newPair(t)
	_, err := w.Write([]byte{0xAB}, 9)
	rangeErr := new(bitstream.RangeError)
	req.ErrorAs(err, &rangeErr)
	req.EqualValues(9, rangeErr.NumBits)
	req.EqualValues(8, rangeErr.Max)

	// The failing call must not have touched the stream or the cursor.
	req.Equal(int64(0), w.Position())
	req.Empty(ms.Bytes())

	req.Error(w.WriteUint64(0, 65))
	req.Error(w.WriteUint64(0, 0))
}

func TestWriter_AlignIdempotent(t *testing.T) {
	req := require.New(t)

	w, ms := newPair(t)
	req.NoError(w.WriteUint64(0xFF, 8))

	// Aligning at a boundary is a no-op on cursor and stream position.
	req.NoError(w.Align(true))
	req.Equal(int64(8), w.Position())
	req.NoError(w.Align(false))
	req.Equal(int64(8), w.Position())

	req.NoError(w.WriteBit(One))
	req.NoError(w.Align(true))
	req.Equal(int64(16), w.Position())

	req.NoError(w.SetPosition(13))
	req.NoError(w.Align(false))
	req.Equal(int64(8), w.Position())
	req.NoError(w.Close())

	// Aligning never touches content.
	req.Equal([]byte{0xFF, 0x80}, ms.Bytes())
}

func TestWriter_OrderLocked(t *testing.T) {
	req := require.New(t)

	w, _ := newPair(t, bitstream.WithByteOrder(bitstream.BigEndian), bitstream.OrderLocked())
	err := w.SetByteOrder(bitstream.LittleEndian)
	req.ErrorIs(err, bitstream.ErrOrderLocked)
	req.Equal(bitstream.BigEndian, w.ByteOrder())
	req.NoError(w.Close())
}

func TestWriter_PositionLocked(t *testing.T) {
	req := require.New(t)

	w, _ := newPair(t, bitstream.PositionLocked(), bitstream.WithStartOffset(8))
	req.Equal(int64(8), w.Position())

	err := w.SetPosition(0)
	req.ErrorIs(err, bitstream.ErrPositionLocked)
	req.Equal(int64(8), w.Position())

	// Writes still advance the cursor; only external reassignment is locked.
	req.NoError(w.WriteBit(One))
	req.Equal(int64(9), w.Position())
	req.NoError(w.Close())
}

func TestWriter_StreamCapability(t *testing.T) {
	req := require.New(t)

	_, err := bitstream.NewWriter(stream.NewReadOnlyMemoryStream([]byte{1}))
	req.ErrorIs(err, stream.ErrNotWritable)
}

func TestWriter_CloseIdempotent(t *testing.T) {
	req := require.New(t)

	w, _ := newPair(t)
	req.NoError(w.WriteBit(One))
	req.NoError(w.Close())
	req.NoError(w.Close())
	req.ErrorIs(w.WriteBit(One), bitstream.ErrClosed)
}

func TestWriter_LeaveOpen(t *testing.T) {
	req := require.New(t)

	ms := stream.NewMemoryStream()
	w, err := bitstream.NewWriter(ms, bitstream.LeaveOpen())
	req.NoError(err)
	req.NoError(w.WriteUint64(0xAB, 8))
	req.NoError(w.Close())

	// The stream survives the writer.
	req.True(ms.CanWrite())
	_, err = ms.Write([]byte{0xCD})
	req.NoError(err)
}

func TestWriter_FastPathAligned(t *testing.T) {
	req := require.New(t)

	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	w, ms := newPair(t)
	n, err := w.Write(data, 32)
	req.NoError(err)
	req.Equal(4, n)
	req.Equal(int64(32), w.Position())
	req.NoError(w.Close())
	req.Equal(data, ms.Bytes())
}

func TestWriter_ConcurrentBitWrites(t *testing.T) {
	req := require.New(t)

	const goroutines = 4
	const bitsPer = 100

	w, ms := newPair(t)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < bitsPer; i++ {
				req.NoError(w.WriteBit(One))
			}
		}()
	}
	wg.Wait()

	req.Equal(int64(goroutines*bitsPer), w.Position())
	req.NoError(w.Close())

	req.Equal(int64(goroutines*bitsPer/8), ms.Len())
	for _, b := range ms.Bytes() {
		req.Equal(byte(0xFF), b)
	}
}

func TestWriter_TrailingByteNotOverextended(t *testing.T) {
	req := require.New(t)

	w, ms := newPair(t)
	req.NoError(w.WriteUint64(0b101, 3))
	req.NoError(w.Close())

	// 3 bits occupy exactly one byte.
	req.Equal(int64(1), ms.Len())
	req.Equal([]byte{0b10100000}, ms.Bytes())
}
