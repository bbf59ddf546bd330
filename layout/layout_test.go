package layout_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/bitpack/bitstream"
	"github.com/spacemeshos/bitpack/layout"
	"github.com/spacemeshos/bitpack/stream"
)

func testLayout() *layout.Layout {
	return &layout.Layout{
		ByteOrder: "big",
		Fields: []layout.Field{
			{Name: "version", Bits: 4},
			{Name: "flag", Bits: 1},
			{Name: "count", Bits: 11},
			{Name: "id", Bits: 64},
		},
	}
}

func TestValidate(t *testing.T) {
	req := require.New(t)

	req.NoError(testLayout().Validate())

	lay := testLayout()
	lay.Fields = nil
	req.Error(lay.Validate())

	lay = testLayout()
	lay.ByteOrder = "middle"
	req.Error(lay.Validate())

	lay = testLayout()
	lay.Fields[0].Bits = 0
	req.Error(lay.Validate())

	lay = testLayout()
	lay.Fields[0].Bits = 65
	req.Error(lay.Validate())

	lay = testLayout()
	lay.Fields[1].Name = "version"
	req.Error(lay.Validate())

	lay = testLayout()
	lay.Fields[2].Name = ""
	req.Error(lay.Validate())
}

func TestTotalBits(t *testing.T) {
	require.EqualValues(t, 80, testLayout().TotalBits())
}

func TestPackUnpack(t *testing.T) {
	req := require.New(t)

	lay := testLayout()
	order, err := lay.Order()
	req.NoError(err)
	req.Equal(bitstream.BigEndian, order)

	values := []uint64{0xC, 1, 0x5FF, 0xF00DFACECAFEBEEF}

	ms := stream.NewMemoryStream()
	w, err := bitstream.NewWriter(ms, bitstream.WithByteOrder(order), bitstream.LeaveOpen())
	req.NoError(err)
	req.NoError(lay.Pack(w, values))
	req.NoError(w.Close())

	r, err := bitstream.NewReader(ms, bitstream.WithByteOrder(order))
	req.NoError(err)
	got, err := lay.Unpack(r)
	req.NoError(err)
	req.Equal(values, got)
}

func TestPack_Invalid(t *testing.T) {
	req := require.New(t)

	lay := testLayout()
	ms := stream.NewMemoryStream()
	w, err := bitstream.NewWriter(ms)
	req.NoError(err)
	defer w.Close()

	// Wrong arity.
	req.Error(lay.Pack(w, []uint64{1, 2}))

	// Value out of range for a 4-bit field.
	req.Error(lay.Pack(w, []uint64{0x10, 1, 1, 1}))
}

func TestMetaRoundTrip(t *testing.T) {
	req := require.New(t)

	datafile := filepath.Join(t.TempDir(), "data.bin")
	meta := &layout.Meta{Layout: *testLayout(), Records: 3}
	req.NoError(layout.SaveMeta(datafile, meta))

	got, err := layout.LoadMeta(datafile)
	req.NoError(err)
	req.Equal(meta, got)
}

func TestLoadMeta_Missing(t *testing.T) {
	req := require.New(t)

	_, err := layout.LoadMeta(filepath.Join(t.TempDir(), "data.bin"))
	req.Error(err)
}

func TestLoad(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "layout.yaml")
	content := `byteorder: big
fields:
  - name: version
    bits: 4
  - name: count
    bits: 12
`
	req.NoError(os.WriteFile(path, []byte(content), 0o600))

	lay, err := layout.Load(path)
	req.NoError(err)
	req.Equal("big", lay.ByteOrder)
	req.Len(lay.Fields, 2)
	req.Equal(layout.Field{Name: "version", Bits: 4}, lay.Fields[0])
	req.Equal(layout.Field{Name: "count", Bits: 12}, lay.Fields[1])
	req.EqualValues(16, lay.TotalBits())
}

func TestLoad_Invalid(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "layout.yaml")
	content := `fields:
  - name: oversized
    bits: 65
`
	req.NoError(os.WriteFile(path, []byte(content), 0o600))

	_, err := layout.Load(path)
	req.Error(err)
}
