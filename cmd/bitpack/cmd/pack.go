package cmd

import (
	"fmt"
	"strconv"

	"code.cloudfoundry.org/bytefmt"
	"github.com/spf13/cobra"

	"github.com/spacemeshos/bitpack/bitstream"
	"github.com/spacemeshos/bitpack/layout"
	"github.com/spacemeshos/bitpack/shared"
	"github.com/spacemeshos/bitpack/stream"
)

var (
	packLayoutFile string
	packOutFile    string
)

// packCmd packs one or more records of field values into a binary file.
var packCmd = &cobra.Command{
	Use:   "pack [values...]",
	Short: "Pack field values into a binary file",
	Long: `Pack writes the given values through the bit engine according to a layout
file. Values are given in field order; multiple records may be packed by
repeating the value list. A sidecar metadata file is written next to the
output so it can be unpacked without the layout file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lay, err := layout.Load(packLayoutFile)
		if err != nil {
			return err
		}
		if len(args)%len(lay.Fields) != 0 {
			return fmt.Errorf("invalid number of values; expected: a multiple of %d, given: %d",
				len(lay.Fields), len(args))
		}

		values := make([]uint64, len(args))
		for i, arg := range args {
			v, err := strconv.ParseUint(arg, 0, 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", arg, err)
			}
			values[i] = v
		}

		return packFile(lay, values, packOutFile, appLog())
	},
}

func init() {
	rootCmd.AddCommand(packCmd)

	packCmd.Flags().StringVar(&packLayoutFile, "layout", "", "layout file path (required)")
	packCmd.Flags().StringVar(&packOutFile, "out", "", "output file path (required)")
	_ = packCmd.MarkFlagRequired("layout")
	_ = packCmd.MarkFlagRequired("out")
}

func packFile(lay *layout.Layout, values []uint64, outFile string, log shared.Logger) error {
	order, err := lay.Order()
	if err != nil {
		return err
	}

	fs, err := stream.CreateFileStream(outFile)
	if err != nil {
		return err
	}
	w, err := bitstream.NewWriter(fs, bitstream.WithByteOrder(order), bitstream.OrderLocked())
	if err != nil {
		_ = fs.Close()
		return err
	}

	records := uint64(len(values) / len(lay.Fields))
	for rec := uint64(0); rec < records; rec++ {
		n := len(lay.Fields)
		if err := lay.Pack(w, values[int(rec)*n:int(rec+1)*n]); err != nil {
			_ = w.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	meta := &layout.Meta{Layout: *lay, Records: records}
	if err := layout.SaveMeta(outFile, meta); err != nil {
		return err
	}

	packedBytes := shared.BitsToBytes(uint(records) * lay.TotalBits())
	log.Info("packed %d record(s), %d bit(s) each, into %v (%v)",
		records, lay.TotalBits(), outFile, bytefmt.ByteSize(uint64(packedBytes)))
	return nil
}
