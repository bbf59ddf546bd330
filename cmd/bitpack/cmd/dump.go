package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/spacemeshos/bitpack/bitstream"
	"github.com/spacemeshos/bitpack/layout"
	"github.com/spacemeshos/bitpack/stream"
)

var (
	dumpInFile     string
	dumpLayoutFile string
)

// dumpCmd unpacks a packed file and renders its fields as a table.
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Unpack a binary file and print its fields",
	Long: `Dump reads a packed binary file through the bit engine and prints every
field of every record. The layout is taken from the sidecar metadata
written by pack, or from an explicit layout file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lay, records, err := resolveLayout(dumpInFile, dumpLayoutFile)
		if err != nil {
			return err
		}
		return dumpFile(lay, records, dumpInFile)
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().StringVar(&dumpInFile, "in", "", "packed file path (required)")
	dumpCmd.Flags().StringVar(&dumpLayoutFile, "layout", "", "layout file path (overrides sidecar metadata)")
	_ = dumpCmd.MarkFlagRequired("in")
}

// resolveLayout prefers an explicit layout file; otherwise it falls back to
// the sidecar metadata. Without metadata the record count is derived from
// the file size.
func resolveLayout(inFile, layoutFile string) (*layout.Layout, uint64, error) {
	if layoutFile != "" {
		lay, err := layout.Load(layoutFile)
		if err != nil {
			return nil, 0, err
		}
		info, err := os.Stat(inFile)
		if err != nil {
			return nil, 0, err
		}
		records := uint64(info.Size()) * 8 / uint64(lay.TotalBits())
		return lay, records, nil
	}

	meta, err := layout.LoadMeta(inFile)
	if err != nil {
		return nil, 0, fmt.Errorf("no sidecar metadata for %v (use --layout): %w", inFile, err)
	}
	return &meta.Layout, meta.Records, nil
}

func dumpFile(lay *layout.Layout, records uint64, inFile string) error {
	order, err := lay.Order()
	if err != nil {
		return err
	}

	fs, err := stream.OpenFileStream(inFile)
	if err != nil {
		return err
	}
	r, err := bitstream.NewReader(fs, bitstream.WithByteOrder(order), bitstream.OrderLocked())
	if err != nil {
		_ = fs.Close()
		return err
	}
	defer r.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"record", "field", "bits", "value", "hex"})

	for rec := uint64(0); rec < records; rec++ {
		values, err := lay.Unpack(r)
		if err != nil {
			return err
		}
		for i, f := range lay.Fields {
			table.Append([]string{
				strconv.FormatUint(rec, 10),
				f.Name,
				strconv.FormatUint(uint64(f.Bits), 10),
				strconv.FormatUint(values[i], 10),
				fmt.Sprintf("%#x", values[i]),
			})
		}
	}

	table.Render()
	return nil
}
