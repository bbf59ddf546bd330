package cmd

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/spacemeshos/bitpack/layout"
	"github.com/spacemeshos/bitpack/shared"
)

var infoInFile string

// infoCmd prints the sidecar metadata of a packed file.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the sidecar metadata of a packed file",
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := layout.LoadMeta(infoInFile)
		if err != nil {
			return err
		}
		fmt.Printf("%v: %d record(s), %d bit(s) each (%d byte(s) total)\n",
			infoInFile, meta.Records,
			meta.Layout.TotalBits(),
			shared.BitsToBytes(uint(meta.Records)*meta.Layout.TotalBits()))
		spew.Dump(meta)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().StringVar(&infoInFile, "in", "", "packed file path (required)")
	_ = infoCmd.MarkFlagRequired("in")
}
