package cmd

import (
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fourscore/scoresv/reseg"
	"github.com/fourscore/scoresv/sv"
)

var (
	resegWidth  float64
	resegOutDir string
)

func init() {
	resegCmd.Flags().Float64VarP(&resegWidth, "width", "s", reseg.Auto, "target slice width in quarter notes (0 infers the minimum present)")
	resegCmd.Flags().StringVarP(&resegOutDir, "out", "o", ".", "output directory")
	rootCmd.AddCommand(resegCmd)
}

var resegCmd = &cobra.Command{
	Use:   "reseg <file.tsv>",
	Short: "Re-quantizes a slice file to a uniform width",
	Long: `Re-quantizes a slice file to equal-width slices and writes the
MIDI-number representation, one line per non-rest slice.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := sv.ReadFile(args[0])
		if err != nil {
			return err
		}
		even, err := reseg.EvenSlices(data, resegWidth)
		if err != nil {
			return err
		}

		out, err := reseg.WriteMIDIFile(even, resegOutDir, filepath.Base(args[0]))
		if err != nil {
			return err
		}
		log.Info("wrote midi numbers", "path", out, "slices", len(even))
		return nil
	},
}
