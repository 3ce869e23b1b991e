package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fourscore/scoresv/midiscore"
	"github.com/fourscore/scoresv/slicer"
	"github.com/fourscore/scoresv/sv"
)

var (
	extractOutDir    string
	extractDelimiter string
)

func init() {
	extractCmd.Flags().StringVarP(&extractOutDir, "out", "o", ".", "output directory")
	extractCmd.Flags().StringVarP(&extractDelimiter, "delimiter", "d", "tab", "field delimiter: tab or comma")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <score.mid>...",
	Short: "Extracts slice files from MIDI scores",
	Long:  `Chordifies each MIDI score and writes one slice file per input.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		delimiter, err := delimiterRune(extractDelimiter)
		if err != nil {
			return err
		}
		for i, path := range args {
			log.Info("processing score", "num", i+1, "of", len(args), "path", path)
			if err := extractOne(path, delimiter); err != nil {
				return fmt.Errorf("%v: %w", path, err)
			}
		}
		return nil
	},
}

func extractOne(path string, delimiter rune) error {
	score, err := midiscore.ReadFile(path)
	if err != nil {
		return err
	}
	data, err := slicer.Extract(score)
	if err != nil {
		return err
	}

	name := sv.FileName(score.Metadata())
	out, err := sv.WriteFile(data, extractOutDir, name, delimiter)
	if err != nil {
		return err
	}
	log.Info("wrote slice file", "path", out, "slices", len(data))
	return nil
}

func delimiterRune(name string) (rune, error) {
	switch name {
	case "tab", "\t":
		return '\t', nil
	case "comma", ",":
		return ',', nil
	default:
		return 0, fmt.Errorf("delimiter %q must be either tab or comma", name)
	}
}
