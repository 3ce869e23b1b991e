package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fourscore/scoresv/histogram"
	"github.com/fourscore/scoresv/query"
	"github.com/fourscore/scoresv/sv"
)

var (
	reportQualities []string
	reportChord     string
	reportIntervals []string
	reportFollow    string
	reportTop       int
	reportIgnore    bool
	reportWeighted  bool
	reportHistogram string
)

func init() {
	reportCmd.Flags().StringSliceVar(&reportQualities, "triads", []string{"major", "minor"}, "triad qualities to compare")
	reportCmd.Flags().StringVar(&reportChord, "chord", "", "prime-form label to count, e.g. [0,4,7]")
	reportCmd.Flags().StringSliceVar(&reportIntervals, "intervals", nil, "interval names to search, e.g. A6,d3")
	reportCmd.Flags().StringVar(&reportFollow, "follow", "", "prime-form label whose successors to rank")
	reportCmd.Flags().IntVar(&reportTop, "top", 15, "how many successors to report")
	reportCmd.Flags().BoolVar(&reportIgnore, "ignore-first", false, "drop the most frequent successor")
	reportCmd.Flags().BoolVarP(&reportWeighted, "weighted", "w", false, "weight counts by slice length")
	reportCmd.Flags().StringVar(&reportHistogram, "histogram", "", "write a successor bar chart to this path")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <file.tsv>",
	Short: "Reports chord statistics for a slice file",
	Long:  `Reports triad proportions, chord-type and interval searches, and chord-succession statistics.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := sv.ReadFile(args[0])
		if err != nil {
			return err
		}
		primes := query.Primes(data)

		stats, err := query.CompareAllPrimes(primes, reportQualities, true, true)
		if err != nil {
			return err
		}
		for _, stat := range stats {
			fmt.Printf("%v: %v\n", stat.Name, stat.Value)
		}

		if reportChord != "" {
			count, measures := query.SetsOfType(data, reportChord, reportWeighted, true)
			fmt.Printf("%v: %v in measures %v\n", reportChord, count, measures)
		}
		if len(reportIntervals) > 0 {
			count, measures := query.IntervalsOfType(data, reportIntervals, reportWeighted, true)
			fmt.Printf("intervals %v: %v in measures %v\n", strings.Join(reportIntervals, ","), count, measures)
		}

		if reportFollow != "" {
			followed := query.FollowChord(primes, reportFollow, reportTop, reportIgnore)
			for _, s := range followed {
				label := s.Label
				if label == "" {
					label = "rest"
				}
				fmt.Printf("%v -> %v: %v\n", reportFollow, label, s.Count)
			}
			if reportHistogram != "" {
				title := fmt.Sprintf("Chords following %v", reportFollow)
				if err := histogram.Save(followed, title, reportHistogram); err != nil {
					return err
				}
				log.Info("wrote histogram", "path", reportHistogram)
			}
		}
		return nil
	},
}
