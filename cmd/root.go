package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scoresv",
	Short: "Harmonic slice extraction and statistics",
	Long: `Extracts chord/rest slices from scores, round-trips them through
separated-values files, and runs statistics over the results.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
