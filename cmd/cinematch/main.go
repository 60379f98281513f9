package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cinematch",
	Short: "Recommend Hollywood and Bollywood movies from the local datasets",
	Long: `cinematch loads the same datasets as the server and prints
recommendations to the terminal.

Examples:
  cinematch recommend --industry Hollywood --user 196 --genre Comedy
  cinematch recommend --industry Bollywood --genre drama --count 3
  cinematch genres`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "log dataset loading and lookups")
	rootCmd.AddCommand(recommendCmd, genresCmd, usersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
