// Package main provides the fam CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "fam",
		Short: "Food health scoring for real people",
		Long: `fam scores packaged food against the health profiles of the people who
will eat it, explains why ingredients are risky, and suggests healthier
alternatives.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newScoreCmd(),
		newExplainCmd(),
		newAlternativesCmd(),
		newGraphCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
