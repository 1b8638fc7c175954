package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExplainCmd() *cobra.Command {
	var graphPath string

	cmd := &cobra.Command{
		Use:   "explain <ingredient> <profile>",
		Short: "Explain why an ingredient is (or is not) risky for a profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := loadGraph(graphPath)
			if err != nil {
				return err
			}

			exp, ok := graph.ExplainRisk(args[0], args[1])
			if !ok {
				return fmt.Errorf("no knowledge about %q for profile %q", args[0], args[1])
			}

			if exp.IsRisky {
				fmt.Fprintf(os.Stdout, "%s is risky for %s:\n", exp.Ingredient, exp.Profile)
			} else {
				fmt.Fprintf(os.Stdout, "%s carries no flagged risk for %s:\n", exp.Ingredient, exp.Profile)
			}
			for _, step := range exp.Chain {
				fmt.Fprintf(os.Stdout, "  - %s\n", step)
			}
			if len(exp.Alternatives) > 0 {
				fmt.Fprintln(os.Stdout, "Safer substitutes:")
				for _, alt := range exp.Alternatives {
					fmt.Fprintf(os.Stdout, "  - %s\n", alt.Name)
				}
			}
			if len(exp.EvidenceURLs) > 0 {
				fmt.Fprintln(os.Stdout, "Evidence:")
				for _, url := range exp.EvidenceURLs {
					fmt.Fprintf(os.Stdout, "  %s\n", url)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&graphPath, "graph", "", "Path to a graph snapshot (default: compiled-in seed)")
	return cmd
}
