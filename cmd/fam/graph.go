package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/learningdebunked/FAM/pkg/ontology"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Inspect and export the ingredient knowledge graph",
	}
	cmd.AddCommand(newGraphStatsCmd(), newGraphExportCmd(), newGraphIngredientCmd(), newGraphProfileCmd())
	return cmd
}

func newGraphStatsCmd() *cobra.Command {
	var graphPath string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print node and edge counts by type",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(graphPath)
			if err != nil {
				return err
			}
			stats := g.Stats()
			fmt.Fprintf(os.Stdout, "Nodes: %d\n", stats.NodeCount)
			for _, typ := range []ontology.NodeType{ontology.NodeIngredient, ontology.NodeEffect, ontology.NodeCondition, ontology.NodeProfile} {
				fmt.Fprintf(os.Stdout, "  %-12s %d\n", typ, stats.NodesByType[typ])
			}
			fmt.Fprintf(os.Stdout, "Edges: %d\n", stats.EdgeCount)
			for rel, count := range stats.EdgesByRelation {
				fmt.Fprintf(os.Stdout, "  %-16s %d\n", rel, count)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&graphPath, "graph", "", "Path to a graph snapshot (default: compiled-in seed)")
	return cmd
}

func newGraphExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the compiled-in seed graph to a snapshot file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ontology.Save(out, ontology.Seed()); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Graph snapshot written: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "graph.json", "Output path")
	return cmd
}

func newGraphIngredientCmd() *cobra.Command {
	var graphPath string
	cmd := &cobra.Command{
		Use:   "ingredient <name>",
		Short: "Show everything known about one ingredient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(graphPath)
			if err != nil {
				return err
			}
			summary, ok := g.IngredientRisks(args[0])
			if !ok {
				return fmt.Errorf("unknown ingredient %q", args[0])
			}
			fmt.Fprintf(os.Stdout, "%s\n", summary.Ingredient.Name)
			if len(summary.Effects) > 0 {
				fmt.Fprintln(os.Stdout, "Effects:")
				for _, e := range summary.Effects {
					fmt.Fprintf(os.Stdout, "  - %s\n", e.Name)
				}
			}
			if len(summary.Conditions) > 0 {
				fmt.Fprintln(os.Stdout, "Linked conditions:")
				for _, c := range summary.Conditions {
					fmt.Fprintf(os.Stdout, "  - %s\n", c.Name)
				}
			}
			if len(summary.RiskyProfiles) > 0 {
				fmt.Fprintln(os.Stdout, "Risky for:")
				for _, p := range summary.RiskyProfiles {
					fmt.Fprintf(os.Stdout, "  - %s\n", p.Name)
				}
			}
			if len(summary.Alternatives) > 0 {
				fmt.Fprintln(os.Stdout, "Safer substitutes:")
				for _, a := range summary.Alternatives {
					fmt.Fprintf(os.Stdout, "  - %s\n", a.Name)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&graphPath, "graph", "", "Path to a graph snapshot (default: compiled-in seed)")
	return cmd
}

func newGraphProfileCmd() *cobra.Command {
	var graphPath string
	cmd := &cobra.Command{
		Use:   "profile <name>",
		Short: "List ingredients flagged as risky for a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(graphPath)
			if err != nil {
				return err
			}
			risks, ok := g.IngredientsRiskyForProfile(args[0])
			if !ok {
				return fmt.Errorf("unknown profile %q", args[0])
			}
			if len(risks) == 0 {
				fmt.Fprintf(os.Stdout, "No flagged ingredients for %s.\n", args[0])
				return nil
			}
			for _, r := range risks {
				fmt.Fprintf(os.Stdout, "  - %s\n", r.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&graphPath, "graph", "", "Path to a graph snapshot (default: compiled-in seed)")
	return cmd
}
