package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/learningdebunked/FAM/pkg/recommend"
	"github.com/learningdebunked/FAM/pkg/surface"
)

func newAlternativesCmd() *cobra.Command {
	var (
		productFile    string
		name           string
		ingredientsCSV string
		category       string
		profilesCSV    string
		catalogPath    string
		graphPath      string
		limit          int
		outputFmt      string
	)

	cmd := &cobra.Command{
		Use:   "alternatives",
		Short: "Recommend healthier alternatives from a product catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			engine, err := buildEngine(cfg)
			if err != nil {
				return err
			}
			graph, err := loadGraph(graphPath)
			if err != nil {
				return err
			}

			product, err := loadProduct(productFile, name, ingredientsCSV, category)
			if err != nil {
				return err
			}
			profiles := splitProfiles(profilesCSV)

			catalog, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			index, err := recommend.BuildIndex(engine.Extractor(), catalog)
			if err != nil {
				return fmt.Errorf("building similarity index: %w", err)
			}
			recommender, err := recommend.New(engine, index, graph)
			if err != nil {
				return err
			}

			score, err := engine.Score(product, profiles)
			if err != nil {
				return err
			}
			alts, err := recommender.FindAlternatives(product, profiles, limit)
			if err != nil {
				return err
			}

			renderer, err := rendererFor(outputFmt)
			if err != nil {
				return err
			}
			report := &surface.Report{
				ProductName:  product.Name,
				Profiles:     profiles,
				Result:       score,
				Alternatives: alts,
			}
			return renderer.Render(os.Stdout, report)
		},
	}

	cmd.Flags().StringVar(&productFile, "product", "", "Path to a product JSON file")
	cmd.Flags().StringVar(&name, "name", "", "Product name (with --ingredients)")
	cmd.Flags().StringVar(&ingredientsCSV, "ingredients", "", "Comma-separated ingredient list")
	cmd.Flags().StringVar(&category, "category", "", "Product category")
	cmd.Flags().StringVar(&profilesCSV, "profiles", "", "Comma-separated health profiles")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a product catalog JSON array (required)")
	cmd.Flags().StringVar(&graphPath, "graph", "", "Path to a graph snapshot (default: compiled-in seed)")
	cmd.Flags().IntVar(&limit, "limit", 5, "Maximum number of alternatives")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text, json, or markdown")
	_ = cmd.MarkFlagRequired("catalog")

	return cmd
}
