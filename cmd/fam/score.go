package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/learningdebunked/FAM/internal/analysis"
	"github.com/learningdebunked/FAM/pkg/personalize"
	"github.com/learningdebunked/FAM/pkg/surface"
)

func newScoreCmd() *cobra.Command {
	var (
		productFile    string
		name           string
		ingredientsCSV string
		category       string
		profilesCSV    string
		graphPath      string
		ledgerPath     string
		userID         string
		outputFmt      string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a product for a set of health profiles",
		Long: `Scores a product's ingredients and nutrition against the given health
profiles and explains every flagged ingredient.`,
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

			var personal *personalize.Engine
			if ledgerPath != "" {
				personal, err = personalize.Load(ledgerPath)
				if err != nil {
					return fmt.Errorf("loading feedback ledger: %w", err)
				}
			}

			product, err := loadProduct(productFile, name, ingredientsCSV, category)
			if err != nil {
				return err
			}
			profiles := splitProfiles(profilesCSV)

			svc, err := analysis.NewService(cfg.Analysis, engine, graph, nil, personal, nil)
			if err != nil {
				return err
			}
			result, err := svc.AnalyzeProduct(cmd.Context(), product, profiles, userID)
			if err != nil {
				return err
			}

			renderer, err := rendererFor(outputFmt)
			if err != nil {
				return err
			}
			report := &surface.Report{
				ProductName:  product.Name,
				Barcode:      product.Barcode,
				Profiles:     profiles,
				Result:       result.Score,
				Adjustment:   result.Adjustment,
				Explanations: result.Explanations,
			}
			return renderer.Render(os.Stdout, report)
		},
	}

	cmd.Flags().StringVar(&productFile, "product", "", "Path to a product JSON file")
	cmd.Flags().StringVar(&name, "name", "", "Product name (with --ingredients)")
	cmd.Flags().StringVar(&ingredientsCSV, "ingredients", "", "Comma-separated ingredient list")
	cmd.Flags().StringVar(&category, "category", "", "Product category")
	cmd.Flags().StringVar(&profilesCSV, "profiles", "", "Comma-separated health profiles (e.g. child,diabetic)")
	cmd.Flags().StringVar(&graphPath, "graph", "", "Path to a graph snapshot (default: compiled-in seed)")
	cmd.Flags().StringVar(&ledgerPath, "ledger", "", "Path to a feedback ledger for personalization")
	cmd.Flags().StringVar(&userID, "user", "", "User ID for personalized scoring (with --ledger)")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text, json, or markdown")

	return cmd
}
