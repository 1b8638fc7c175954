package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/learningdebunked/FAM/pkg/config"
	"github.com/learningdebunked/FAM/pkg/features"
	"github.com/learningdebunked/FAM/pkg/ontology"
	"github.com/learningdebunked/FAM/pkg/scoring"
	"github.com/learningdebunked/FAM/pkg/surface"
)

// loadConfig finds and loads the nearest .fam/config.yaml, falling back to
// defaults.
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return config.DefaultConfig(), nil
	}
	return config.Load(config.FindConfigFile(cwd))
}

// buildEngine assembles a scoring engine from config: extractor, compiled-in
// risk table, and a classifier trained from that table.
func buildEngine(cfg *config.Config) (*scoring.Engine, error) {
	extractor, err := features.NewExtractor(cfg.Features)
	if err != nil {
		return nil, fmt.Errorf("building extractor: %w", err)
	}
	table := scoring.DefaultRiskTable()
	matcher, err := scoring.NewSubstringMatcher(table)
	if err != nil {
		return nil, fmt.Errorf("building matcher: %w", err)
	}
	classifier, err := scoring.TrainFromTable(table, scoring.DefaultSafeIngredients())
	if err != nil {
		return nil, fmt.Errorf("training classifier: %w", err)
	}
	return scoring.NewEngine(cfg.Scoring, extractor, matcher, classifier)
}

// loadGraph reads a graph snapshot from path, or returns the compiled-in
// seed when path is empty.
func loadGraph(path string) (*ontology.Graph, error) {
	if path == "" {
		return ontology.Seed(), nil
	}
	g, err := ontology.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading graph snapshot: %w", err)
	}
	return g, nil
}

// loadProduct reads a product either from a JSON file or from the
// name/ingredients flags.
func loadProduct(file, name, ingredientsCSV, category string) (features.Product, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return features.Product{}, fmt.Errorf("reading product file: %w", err)
		}
		var p features.Product
		if err := json.Unmarshal(data, &p); err != nil {
			return features.Product{}, fmt.Errorf("parsing product file: %w", err)
		}
		return p, nil
	}
	if ingredientsCSV == "" {
		return features.Product{}, fmt.Errorf("either --product or --ingredients is required")
	}
	var ingredients []string
	for _, ing := range strings.Split(ingredientsCSV, ",") {
		if ing = strings.TrimSpace(ing); ing != "" {
			ingredients = append(ingredients, ing)
		}
	}
	return features.Product{Name: name, Category: category, Ingredients: ingredients}, nil
}

// loadCatalog reads a JSON array of products used as the alternatives pool.
func loadCatalog(path string) ([]features.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var products []features.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return products, nil
}

func splitProfiles(csv string) []string {
	var profiles []string
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			profiles = append(profiles, p)
		}
	}
	return profiles
}

func rendererFor(format string) (surface.Renderer, error) {
	switch format {
	case "text", "":
		return &surface.TerminalRenderer{}, nil
	case "json":
		return &surface.JSONRenderer{}, nil
	case "markdown":
		return &surface.MarkdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json, or markdown)", format)
	}
}
