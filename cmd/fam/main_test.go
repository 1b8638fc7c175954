package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/learningdebunked/FAM/pkg/features"
)

func TestLoadProductFromFlags(t *testing.T) {
	p, err := loadProduct("", "Neon Cola", "Carbonated Water, Red 40 , ,Caffeine", "Beverages")
	if err != nil {
		t.Fatalf("loadProduct: %v", err)
	}
	want := []string{"Carbonated Water", "Red 40", "Caffeine"}
	if !reflect.DeepEqual(p.Ingredients, want) {
		t.Errorf("Ingredients = %v, want %v", p.Ingredients, want)
	}
	if p.Name != "Neon Cola" || p.Category != "Beverages" {
		t.Errorf("product = %+v", p)
	}
}

func TestLoadProductFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "product.json")
	src := features.Product{
		Barcode:     "0123",
		Name:        "Oat Crisps",
		Ingredients: []string{"Oats", "Sea Salt"},
		Nutrition:   map[string]float64{"fiber": 6},
	}
	data, err := json.Marshal(src)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	p, err := loadProduct(path, "", "", "")
	if err != nil {
		t.Fatalf("loadProduct: %v", err)
	}
	if p.Barcode != "0123" || len(p.Ingredients) != 2 || p.Nutrition["fiber"] != 6 {
		t.Errorf("product = %+v", p)
	}
}

func TestLoadProductRequiresInput(t *testing.T) {
	if _, err := loadProduct("", "", "", ""); err == nil {
		t.Fatal("expected error with no product source")
	}
}

func TestSplitProfiles(t *testing.T) {
	got := splitProfiles(" child , diabetic ,,")
	want := []string{"child", "diabetic"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitProfiles = %v, want %v", got, want)
	}
	if splitProfiles("") != nil {
		t.Error("empty input should give nil")
	}
}

func TestRendererFor(t *testing.T) {
	for _, format := range []string{"", "text", "json", "markdown"} {
		if _, err := rendererFor(format); err != nil {
			t.Errorf("rendererFor(%q) error: %v", format, err)
		}
	}
	if _, err := rendererFor("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestBuildEngineFromDefaults(t *testing.T) {
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	engine, err := buildEngine(cfg)
	if err != nil {
		t.Fatalf("buildEngine: %v", err)
	}
	result, err := engine.Score(features.Product{
		Name:        "Rainbow Chews",
		Ingredients: []string{"Sugar", "Red 40"},
	}, []string{"child"})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if result.FlaggedCount == 0 {
		t.Error("expected flags for sugar and dye")
	}
}
