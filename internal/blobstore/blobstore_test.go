package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStoragePutGetGraph(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	data := []byte(`{"version":1,"nodes":[]}`)
	if err := s.PutGraph(ctx, "seed-v1", data); err != nil {
		t.Fatalf("PutGraph: %v", err)
	}

	got, err := s.GetGraph(ctx, "seed-v1")
	if err != nil {
		t.Fatalf("GetGraph: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("GetGraph = %q, want %q", got, data)
	}

	// Verify file path layout
	expectedPath := filepath.Join(dir, "graphs", "seed-v1.json")
	if _, err := os.Stat(expectedPath); err != nil {
		t.Errorf("expected file at %s: %v", expectedPath, err)
	}
}

func TestLocalStoragePutGetModel(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	data := []byte(`{"version":1,"class_counts":{}}`)
	if err := s.PutModel(ctx, "classifier", data); err != nil {
		t.Fatalf("PutModel: %v", err)
	}

	got, err := s.GetModel(ctx, "classifier")
	if err != nil {
		t.Fatalf("GetModel: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("GetModel = %q, want %q", got, data)
	}

	expectedPath := filepath.Join(dir, "models", "classifier.json")
	if _, err := os.Stat(expectedPath); err != nil {
		t.Errorf("expected file at %s: %v", expectedPath, err)
	}
}

func TestLocalStorageGetNotFound(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	_, err := s.GetGraph(ctx, "nonexistent")
	if err == nil {
		t.Error("expected error for nonexistent graph")
	}
}
