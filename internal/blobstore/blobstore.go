// Package blobstore abstracts durable blob storage for ontology graph
// snapshots and serialized model state (classifier params, feedback ledgers).
package blobstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Client abstracts blob storage for graph snapshots and model state.
type Client interface {
	PutGraph(ctx context.Context, graphID string, data []byte) error
	GetGraph(ctx context.Context, graphID string) ([]byte, error)
	PutModel(ctx context.Context, modelID string, data []byte) error
	GetModel(ctx context.Context, modelID string) ([]byte, error)
}

// LocalStorage implements Client using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(kind, id string) string {
	return filepath.Join(s.BaseDir, kind, id+".json")
}

func (s *LocalStorage) put(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// PutGraph stores a graph snapshot blob.
func (s *LocalStorage) PutGraph(ctx context.Context, graphID string, data []byte) error {
	return s.put(s.path("graphs", graphID), data)
}

// GetGraph retrieves a graph snapshot blob.
func (s *LocalStorage) GetGraph(ctx context.Context, graphID string) ([]byte, error) {
	return os.ReadFile(s.path("graphs", graphID))
}

// PutModel stores a model state blob.
func (s *LocalStorage) PutModel(ctx context.Context, modelID string, data []byte) error {
	return s.put(s.path("models", modelID), data)
}

// GetModel retrieves a model state blob.
func (s *LocalStorage) GetModel(ctx context.Context, modelID string) ([]byte, error) {
	return os.ReadFile(s.path("models", modelID))
}
