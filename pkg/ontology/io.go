package ontology

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotVersion is the current on-disk format version. Loads reject
// versions they do not understand.
const SnapshotVersion = 1

// SnapshotDoc is the serialized form of a graph.
type SnapshotDoc struct {
	Version int    `json:"version"`
	Nodes   []Node `json:"nodes"`
	Edges   []Edge `json:"edges"`
}

// Marshal serializes the graph to its snapshot document form.
func Marshal(g *Graph) ([]byte, error) {
	doc := SnapshotDoc{Version: SnapshotVersion, Edges: g.Edges()}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, *n)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling graph snapshot: %w", err)
	}
	return data, nil
}

// Unmarshal parses a snapshot document and rebuilds a validated graph.
// A snapshot that fails validation is rejected wholesale.
func Unmarshal(data []byte) (*Graph, error) {
	var doc SnapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling graph snapshot: %w", err)
	}
	if doc.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported graph snapshot version %d (want %d)", doc.Version, SnapshotVersion)
	}
	b := NewBuilder()
	for _, n := range doc.Nodes {
		b.AddNode(n)
	}
	for _, e := range doc.Edges {
		b.AddEdge(e)
	}
	g, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("validating graph snapshot: %w", err)
	}
	return g, nil
}

// Save writes a graph snapshot to disk as JSON.
func Save(path string, g *Graph) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for snapshot: %w", err)
	}
	data, err := Marshal(g)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Load reads a graph snapshot from disk.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return Unmarshal(data)
}
