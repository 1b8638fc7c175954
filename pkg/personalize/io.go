package personalize

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// docVersion is the on-disk ledger format version.
const docVersion = 1

type ledgerDoc struct {
	Version int     `json:"version"`
	Events  []Event `json:"events"`
}

// Save writes the feedback ledger to disk as JSON. Preference state is not
// serialized; it is rebuilt by replaying the ledger on load.
func (e *Engine) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for ledger: %w", err)
	}
	doc := ledgerDoc{Version: docVersion, Events: e.Events()}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling ledger: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	return nil
}

// Load reads a ledger file and replays it into a fresh engine.
func Load(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	var doc ledgerDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling ledger: %w", err)
	}
	if doc.Version != docVersion {
		return nil, fmt.Errorf("unsupported ledger version %d (want %d)", doc.Version, docVersion)
	}
	e := NewEngine()
	e.Replay(doc.Events)
	return e, nil
}
