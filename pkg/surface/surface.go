// Package surface defines output rendering for analysis results.
// Implementations handle different output targets: terminal, Markdown, JSON.
package surface

import (
	"io"

	"github.com/learningdebunked/FAM/pkg/ontology"
	"github.com/learningdebunked/FAM/pkg/recommend"
	"github.com/learningdebunked/FAM/pkg/scoring"
)

// Report is the renderable view of one product analysis.
type Report struct {
	ProductName  string                  `json:"product_name"`
	Barcode      string                  `json:"barcode,omitempty"`
	Profiles     []string                `json:"profiles,omitempty"`
	Result       *scoring.ScoreResult    `json:"result"`
	Adjustment   float64                 `json:"personalization_adjustment,omitempty"`
	Alternatives []recommend.Alternative `json:"alternatives,omitempty"`
	Explanations []ontology.Explanation  `json:"explanations,omitempty"`
}

// Renderer produces formatted output from a Report.
type Renderer interface {
	// Render writes the formatted report to the writer.
	Render(w io.Writer, report *Report) error
}
