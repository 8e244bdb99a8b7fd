// Package render — JSON renderer.
// Emits the converted page and its exchange document as one indented
// JSON envelope for downstream importers.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/amehdaoui/coursepipe/core"
)

// JSONRenderer produces the machine-readable conversion output.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

type jsonEnvelope struct {
	Page     *core.ConvertedPage    `json:"page"`
	Exchange *core.ExchangeDocument `json:"exchange"`
}

// Render serializes the page and exchange document.
func (r *JSONRenderer) Render(page *core.ConvertedPage, doc *core.ExchangeDocument) ([]byte, error) {
	out, err := json.MarshalIndent(jsonEnvelope{Page: page, Exchange: doc}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling page %s: %w", page.Page, err)
	}
	return out, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
