// Package render — exchange renderer.
// Emits only the flattened exchange document, the shape consumed by the
// teaching preview and external importers.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/amehdaoui/coursepipe/core"
)

// ExchangeRenderer produces the standalone exchange document.
type ExchangeRenderer struct{}

// NewExchangeRenderer creates an ExchangeRenderer.
func NewExchangeRenderer() *ExchangeRenderer {
	return &ExchangeRenderer{}
}

// Render serializes the exchange document.
func (r *ExchangeRenderer) Render(page *core.ConvertedPage, doc *core.ExchangeDocument) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling exchange document for page %s: %w", page.Page, err)
	}
	return out, nil
}

// Extension returns the file extension for exchange output.
func (r *ExchangeRenderer) Extension() string {
	return ".exchange.json"
}
