// Package extract implements the dialect extractors. It turns one page's
// raw text into canonical activities plus a bucket of unclassified
// modules. Kind dispatch goes through a registry so new dialect handlers
// can be added and tested without touching existing ones.
package extract

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/amehdaoui/coursepipe/core"
	"github.com/amehdaoui/coursepipe/core/normalize"
)

// Module is one dialect-native content element before normalization.
// It never escapes the extraction pass.
type Module struct {
	ID      string
	AddonID string
	Props   core.Properties
	// Sel is the source element, kept for dialect-local follow-up such
	// as reading layout coordinates.
	Sel *goquery.Selection
}

// Outcome is what a shape handler produced for one module: either a
// complete activity or a scattered choice row waiting for the
// post-processor.
type Outcome struct {
	Activity  *core.Activity
	ChoiceRow *normalize.ChoiceRow
}

// Result is the extraction output for one page.
type Result struct {
	Activities   []core.Activity
	Unclassified []core.Unclassified
}

// RuleResolver answers learned-rule lookups during one extraction pass.
// A nil resolver disables lookups.
type RuleResolver interface {
	Resolve(ctx context.Context, signature, addonID string) *core.Rule
}

// Handler interprets one module of a known content kind.
type Handler func(m *Module, instruction string) *Outcome

// matcher is a predicate-based fallback for kinds that cannot be matched
// by exact identifier (naming conventions, identifier fragments).
type matcher struct {
	name  string
	match func(addonID, id string) bool
	fn    Handler
}

// Registry maps kind identifiers to shape handlers.
type Registry struct {
	exact     map[string]Handler
	fallbacks []matcher
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{exact: make(map[string]Handler)}
}

// Register binds a handler to an exact kind identifier.
func (r *Registry) Register(kind string, fn Handler) {
	r.exact[kind] = fn
}

// RegisterMatch binds a handler to a kind predicate, tried after exact
// identifiers in registration order.
func (r *Registry) RegisterMatch(name string, match func(addonID, id string) bool, fn Handler) {
	r.fallbacks = append(r.fallbacks, matcher{name: name, match: match, fn: fn})
}

// Dispatch runs the first matching handler, or returns nil when no handler
// claims the module.
func (r *Registry) Dispatch(m *Module, instruction string) *Outcome {
	if fn, ok := r.exact[m.AddonID]; ok {
		return fn(m, instruction)
	}
	for _, f := range r.fallbacks {
		if f.match(m.AddonID, m.ID) {
			return f.fn(m, instruction)
		}
	}
	return nil
}
