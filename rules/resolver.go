package rules

import (
	"context"

	"github.com/amehdaoui/coursepipe/core"
)

// Resolver answers rule lookups for one page's extraction pass. It keeps a
// small in-memory cache so repeated lookups of the same signature within a
// pass hit the store once. Create a fresh Resolver per page; the cache is
// deliberately short-lived state, not ambient.
//
// Store failures are treated as cache misses: the pipeline proceeds
// without a learned rule.
type Resolver struct {
	store core.RuleStore
	cache map[string]*core.Rule
}

// NewResolver creates a Resolver over the given store. A nil store yields
// a resolver that never matches, which keeps extraction runnable without
// rule lookups.
func NewResolver(store core.RuleStore) *Resolver {
	return &Resolver{
		store: store,
		cache: make(map[string]*core.Rule),
	}
}

// Resolve returns the rule for a signature (or addon identifier), or nil
// when none is known. At most one rule is returned; a signature match wins
// over an addon match.
func (r *Resolver) Resolve(ctx context.Context, sig, addonID string) *core.Rule {
	if r == nil || r.store == nil {
		return nil
	}

	key := sig + "\x00" + addonID
	if cached, ok := r.cache[key]; ok {
		return cached
	}

	rule, err := r.store.Get(ctx, sig, addonID)
	if err != nil {
		// Degrade to a miss; lookups must never block extraction.
		rule = nil
	}
	r.cache[key] = rule
	return rule
}
