// Package signature computes structural fingerprints for shape-based
// classification and learned-rule lookup. Two records with identical
// field-name sets always yield the same signature, regardless of values
// or field order: the scheme classifies by shape, not by value.
package signature

import (
	"sort"
	"strings"

	"github.com/amehdaoui/coursepipe/core"
)

// Empty is the signature of a nil or empty record.
const Empty = "empty"

// PageEmpty is the page signature of an empty activity list.
const PageEmpty = "page:empty"

// Struct fingerprints a single record by its sorted field names.
// Example: {LeftItems, RightItems, Text} → "struct:LeftItems|RightItems|Text".
func Struct(props core.Properties) string {
	if len(props) == 0 {
		return Empty
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "struct:" + strings.Join(keys, "|")
}

// Page fingerprints a whole page by the multiset of dialect-native kind
// tags of its activities (canonical type when no kind tag is present).
func Page(activities []core.Activity) string {
	if len(activities) == 0 {
		return PageEmpty
	}
	tags := make([]string, 0, len(activities))
	for _, a := range activities {
		tag := a.OriginalType
		if tag == "" {
			tag = a.Type
		}
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return PageEmpty
	}
	sort.Strings(tags)
	return "page:" + strings.Join(tags, "+")
}

// knownShapes maps exact struct signatures to canonical activity types.
var knownShapes = map[string]string{
	"struct:LeftItems|RightItems|Text": core.TypeConnecting,
	"struct:Items|Text":                core.TypeOrdering,
	"struct:Pairs|Text":                core.TypeMemoryGame,
	"struct:Content|Text":              core.TypeKaraoke,
	"struct:SelectionCorrect|Text":     core.TypeIdentification,
	"struct:URL|VideoUrl":              core.TypeVideo,
}

// KnownShapes returns a copy of the exact-signature classification table.
func KnownShapes() map[string]string {
	out := make(map[string]string, len(knownShapes))
	for k, v := range knownShapes {
		out[k] = v
	}
	return out
}

// GuessType classifies a property bag by shape. It tries the exact known
// table first, then partial heuristics keyed on characteristic field names.
// It is pure and total: it never panics and returns UNCATEGORIZED on any
// unrecognized shape.
func GuessType(props core.Properties) string {
	if t, ok := knownShapes[Struct(props)]; ok {
		return t
	}

	_, left := props["LeftItems"]
	_, right := props["RightItems"]
	if left && right {
		return core.TypeConnecting
	}
	if _, ok := props["Pairs"]; ok {
		return core.TypeMemoryGame
	}
	if _, ok := props["SelectionCorrect"]; ok {
		return core.TypeIdentification
	}

	return core.TypeUncategorized
}
