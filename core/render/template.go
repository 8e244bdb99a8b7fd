// Package render — template renderer and output renderers.
// This file implements learned-rule template substitution: named
// {{placeholder}} tokens are replaced with record values.
package render

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/amehdaoui/coursepipe/core"
)

// rawJSONPlaceholder substitutes the entire data record's JSON text.
const rawJSONPlaceholder = "{{RAW_JSON}}"

var placeholderRegex = regexp.MustCompile(`\{\{[^{}]+\}\}`)

// Template substitutes every {{field}} placeholder in tpl with the matching
// value from data. Values are inserted as literal text, never as patterns,
// so metacharacters in names or values cannot mis-fire. Object and array
// values are serialized to JSON text. A placeholder with no matching field
// renders as empty string; a field with no placeholder is dropped
// silently. Empty data returns tpl unchanged, placeholders included.
func Template(tpl string, data map[string]any) string {
	if len(data) == 0 {
		return tpl
	}

	out := tpl
	for key, value := range data {
		out = strings.ReplaceAll(out, "{{"+key+"}}", valueText(value))
	}

	if strings.Contains(out, rawJSONPlaceholder) {
		raw, err := json.Marshal(data)
		if err != nil {
			raw = []byte("{}")
		}
		out = strings.ReplaceAll(out, rawJSONPlaceholder, string(raw))
	}

	return placeholderRegex.ReplaceAllString(out, "")
}

// TemplateProps renders a taught template against a raw property bag.
func TemplateProps(tpl string, props core.Properties) string {
	data := make(map[string]any, len(props))
	for k, v := range props {
		data[k] = v
	}
	return Template(tpl, data)
}

// valueText converts a data value to its substitution text.
func valueText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}
