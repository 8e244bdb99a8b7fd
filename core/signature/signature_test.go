package signature

import (
	"testing"

	"github.com/amehdaoui/coursepipe/core"
	"github.com/stretchr/testify/assert"
)

func TestStructIgnoresValuesAndOrder(t *testing.T) {
	a := core.Properties{"Text": "cat", "LeftItems": "a\nb", "RightItems": "1\n2"}
	b := core.Properties{"RightItems": "x", "LeftItems": "", "Text": "something else"}

	assert.Equal(t, "struct:LeftItems|RightItems|Text", Struct(a))
	assert.Equal(t, Struct(a), Struct(b))
}

func TestStructEmpty(t *testing.T) {
	assert.Equal(t, Empty, Struct(nil))
	assert.Equal(t, Empty, Struct(core.Properties{}))
}

func TestPage(t *testing.T) {
	acts := []core.Activity{
		{OriginalType: "Connection"},
		{Type: core.TypeParagraph},
		{OriginalType: "Ordering"},
	}
	assert.Equal(t, "page:Connection+Ordering+PARAGRAPH", Page(acts))
	assert.Equal(t, PageEmpty, Page(nil))
}

func TestKnownShapesRoundTrip(t *testing.T) {
	// Every entry in the known table must classify back to its declared type.
	for sig, want := range KnownShapes() {
		props := core.Properties{}
		fields := sig[len("struct:"):]
		for _, f := range splitFields(fields) {
			props[f] = "value"
		}
		assert.Equal(t, sig, Struct(props))
		assert.Equal(t, want, GuessType(props), "signature %s", sig)
	}
}

func splitFields(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '|' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}

func TestGuessTypePartial(t *testing.T) {
	tests := []struct {
		name  string
		props core.Properties
		want  string
	}{
		{"left-right pair", core.Properties{"LeftItems": "a", "RightItems": "b", "Extra": "x"}, core.TypeConnecting},
		{"pairs", core.Properties{"Pairs": "p", "Columns": "4"}, core.TypeMemoryGame},
		{"selection flag with unknown kind", core.Properties{"SelectionCorrect": "True", "Text": "cat"}, core.TypeIdentification},
		{"unknown shape", core.Properties{"Foo": "1", "Bar": "2"}, core.TypeUncategorized},
		{"nil", nil, core.TypeUncategorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GuessType(tt.props))
		})
	}
}
