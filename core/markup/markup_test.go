package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"cdata and tags", "<![CDATA[<b>hello</b>&nbsp;world]]>", "hello world"},
		{"whitespace collapse", "  a \n\t b  ", "a b"},
		{"plain", "cat", "cat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestExtractContent(t *testing.T) {
	assert.Equal(t, "media/cat.png", ExtractContent(`<p><img src="media/cat.png" alt=""></p>`))
	assert.Equal(t, "just text", ExtractContent("<span>just text</span>"))
	assert.Equal(t, "", ExtractContent(""))
}

func TestDetectDirection(t *testing.T) {
	assert.Equal(t, "rtl", DetectDirection("أَرْبُطُ بِمَا يُنَاسِبُ"))
	assert.Equal(t, "ltr", DetectDirection("hello"))
	assert.Equal(t, "rtl", DetectDirection(""))
}

func TestCleanDocumentPassthrough(t *testing.T) {
	assert.Equal(t, "<div>x</div>", CleanDocument("  <div>x</div>  "))
}

func TestCleanDocumentFullPage(t *testing.T) {
	in := `<html><head><style>.a{color:red}</style><title>t</title></head>` +
		`<body><div>content</div><script>var x=1;</script></body></html>`
	out := CleanDocument(in)

	assert.Contains(t, out, "<style>.a{color:red}</style>")
	assert.Contains(t, out, "<div>content</div>")
	assert.Contains(t, out, "<script>var x=1;</script>")
	assert.NotContains(t, out, "<title>")
	// Styles first, body next, scripts last.
	assert.Less(t, strings.Index(out, "<style>"), strings.Index(out, "<div>"))
	assert.Less(t, strings.Index(out, "<div>"), strings.Index(out, "<script>"))
}

func TestParseTolerant(t *testing.T) {
	// Broken markup must not error, only degrade.
	doc, err := Parse("<page name=\"p1\"><textmodule id=\"TextC\"><text><![CDATA[hi]]></text>")
	assert.NoError(t, err)
	assert.Equal(t, "hi", doc.Find("textmodule text").Text())
}
