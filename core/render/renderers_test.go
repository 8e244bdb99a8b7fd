package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amehdaoui/coursepipe/core"
)

func samplePage() (*core.ConvertedPage, *core.ExchangeDocument) {
	page := &core.ConvertedPage{
		Version:   "1.0",
		Timestamp: "2025-03-01T10:00:00Z",
		Page:      "درس الربط",
		Activities: []core.Activity{
			{
				ID:          "a1",
				Type:        core.TypeTrueFalse,
				Instruction: "أجيب بنعم أو لا",
				Options: []core.Option{
					{Label: "نعم", Correct: true},
					{Label: "لا", Correct: false},
				},
			},
			{
				ID:       "a2",
				Type:     core.TypeLearned,
				Template: "<div><b>قمر</b> = moon</div>",
			},
		},
		Unclassified: []core.Unclassified{{ID: "m9", AddonID: "Mystery"}},
	}
	doc := &core.ExchangeDocument{
		Version:      "1.0",
		Page:         page.Page,
		ActivityType: core.TypeTrueFalse,
	}
	return page, doc
}

func TestJSONRenderer(t *testing.T) {
	page, doc := samplePage()
	out, err := NewJSONRenderer().Render(page, doc)
	require.NoError(t, err)

	var envelope struct {
		Page     core.ConvertedPage    `json:"page"`
		Exchange core.ExchangeDocument `json:"exchange"`
	}
	require.NoError(t, json.Unmarshal(out, &envelope))
	assert.Equal(t, "درس الربط", envelope.Page.Page)
	assert.Equal(t, core.TypeTrueFalse, envelope.Exchange.ActivityType)
	assert.Len(t, envelope.Page.Activities, 2)
	assert.Equal(t, ".json", NewJSONRenderer().Extension())
}

func TestMarkdownRenderer(t *testing.T) {
	page, doc := samplePage()
	out, err := NewMarkdownRenderer().Render(page, doc)
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "# درس الربط\n"))
	assert.Contains(t, md, "Main activity: TRUE_FALSE")
	assert.Contains(t, md, "- [x] نعم")
	assert.Contains(t, md, "- [ ] لا")
	assert.Contains(t, md, "**قمر**")
	assert.Contains(t, md, "`m9` (Mystery)")
	assert.Equal(t, ".md", NewMarkdownRenderer().Extension())
}

func TestPDFRenderer(t *testing.T) {
	page, doc := samplePage()
	out, err := NewPDFRenderer().Render(page, doc)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
	assert.Equal(t, ".pdf", NewPDFRenderer().Extension())
}
