package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amehdaoui/coursepipe/core"
)

func TestRegistryExactBeatsMatcher(t *testing.T) {
	r := NewRegistry()
	r.RegisterMatch("any", func(_, _ string) bool { return true }, func(_ *Module, _ string) *Outcome {
		return &Outcome{Activity: &core.Activity{Type: "MATCHER"}}
	})
	r.Register("Known", func(_ *Module, _ string) *Outcome {
		return &Outcome{Activity: &core.Activity{Type: "EXACT"}}
	})

	out := r.Dispatch(&Module{AddonID: "Known"}, "")
	require.NotNil(t, out)
	assert.Equal(t, "EXACT", out.Activity.Type)
}

func TestRegistryNoMatch(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Dispatch(&Module{AddonID: "Nope"}, ""))
}

func TestRegistryMatcherOrder(t *testing.T) {
	r := defaultRegistry()

	out := r.Dispatch(&Module{AddonID: "Memo_Game", Props: core.Properties{}}, "")
	require.NotNil(t, out)
	assert.Equal(t, core.TypeMemoryGame, out.Activity.Type)

	out = r.Dispatch(&Module{AddonID: "custom", ID: "Karaoke_3", Props: core.Properties{"Text": "لا إله"}}, "")
	require.NotNil(t, out)
	assert.Equal(t, core.TypeKaraoke, out.Activity.Type)
}

func TestHandleVideoURLShapes(t *testing.T) {
	cases := []struct {
		name, url, want string
	}{
		{"short link", "https://youtu.be/dQw4w9WgXcQ?t=10", "dQw4w9WgXcQ"},
		{"watch link", "https://www.youtube.com/watch?v=abc123&list=PL9", "abc123"},
		{"opaque", "https://video.example.com/clip.mp4", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := handleVideo(&Module{Props: core.Properties{"URL": tc.url}}, "")
			require.NotNil(t, out)
			assert.Equal(t, core.TypeVideo, out.Activity.Type)
			assert.Equal(t, tc.url, out.Activity.Data["url"])
			assert.Equal(t, tc.want, out.Activity.Data["videoId"])
		})
	}
}

func TestHandleTextSelection(t *testing.T) {
	m := &Module{Props: core.Properties{
		"Text": `القط \correct{فوق} السطح`,
	}}
	out := handleTextSelection(m, "أختار الكلمة")
	require.NotNil(t, out)
	assert.Equal(t, core.TypeTextEvidence, out.Activity.Type)

	segments, ok := out.Activity.Data["segments"].([]core.Segment)
	require.True(t, ok)

	var selectable, correct []string
	for _, s := range segments {
		if s.Kind != "selectable" {
			continue
		}
		selectable = append(selectable, s.Content)
		if s.Correct {
			correct = append(correct, s.Content)
		}
	}
	assert.Equal(t, []string{"القط", "فوق", "السطح"}, selectable)
	assert.Equal(t, []string{"فوق"}, correct)
}

func TestHandleTextSelectionCleansMarkup(t *testing.T) {
	m := &Module{Props: core.Properties{
		"Text": `<p>The cat sat \correct{<b>here</b>} today</p>`,
	}}
	out := handleTextSelection(m, "")
	segments := out.Activity.Data["segments"].([]core.Segment)

	var correct []string
	for _, s := range segments {
		if s.Correct {
			correct = append(correct, s.Content)
		}
	}
	assert.Equal(t, []string{"here"}, correct)
}
