package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/amehdaoui/coursepipe/core"
	"github.com/amehdaoui/coursepipe/core/markup"
	"github.com/amehdaoui/coursepipe/core/normalize"
)

// Default activity instructions, used when a page carries no global
// instruction module. The source content is Arabic-first primary-school
// material; these are the stock phrasings its teachers expect.
const (
	instructionConnecting = "أَرْبُطُ بِمَا يُنَاسِبُ:"
	instructionOrdering   = "أُرَتِّبُ مَا يَلِي:"
	instructionKaraoke    = "أَسْتَمِعُ وَأُكَرِّرُ:"
	instructionVideo      = "أُشَاهِدُ وَأَسْتَمِعُ:"
	instructionMemory     = "أَتَسَلَّى : أَخْتَارُ الْكَلِمَةَ وَ الصُّورَةَ الْمُنَاسِبَةَ لَهَا ."
	instructionGuessed    = "تمرين جديد:"
)

// defaultRegistry wires the built-in vendor shape handlers.
func defaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("Text_Selection", handleTextSelection)
	r.Register("Connection", handleConnecting)
	r.Register("Connecting", handleConnecting)
	r.Register("Ordering", handleOrdering)
	r.Register("Speech_Recognition", handleKaraoke)
	r.Register("text_identification", handleChoiceRow)
	r.Register("YouTube_Addon", handleVideo)
	r.Register("Video", handleVideo)

	r.RegisterMatch("karaoke-id", func(_, id string) bool {
		return strings.Contains(strings.ToLower(id), "karaoke")
	}, handleKaraoke)

	r.RegisterMatch("memory", func(addonID, _ string) bool {
		lower := strings.ToLower(addonID)
		return strings.Contains(lower, "memo") || strings.Contains(lower, "memory")
	}, handleMemory)

	return r
}

// handleConnecting extracts left/right item lists.
func handleConnecting(m *Module, _ string) *Outcome {
	return &Outcome{Activity: &core.Activity{
		Type:        core.TypeConnecting,
		Instruction: instructionConnecting,
		Data: map[string]any{
			"left":  splitLines(m.Props["LeftItems"]),
			"right": splitLines(m.Props["RightItems"]),
		},
	}}
}

func handleOrdering(m *Module, _ string) *Outcome {
	return &Outcome{Activity: &core.Activity{
		Type:        core.TypeOrdering,
		Instruction: instructionOrdering,
		Data: map[string]any{
			"items": splitLines(m.Props["Items"]),
		},
	}}
}

func handleKaraoke(m *Module, _ string) *Outcome {
	text := m.Props["Text"]
	if text == "" {
		text = m.Props["Content"]
	}
	return &Outcome{Activity: &core.Activity{
		Type:        core.TypeKaraoke,
		Instruction: instructionKaraoke,
		Data:        map[string]any{"text": text},
	}}
}

// handleChoiceRow emits a scattered answer option keyed by its vertical
// layout position; the post-processor merges same-row options later.
func handleChoiceRow(m *Module, _ string) *Outcome {
	top := 0
	if m.Sel != nil {
		if v, ok := m.Sel.Find("layouts > layout > absolute").First().Attr("top"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				top = n
			}
		}
	}
	return &Outcome{ChoiceRow: &normalize.ChoiceRow{
		Option: core.Option{
			Label:   markup.CleanRaw(m.Props["Text"]),
			Correct: m.Props["SelectionCorrect"] == "True",
		},
		PosY: top,
	}}
}

// handleVideo parses the two known video URL shapes (youtu.be short links
// and watch?v= links).
func handleVideo(m *Module, _ string) *Outcome {
	url := m.Props["URL"]
	if url == "" {
		url = m.Props["VideoUrl"]
	}

	videoID := ""
	if _, after, ok := strings.Cut(url, "youtu.be/"); ok {
		videoID, _, _ = strings.Cut(after, "?")
	} else if _, after, ok := strings.Cut(url, "v="); ok {
		videoID, _, _ = strings.Cut(after, "&")
	}

	return &Outcome{Activity: &core.Activity{
		Type:        core.TypeVideo,
		Instruction: instructionVideo,
		Data:        map[string]any{"url": url, "videoId": videoID},
	}}
}

func handleMemory(m *Module, instruction string) *Outcome {
	cards, config := normalize.DeriveCards(m.Props)
	if instruction == "" {
		instruction = instructionMemory
	}
	return &Outcome{Activity: &core.Activity{
		Type:        core.TypeMemoryGame,
		Instruction: instruction,
		Config:      config,
		Cards:       cards,
	}}
}

var correctGroupRegex = regexp.MustCompile(`\\correct\{([^}]+)\}`)

// handleTextSelection turns marked-up evidence text into selectable
// word segments. Words inside \correct{...} groups are the evidence.
func handleTextSelection(m *Module, instruction string) *Outcome {
	raw := m.Props["Text"]

	// Shelter the correct-group contents from markup cleaning, clean the
	// body, then restore the groups with cleaned contents.
	var groups []string
	raw = correctGroupRegex.ReplaceAllStringFunc(raw, func(match string) string {
		content := correctGroupRegex.FindStringSubmatch(match)[1]
		groups = append(groups, markup.CleanRaw(content))
		return "___CORRECT_" + strconv.Itoa(len(groups)-1) + "___"
	})
	raw = markup.CleanRaw(raw)
	for i, g := range groups {
		raw = strings.Replace(raw, "___CORRECT_"+strconv.Itoa(i)+"___", `\correct{`+g+`}`, 1)
	}

	var segments []core.Segment
	last := 0
	for _, loc := range correctGroupRegex.FindAllStringSubmatchIndex(raw, -1) {
		segments = append(segments, wordSegments(raw[last:loc[0]], false)...)
		segments = append(segments, wordSegments(raw[loc[2]:loc[3]], true)...)
		last = loc[1]
	}
	segments = append(segments, wordSegments(raw[last:], false)...)

	return &Outcome{Activity: &core.Activity{
		Type:        core.TypeTextEvidence,
		Instruction: instruction,
		Data:        map[string]any{"segments": segments},
	}}
}

var spaceRunRegex = regexp.MustCompile(`\s+`)

// wordSegments splits text into selectable word segments, preserving the
// whitespace between them as plain text segments.
func wordSegments(text string, correct bool) []core.Segment {
	if text == "" {
		return nil
	}

	var out []core.Segment
	last := 0
	emitWord := func(w string) {
		if strings.TrimSpace(w) == "" {
			return
		}
		out = append(out, core.Segment{Kind: "selectable", Content: strings.TrimSpace(w), Correct: correct})
	}

	for _, loc := range spaceRunRegex.FindAllStringIndex(text, -1) {
		emitWord(text[last:loc[0]])
		out = append(out, core.Segment{Kind: "text", Content: text[loc[0]:loc[1]]})
		last = loc[1]
	}
	emitWord(text[last:])
	return out
}

// splitLines splits a newline-separated property value, dropping blanks.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, strings.TrimSpace(line))
		}
	}
	return out
}
