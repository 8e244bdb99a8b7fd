// Package normalize implements the activity post-processor. It merges
// positionally-related choice rows into single activities, maps
// dialect-native type tags onto the canonical vocabulary, and derives
// memory-game cards from raw property bags.
package normalize

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/amehdaoui/coursepipe/core"
)

// rowBucket is the vertical grid step used to group choice options that
// belong to the same question row. The value is tied to the authoring
// tool's layout grid; overlapping or oddly-spaced rows are a documented
// heuristic limitation.
const rowBucket = 40

// Yes/no option labels used to tell TRUE_FALSE rows from generic
// multi-choice rows.
var trueFalseTokens = []string{"نعم", "لا"}

const (
	instructionTrueFalse   = "أُجِيبُ بِـ نَعَمْ أَوْ لاَ:"
	instructionMultiChoice = "أَخْتَارُ الْإِجَابَةَ الصَّحِيحَةَ:"
	questionDefault        = "اِخْتَرِ الْإِجَابَةَ الصَّحِيحَةَ:"
)

// ChoiceRow is one scattered answer-option record waiting to be merged
// with its row neighbors.
type ChoiceRow struct {
	Option core.Option
	PosY   int
}

// MergeChoiceRows folds scattered choice rows into TRUE_FALSE or
// MULTI_CHOICE activities, one per vertical bucket, appended after the
// already-complete activities.
func MergeChoiceRows(activities []core.Activity, rows []ChoiceRow) []core.Activity {
	if len(rows) == 0 {
		return activities
	}

	buckets := make(map[int][]core.Option)
	for _, r := range rows {
		key := ((r.PosY + rowBucket/2) / rowBucket) * rowBucket
		buckets[key] = append(buckets[key], r.Option)
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := activities
	for _, k := range keys {
		options := buckets[k]
		kind := core.TypeMultiChoice
		instruction := instructionMultiChoice
		if hasTrueFalseLabels(options) {
			kind = core.TypeTrueFalse
			instruction = instructionTrueFalse
		}
		out = append(out, core.Activity{
			ID:          uuid.NewString(),
			Type:        kind,
			Instruction: instruction,
			Question:    questionDefault,
			Options:     options,
			Selected:    true,
		})
	}
	return out
}

func hasTrueFalseLabels(options []core.Option) bool {
	for _, o := range options {
		for _, tok := range trueFalseTokens {
			if strings.Contains(o.Label, tok) {
				return true
			}
		}
	}
	return false
}

// typeRule maps a dialect-native tag token to a canonical type. Rules are
// ordered: specific tokens must match before the generic ones they contain.
type typeRule struct {
	token     string
	canonical string
}

var typeRules = []typeRule{
	{"truefalse", core.TypeTrueFalse},
	{"connection", core.TypeConnecting},
	{"ordering", core.TypeOrdering},
	{"text_selection", core.TypeTextSelect},
	{"limited_selection", core.TypeChoice},
	{"text_identification", core.TypeChoice},
	{"external_link_button", core.TypeStory},
	{"heading", core.TypeSplash},
	{"header", core.TypeSplash},
	{"title", core.TypeSplash},
	{"image", core.TypeSplashImage},
	{"picture", core.TypeSplashImage},
	{"photo", core.TypeSplashImage},
	{"video", core.TypeVideo},
	{"youtube", core.TypeVideo},
	{"choice", core.TypeChoice},
	{"selection", core.TypeChoice},
	{"quiz", core.TypeChoice},
	{"text", core.TypeParagraph},
	{"content", core.TypeParagraph},
	{"parag", core.TypeParagraph},
}

// MapType maps a dialect-native type tag onto the canonical vocabulary.
// Unknown tags map to UNCATEGORIZED.
func MapType(nativeTag string) string {
	tag := strings.ToLower(nativeTag)
	for _, r := range typeRules {
		if strings.Contains(tag, r.token) {
			return r.canonical
		}
	}
	return core.TypeUncategorized
}

// memorySlots is the maximum number of indexed card pairs scanned from a
// property bag.
const memorySlots = 20

// Pair-side property name prefixes, checked in order.
var (
	sideAKeys = []string{"A (text)", "Item A", "Pair A"}
	sideBKeys = []string{"B (text)", "Item B", "Pair B"}
)

// DeriveCards re-derives memory-game cards and grid configuration from a
// raw property bag. The extractor and the exchange exporter both call this
// so exchange documents stay self-sufficient even when produced from a
// guessed, property-only activity.
func DeriveCards(props core.Properties) ([]core.Card, *core.MemoryConfig) {
	config := &core.MemoryConfig{
		Columns:     atoiDefault(props["Columns"], 4),
		Rows:        atoiDefault(props["Rows"], 3),
		StyleACover: props["Image for style A"],
		StyleBCover: props["Image for style B"],
	}

	var cards []core.Card
	for i := 1; i <= memorySlots; i++ {
		suffix := ""
		if i > 1 {
			suffix = " " + strconv.Itoa(i)
		}

		aText := firstProp(props, sideAKeys, suffix)
		aImg := props["A (image)"+suffix]
		bText := firstProp(props, sideBKeys, suffix)
		bImg := props["B (image)"+suffix]

		if aText != "" || aImg != "" {
			cards = append(cards, card(i, aImg, aText))
		}
		if bText != "" || bImg != "" {
			cards = append(cards, card(i, bImg, bText))
		}
	}
	return cards, config
}

func card(id int, img, text string) core.Card {
	if img != "" {
		return core.Card{ID: id, Kind: "img", Val: img}
	}
	return core.Card{ID: id, Kind: "txt", Val: text}
}

func firstProp(props core.Properties, keys []string, suffix string) string {
	for _, k := range keys {
		if v := props[k+suffix]; v != "" {
			return v
		}
	}
	return ""
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
