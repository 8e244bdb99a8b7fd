// Package export flattens converted pages into the exchange document and
// renderer block models consumed outside the pipeline.
package export

import (
	"fmt"
	"strings"

	"github.com/amehdaoui/coursepipe/core"
	"github.com/amehdaoui/coursepipe/core/markup"
	"github.com/amehdaoui/coursepipe/core/normalize"
)

// Version is the exchange document schema version.
const Version = "1.0"

// displayTypes never become the main activity while an interactive
// activity is present on the same page.
var displayTypes = map[string]bool{
	core.TypeParagraph: true,
	core.TypeSplash:    true,
	core.TypeVideo:     true,
}

// selfSufficientTypes carry their whole payload in dedicated top-level
// fields (cards/config, options). For these the loose fields are left
// out of the document.
var selfSufficientTypes = map[string]bool{
	core.TypeMemoryGame:  true,
	core.TypeChoice:      true,
	core.TypeTrueFalse:   true,
	core.TypeMultiChoice: true,
}

// Exchange flattens one converted page around its main activity.
// Pages with no activities produce a document with an empty activity
// type and the unclassified bucket intact.
func Exchange(page *core.ConvertedPage) *core.ExchangeDocument {
	doc := &core.ExchangeDocument{
		Version:      Version,
		Page:         page.Page,
		Cards:        []core.Card{},
		Audio:        audioCues(page.Unclassified),
		Unclassified: page.Unclassified,
	}

	main := mainActivity(page.Activities)
	if main == nil {
		return doc
	}

	doc.ActivityType = main.Type
	doc.Instruction = main.Instruction
	doc.Config = main.Config
	doc.Data = main.Data
	doc.Text = main.Text
	doc.Options = main.Options
	doc.Question = main.Question

	if len(main.Cards) > 0 {
		doc.Cards = main.Cards
	} else if main.Type == core.TypeMemoryGame && len(main.Properties) > 0 {
		// Learned memory pages carry pair properties but no derived
		// cards yet.
		cards, config := normalize.DeriveCards(main.Properties)
		doc.Cards = cards
		if doc.Config == nil {
			doc.Config = config
		}
	}

	doc.Direction = main.Direction
	if doc.Direction == "" {
		doc.Direction = markup.DetectDirection(main.Instruction + main.Text)
	}

	if selfSufficientTypes[main.Type] {
		doc.Data = nil
		doc.Text = ""
		doc.Unclassified = nil
	}
	return doc
}

// mainActivity picks the page's defining activity: the first interactive
// one, else the first of any kind.
func mainActivity(activities []core.Activity) *core.Activity {
	for i := range activities {
		if !displayTypes[activities[i].Type] {
			return &activities[i]
		}
	}
	if len(activities) > 0 {
		return &activities[0]
	}
	return nil
}

// audioCues scans orphan modules for feedback sounds. Authors drop
// loose audio addons named after the event they should play on.
func audioCues(unclassified []core.Unclassified) core.AudioCues {
	var cues core.AudioCues
	for _, u := range unclassified {
		src := audioSource(u.Properties)
		if src == "" {
			continue
		}
		id := strings.ToLower(u.ID)
		switch {
		case strings.Contains(id, "levelcorrect"), strings.Contains(id, "victory"), strings.Contains(id, "win"):
			cues.Victory = src
		case strings.Contains(id, "wrong"), strings.Contains(id, "error"):
			cues.Wrong = src
		case strings.Contains(id, "correct"):
			cues.Correct = src
		}
	}
	return cues
}

func audioSource(props core.Properties) string {
	for _, key := range []string{"mp3", "Mp3", "audio", "Audio", "ogg", "Ogg", "URL"} {
		if v := props[key]; v != "" {
			return v
		}
	}
	for _, v := range props {
		if strings.HasSuffix(strings.ToLower(v), ".mp3") || strings.HasSuffix(strings.ToLower(v), ".ogg") {
			return v
		}
	}
	return ""
}

// ValidatePage checks the structural integrity of a converted page.
// An empty instruction is legal; a missing id or type is not.
func ValidatePage(page *core.ConvertedPage) error {
	if page.Version == "" {
		return fmt.Errorf("converted page missing version")
	}
	if len(page.Activities) == 0 && len(page.Unclassified) == 0 && page.Template == "" {
		return fmt.Errorf("page %s: nothing was extracted", page.Page)
	}
	for i, act := range page.Activities {
		if act.ID == "" {
			return fmt.Errorf("page %s: activity %d has no id", page.Page, i)
		}
		if act.Type == "" {
			return fmt.Errorf("page %s: activity %d has no type", page.Page, i)
		}
	}
	return nil
}

// Validate checks the structural integrity of an exchange document
// before it leaves the pipeline.
func Validate(doc *core.ExchangeDocument) error {
	if doc.Version == "" {
		return fmt.Errorf("exchange document missing version")
	}
	if doc.Page == "" {
		return fmt.Errorf("exchange document missing page name")
	}

	switch doc.ActivityType {
	case "":
		if len(doc.Unclassified) == 0 {
			return fmt.Errorf("page %s: no activity and no unclassified modules", doc.Page)
		}
	case core.TypeMemoryGame:
		if len(doc.Cards) == 0 {
			return fmt.Errorf("page %s: memory game without cards", doc.Page)
		}
		if doc.Config == nil {
			return fmt.Errorf("page %s: memory game without grid config", doc.Page)
		}
	case core.TypeChoice, core.TypeTrueFalse, core.TypeMultiChoice:
		if len(doc.Options) == 0 {
			return fmt.Errorf("page %s: %s without options", doc.Page, doc.ActivityType)
		}
	case core.TypeVideo:
		if url, _ := doc.Data["url"].(string); url == "" {
			return fmt.Errorf("page %s: video without url", doc.Page)
		}
	case core.TypeTextEvidence:
		if doc.Data == nil || doc.Data["segments"] == nil {
			return fmt.Errorf("page %s: text evidence without segments", doc.Page)
		}
	}
	return nil
}
