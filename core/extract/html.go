package extract

import (
	"fmt"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/amehdaoui/coursepipe/core"
	"github.com/amehdaoui/coursepipe/core/markup"
)

// Instruction hints for generic markup pages. Such pages come from
// arbitrary authoring tools, so the hints stay language-neutral English.
const (
	hintHeading   = "Heading"
	hintParagraph = "Paragraph"
	hintImage     = "Image"
)

// minTextRunes filters out stray markup fragments like "&gt;" or list
// bullets left behind by the exporter.
const minTextRunes = 3

// HTMLExtractor converts generic exported HTML pages into display
// activities. Interactive pages driven by scripts additionally grow
// an embed fallback so the interaction survives the conversion.
type HTMLExtractor struct{}

func NewHTML() *HTMLExtractor {
	return &HTMLExtractor{}
}

func (e *HTMLExtractor) Extract(page core.Page) (*Result, error) {
	doc, err := markup.Parse(page.Content)
	if err != nil {
		return nil, fmt.Errorf("parsing page %s: %w", page.Path, err)
	}

	res := &Result{}
	baseDir := path.Dir(page.Path)

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || src == "" || strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") || strings.HasPrefix(src, "data:") {
			return
		}
		res.Activities = append(res.Activities, core.Activity{
			ID:          uuid.NewString(),
			Type:        core.TypeSplashImage,
			Instruction: hintImage,
			ImagePath:   src,
			BasePath:    baseDir + "/",
			Selected:    true,
		})
	})

	doc.Find("h1, h2, h3, p, li, b").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len([]rune(text)) <= minTextRunes {
			return
		}
		kind := core.TypeParagraph
		hint := hintParagraph
		switch goquery.NodeName(sel) {
		case "h1", "h2", "h3":
			kind = core.TypeSplash
			hint = hintHeading
		}
		res.Activities = append(res.Activities, core.Activity{
			ID:          uuid.NewString(),
			Type:        kind,
			Instruction: hint,
			Text:        text,
			Direction:   markup.DetectDirection(text),
			Selected:    true,
		})
	})

	// Script- or canvas-driven pages keep whatever static content was
	// scraped above and gain one embed so the interaction is not lost.
	if doc.Find("script, canvas").Length() > 0 {
		res.Activities = append(res.Activities, embedFallback(page))
	}

	return res, nil
}

func embedFallback(page core.Page) core.Activity {
	return core.Activity{
		ID:           "iframe-fallback",
		Type:         core.TypeStory,
		Text:         page.Name,
		OriginalType: "interactive-js",
		IsEmbed:      true,
		Selected:     false,
		Direction:    "ltr",
	}
}
