package export

import (
	"fmt"

	"github.com/amehdaoui/coursepipe/core"
)

// defaultStyle is the presentation record every generated block starts
// with. Downstream themes override per block type.
func defaultStyle() core.BlockStyle {
	return core.BlockStyle{
		Columns:      12,
		Margin:       16,
		Background:   "#ffffff",
		BorderRadius: "16px",
		Padding:      20,
	}
}

// defaultOptions keeps choice blocks renderable when the merge pass
// produced an empty option list.
var defaultOptions = []core.Option{
	{Label: "نعم", Correct: true},
	{Label: "لا", Correct: false},
}

// Blocks converts a converted page into one renderer slide.
func Blocks(page *core.ConvertedPage) core.Slide {
	slide := core.Slide{
		ID:    "imp-" + page.Page,
		Title: page.Page,
	}

	for i, act := range page.Activities {
		block := core.Block{
			ID:          fmt.Sprintf("imp-%s-%d", page.Page, i),
			Type:        act.Type,
			Instruction: act.Instruction,
			Style:       defaultStyle(),
		}

		switch act.Type {
		case core.TypeSplash, core.TypeParagraph:
			block.Title = act.Instruction
			block.Content = act.Text
		case core.TypeSplashImage:
			// Image splashes render through the plain splash block.
			block.Type = core.TypeSplash
			block.Image = blockImage(act)
		case core.TypeVideo:
			if act.Data != nil {
				block.URL, _ = act.Data["url"].(string)
			}
		case core.TypeChoice, core.TypeTrueFalse, core.TypeMultiChoice:
			block.Options = act.Options
			if len(block.Options) == 0 {
				block.Options = defaultOptions
			}
			block.Title = act.Question
		case core.TypeStory:
			block.Content = act.Text
			if block.Content == "" {
				block.Content = "Interactive content"
			}
		default:
			block.Content = act.Text
			block.Image = blockImage(act)
		}

		slide.Blocks = append(slide.Blocks, block)
	}
	return slide
}

func blockImage(act core.Activity) string {
	if act.ImageURL != "" {
		return act.ImageURL
	}
	return act.ImagePath
}
