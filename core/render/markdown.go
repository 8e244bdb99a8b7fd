// Package render — Markdown renderer.
// Produces a human-reviewable lesson sheet: one section per activity,
// with taught HTML templates converted to Markdown.
package render

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/amehdaoui/coursepipe/core"
)

// MarkdownRenderer writes a review sheet for one converted page.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render builds the Markdown review sheet.
func (r *MarkdownRenderer) Render(page *core.ConvertedPage, doc *core.ExchangeDocument) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", page.Page)
	if doc != nil && doc.ActivityType != "" {
		fmt.Fprintf(&b, "Main activity: %s\n\n", doc.ActivityType)
	}

	for i, act := range page.Activities {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, act.Type)
		if act.Instruction != "" {
			fmt.Fprintf(&b, "> %s\n\n", act.Instruction)
		}
		if act.Text != "" {
			fmt.Fprintf(&b, "%s\n\n", markdownText(act.Text))
		}
		if act.Template != "" {
			md, err := htmltomarkdown.ConvertString(act.Template)
			if err != nil {
				return nil, fmt.Errorf("converting template of activity %s: %w", act.ID, err)
			}
			fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(md))
		}
		for _, opt := range act.Options {
			mark := " "
			if opt.Correct {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s\n", mark, opt.Label)
		}
		if len(act.Options) > 0 {
			b.WriteString("\n")
		}
		if img := act.ImageURL; img != "" {
			fmt.Fprintf(&b, "![](%s)\n\n", img)
		} else if act.ImagePath != "" {
			fmt.Fprintf(&b, "![](%s)\n\n", act.ImagePath)
		}
	}

	if len(page.Unclassified) > 0 {
		b.WriteString("## Unrecognized modules\n\n")
		for _, u := range page.Unclassified {
			fmt.Fprintf(&b, "- `%s` (%s)\n", u.ID, u.AddonID)
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

// markdownText converts leftover markup to Markdown, passing plain text
// through untouched.
func markdownText(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}
	md, err := htmltomarkdown.ConvertString(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(md)
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
