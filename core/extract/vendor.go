package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/amehdaoui/coursepipe/core"
	"github.com/amehdaoui/coursepipe/core/markup"
	"github.com/amehdaoui/coursepipe/core/normalize"
	"github.com/amehdaoui/coursepipe/core/render"
	"github.com/amehdaoui/coursepipe/core/signature"
)

// moduleSelector matches every content-bearing element of a vendor page.
// The parser lowercases element and attribute names.
const moduleSelector = "textmodule, imagemodule, addonmodule, module, addon"

// complexKinds are addon kinds with no shape handler whose presence marks
// a page as too interactive to rebuild block by block. Pages left with
// such modules get an embed fallback activity.
var complexKinds = []string{"advanced_connector", "draganddrop", "sorting"}

// VendorExtractor extracts canonical activities from vendor page XML.
type VendorExtractor struct {
	registry *Registry
}

// NewVendor creates a VendorExtractor with the built-in shape handlers.
func NewVendor() *VendorExtractor {
	return &VendorExtractor{registry: defaultRegistry()}
}

// Registry exposes the dispatch registry so callers can add handlers for
// additional content kinds.
func (e *VendorExtractor) Registry() *Registry {
	return e.registry
}

// Extract parses one vendor page and produces canonical activities plus
// unclassified modules. The resolver, when non-nil, supplies learned
// rules for shapes no handler covers; pass a fresh one per page.
func (e *VendorExtractor) Extract(ctx context.Context, page core.Page, resolver RuleResolver) (*Result, error) {
	doc, err := markup.Parse(page.Content)
	if err != nil {
		return nil, fmt.Errorf("parsing page %s: %w", page.Path, err)
	}

	instruction, instructionID := globalInstruction(doc)

	res := &Result{}
	var choiceRows []normalize.ChoiceRow
	var introTexts []string
	var introImage string

	doc.Find(moduleSelector).Each(func(_ int, sel *goquery.Selection) {
		m := moduleFrom(sel)
		if instructionID != "" && m.ID == instructionID {
			return
		}

		if outcome := e.registry.Dispatch(m, instruction); outcome != nil {
			if outcome.ChoiceRow != nil {
				choiceRows = append(choiceRows, *outcome.ChoiceRow)
			}
			if outcome.Activity != nil {
				act := *outcome.Activity
				act.ID = moduleID(m)
				act.OriginalType = m.AddonID
				act.Properties = m.Props
				act.Selected = true
				res.Activities = append(res.Activities, act)
			}
			return
		}

		// No handler claimed the module. A learned rule wins over shape
		// guessing; both win over giving up.
		if rule := resolveRule(ctx, resolver, m); rule != nil {
			res.Activities = append(res.Activities, core.Activity{
				ID:           moduleID(m),
				Type:         core.TypeLearned,
				Instruction:  instruction,
				Data:         propsData(m.Props),
				Properties:   m.Props,
				OriginalType: m.AddonID,
				Template:     render.TemplateProps(rule.Template, m.Props),
				Selected:     true,
			})
			return
		}

		if guessed := signature.GuessType(m.Props); guessed != core.TypeUncategorized {
			instr := instruction
			if instr == "" {
				instr = instructionGuessed
			}
			res.Activities = append(res.Activities, core.Activity{
				ID:           moduleID(m),
				Type:         guessed,
				Instruction:  instr,
				Data:         propsData(m.Props),
				Properties:   m.Props,
				OriginalType: m.AddonID,
				IsGuessed:    true,
				Selected:     true,
			})
			return
		}

		// Plain text and image modules aggregate into an intro splash
		// instead of drowning the unclassified bucket.
		tag := goquery.NodeName(sel)
		if tag == "textmodule" {
			if text := markup.CleanText(m.Props["Text"]); text != "" {
				introTexts = append(introTexts, text)
				return
			}
		}
		if tag == "imagemodule" {
			if img := imageSource(m); img != "" {
				introImage = img
				return
			}
		}

		// Kind tags often carry a display hint in their naming even when
		// the shape is unknown.
		if mapped := normalize.MapType(m.AddonID); mapped != core.TypeUncategorized {
			text := markup.CleanText(m.Props["Text"])
			img := imageSource(m)
			if text != "" || img != "" {
				res.Activities = append(res.Activities, core.Activity{
					ID:           moduleID(m),
					Type:         mapped,
					Instruction:  instruction,
					Text:         text,
					ImagePath:    img,
					Properties:   m.Props,
					OriginalType: m.AddonID,
					Selected:     true,
				})
				return
			}
		}

		res.Unclassified = append(res.Unclassified, core.Unclassified{
			ID:         moduleID(m),
			AddonID:    m.AddonID,
			Properties: m.Props,
		})
	})

	if len(introTexts) > 0 {
		intro := core.Activity{
			ID:           uuid.NewString(),
			Type:         core.TypeSplash,
			Instruction:  instruction,
			Text:         strings.Join(introTexts, " : "),
			ImagePath:    introImage,
			OriginalType: "intro-aggregate",
			Selected:     true,
		}
		res.Activities = append([]core.Activity{intro}, res.Activities...)
	}

	res.Activities = normalize.MergeChoiceRows(res.Activities, choiceRows)

	if embed := complexFallback(page, res); embed != nil {
		res.Activities = append(res.Activities, *embed)
	}

	attachLearnedTemplates(ctx, resolver, res.Activities)
	return res, nil
}

// globalInstruction finds the page-wide instruction text module by id
// naming convention, skipping modules with unresolved template tokens.
func globalInstruction(doc *goquery.Document) (text, id string) {
	doc.Find("textmodule").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		modID, _ := sel.Attr("id")
		content := sel.Find("text").First().Text()

		lower := strings.ToLower(modID)
		named := strings.Contains(lower, "consigne") || modID == "TextC" || modID == "Text2"
		if !named || strings.Contains(content, "{{") {
			return true
		}
		text = markup.CleanText(content)
		id = modID
		return false
	})
	return text, id
}

// moduleFrom reads one source element into a Module record.
func moduleFrom(sel *goquery.Selection) *Module {
	addonID, ok := sel.Attr("addonid")
	if !ok || addonID == "" {
		addonID = goquery.NodeName(sel)
	}
	id, _ := sel.Attr("id")

	props := core.Properties{}
	sel.Find("property").Each(func(_ int, p *goquery.Selection) {
		name, _ := p.Attr("name")
		if name == "" {
			return
		}
		if value, ok := p.Attr("value"); ok {
			props[name] = value
		} else {
			props[name] = p.Text()
		}
	})

	// The inline text/content element doubles as the Text property when
	// the module declares none.
	if content := sel.Find("text, content").First().Text(); content != "" && props["Text"] == "" {
		props["Text"] = content
	}

	return &Module{ID: id, AddonID: addonID, Props: props, Sel: sel}
}

func moduleID(m *Module) string {
	if m.ID != "" {
		return m.ID
	}
	return uuid.NewString()
}

func imageSource(m *Module) string {
	// The markup parser rewrites "image" start tags to "img".
	if m.Sel != nil {
		if src, ok := m.Sel.Find("img, image").First().Attr("src"); ok && src != "" {
			return src
		}
	}
	// Image properties may hold either a bare path or img markup.
	for _, key := range []string{"Image", "image", "src"} {
		if v := m.Props[key]; v != "" {
			return markup.ExtractContent(v)
		}
	}
	return ""
}

func resolveRule(ctx context.Context, resolver RuleResolver, m *Module) *core.Rule {
	if resolver == nil {
		return nil
	}
	return resolver.Resolve(ctx, signature.Struct(m.Props), m.AddonID)
}

// attachLearnedTemplates decorates already-classified activities whose
// property shape matches a taught rule.
func attachLearnedTemplates(ctx context.Context, resolver RuleResolver, activities []core.Activity) {
	if resolver == nil {
		return
	}
	for i := range activities {
		act := &activities[i]
		if act.Template != "" || len(act.Properties) == 0 {
			continue
		}
		if rule := resolver.Resolve(ctx, signature.Struct(act.Properties), act.OriginalType); rule != nil {
			act.Template = render.TemplateProps(rule.Template, act.Properties)
		}
	}
}

// complexFallback emits an embed activity when unhandled interactive
// addons remain on the page. Untrusted markup is never executed; the
// fallback only references the page.
func complexFallback(page core.Page, res *Result) *core.Activity {
	found := false
	for _, u := range res.Unclassified {
		lower := strings.ToLower(u.AddonID)
		for _, kind := range complexKinds {
			if strings.Contains(lower, kind) {
				found = true
			}
		}
	}
	if !found {
		return nil
	}

	return &core.Activity{
		ID:           uuid.NewString(),
		Type:         core.TypeStory,
		Instruction:  "",
		Text:         "Interactive activity: " + page.Name,
		OriginalType: "vendor-interactive",
		IsEmbed:      true,
		Selected:     false,
		Direction:    markup.DetectDirection(page.Name),
	}
}

func propsData(props core.Properties) map[string]any {
	data := make(map[string]any, len(props))
	for k, v := range props {
		data[k] = v
	}
	return data
}
