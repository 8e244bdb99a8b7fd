// Package pipeline wires the conversion stages together: archive →
// page resolution → extraction → learned rules → export.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/amehdaoui/coursepipe/core"
	"github.com/amehdaoui/coursepipe/core/archive"
	"github.com/amehdaoui/coursepipe/core/assets"
	"github.com/amehdaoui/coursepipe/core/export"
	"github.com/amehdaoui/coursepipe/core/extract"
	"github.com/amehdaoui/coursepipe/core/resolve"
	"github.com/amehdaoui/coursepipe/core/signature"
	"github.com/amehdaoui/coursepipe/rules"
)

// convertVersion tags every converted page payload.
const convertVersion = "1.0"

// Converter runs the conversion pipeline over one content package.
type Converter struct {
	store    core.RuleStore
	uploader core.AssetUploader
	vendor   *extract.VendorExtractor
	generic  *extract.HTMLExtractor
	now      func() time.Time
}

// Option configures a Converter.
type Option func(*Converter)

// WithRuleStore enables learned-rule lookups during extraction.
func WithRuleStore(store core.RuleStore) Option {
	return func(c *Converter) { c.store = store }
}

// WithUploader publishes page assets and rewrites image references to
// the returned URLs.
func WithUploader(up core.AssetUploader) Option {
	return func(c *Converter) { c.uploader = up }
}

func withClock(now func() time.Time) Option {
	return func(c *Converter) { c.now = now }
}

// New creates a Converter. Without options it converts offline: no
// learned rules, assets left as package-relative paths.
func New(opts ...Option) *Converter {
	c := &Converter{
		vendor:  extract.NewVendor(),
		generic: extract.NewHTML(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PageResult pairs one page with its conversion outcome. Err is set when
// the page could not be converted; the rest of the package still
// converts.
type PageResult struct {
	Page      core.Page
	Converted *core.ConvertedPage
	Doc       *core.ExchangeDocument
	Err       error
}

// ConvertPackage opens a zipped content package and converts every
// resolved page.
func (c *Converter) ConvertPackage(ctx context.Context, data []byte) ([]PageResult, error) {
	ar, err := archive.Open(data)
	if err != nil {
		return nil, fmt.Errorf("opening package: %w", err)
	}
	pages, err := resolve.Pages(ctx, ar)
	if err != nil {
		return nil, fmt.Errorf("resolving pages: %w", err)
	}

	results := make([]PageResult, 0, len(pages))
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		converted, doc, err := c.ConvertPage(ctx, ar, page)
		results = append(results, PageResult{Page: page, Converted: converted, Doc: doc, Err: err})
	}
	return results, nil
}

// ConvertPage converts one resolved page. The learned-rule cache is per
// page: each page sees a consistent snapshot of the rule store.
func (c *Converter) ConvertPage(ctx context.Context, ar core.Archive, page core.Page) (*core.ConvertedPage, *core.ExchangeDocument, error) {
	if page.Content == "" {
		text, err := ar.ReadText(ctx, page.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("reading page %s: %w", page.Path, err)
		}
		page.Content = text
	}

	resolver := rules.NewResolver(c.store)

	var res *extract.Result
	var err error
	if page.Format == core.FormatXML {
		res, err = c.vendor.Extract(ctx, page, resolver)
	} else {
		res, err = c.generic.Extract(page)
	}
	if err != nil {
		return nil, nil, err
	}

	converted := &core.ConvertedPage{
		Version:      convertVersion,
		Timestamp:    c.now().UTC().Format(time.RFC3339),
		Page:         page.Name,
		Activities:   res.Activities,
		Unclassified: res.Unclassified,
	}

	// A rule taught for the whole page shape supersedes per-activity
	// rendering.
	if rule := resolver.Resolve(ctx, signature.Page(res.Activities), ""); rule != nil {
		converted.Template = rule.Template
	}

	c.publishImages(ctx, ar, converted.Activities)

	return converted, export.Exchange(converted), nil
}

// publishImages uploads referenced images and records their URLs.
// Upload failures leave the package-relative path in place.
func (c *Converter) publishImages(ctx context.Context, ar core.Archive, activities []core.Activity) {
	if c.uploader == nil {
		return
	}
	for i := range activities {
		act := &activities[i]
		if act.ImagePath == "" || act.ImageURL != "" {
			continue
		}
		url, err := assets.Publish(ctx, ar, c.uploader, act.BasePath, act.ImagePath)
		if err != nil || url == "" {
			continue
		}
		act.ImageURL = url
	}
}
