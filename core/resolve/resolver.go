// Package resolve discovers the content pages inside a loaded package.
// Strategies are tried in fixed priority: the declared manifest first,
// then the vendor page index, then a generic scan over markup entries.
// The first strategy yielding at least one page wins. Finding nothing is
// not an error: an empty page list is returned and the caller decides how
// to present "no content found".
package resolve

import (
	"context"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/amehdaoui/coursepipe/core"
	"github.com/amehdaoui/coursepipe/core/markup"
)

const (
	manifestName      = "imsmanifest.xml"
	vendorIndexSuffix = "pages/main.xml"
)

// Pages resolves the ordered candidate pages of a package.
func Pages(ctx context.Context, ar core.Archive) ([]core.Page, error) {
	if pages := fromManifest(ctx, ar); len(pages) > 0 {
		return pages, nil
	}
	if pages := fromVendorIndex(ctx, ar); len(pages) > 0 {
		return pages, nil
	}
	return fromScan(ctx, ar), nil
}

// fromManifest walks the declared organization of a manifest-driven package.
func fromManifest(ctx context.Context, ar core.Archive) []core.Page {
	paths := ar.Paths()
	manifestPath := findEntry(paths, manifestName)
	if manifestPath == "" {
		return nil
	}

	content, err := ar.ReadText(ctx, manifestPath)
	if err != nil {
		return nil
	}
	doc, err := markup.Parse(content)
	if err != nil {
		return nil
	}

	// Map declared resources by identifier.
	resources := make(map[string]string)
	doc.Find("resource").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("identifier")
		href, _ := s.Attr("href")
		if id != "" && href != "" {
			resources[id] = href
		}
	})

	var pages []core.Page
	doc.Find("item").Each(func(_ int, s *goquery.Selection) {
		refID, _ := s.Attr("identifierref")
		title := strings.TrimSpace(s.Find("title").First().Text())

		href, ok := resources[refID]
		if !ok {
			return
		}

		entry := resolveEntry(paths, href)
		if entry == "" || !isMarkupPath(entry) {
			return
		}
		text, err := ar.ReadText(ctx, entry)
		if err != nil {
			return
		}

		name := title
		if name == "" {
			name = pageName(entry)
		}
		pages = append(pages, core.Page{
			ID:      uuid.NewString(),
			Path:    entry,
			Name:    name,
			Dialect: core.DialectManifest,
			Format:  formatOf(entry),
			Content: text,
		})
	})
	return pages
}

// fromVendorIndex follows the vendor page list (pages/main.xml).
func fromVendorIndex(ctx context.Context, ar core.Archive) []core.Page {
	paths := ar.Paths()
	indexPath := findEntry(paths, vendorIndexSuffix)
	if indexPath == "" {
		return nil
	}

	content, err := ar.ReadText(ctx, indexPath)
	if err != nil {
		return nil
	}
	doc, err := markup.Parse(content)
	if err != nil {
		return nil
	}

	var pages []core.Page
	doc.Find("page[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		name, _ := s.Attr("name")
		id, _ := s.Attr("id")
		if href == "" {
			return
		}

		entry := exactEntry(paths, "pages/"+href)
		if entry == "" {
			entry = findBySuffix(paths, href)
		}
		if entry == "" {
			return
		}
		text, err := ar.ReadText(ctx, entry)
		if err != nil {
			return
		}

		if id == "" {
			id = uuid.NewString()
		}
		if name == "" {
			name = pageName(entry)
		}
		pages = append(pages, core.Page{
			ID:      id,
			Path:    entry,
			Name:    name,
			Dialect: core.DialectVendor,
			Format:  core.FormatXML,
			Content: text,
		})
	})
	return pages
}

// fromScan enumerates all markup entries except the manifest itself,
// sorted lexicographically by path.
func fromScan(ctx context.Context, ar core.Archive) []core.Page {
	paths := ar.Paths()
	sort.Strings(paths)

	var pages []core.Page
	for _, p := range paths {
		if !isMarkupPath(p) || strings.Contains(strings.ToLower(p), manifestName) {
			continue
		}
		text, err := ar.ReadText(ctx, p)
		if err != nil {
			continue
		}

		name := pageName(p)
		format := formatOf(p)
		if format == core.FormatHTML {
			if doc, err := markup.Parse(text); err == nil {
				internal := strings.TrimSpace(doc.Find("title").First().Text())
				if internal == "" {
					internal = strings.TrimSpace(doc.Find("h1").First().Text())
				}
				if internal != "" {
					name = internal
				}
			}
		} else {
			// XML entries without a page element are not content pages.
			if !strings.Contains(text, "<page") {
				continue
			}
			if doc, err := markup.Parse(text); err == nil {
				if n, ok := doc.Find("page").First().Attr("name"); ok && n != "" {
					name = n
				}
			}
		}

		pages = append(pages, core.Page{
			ID:      uuid.NewString(),
			Path:    p,
			Name:    name,
			Dialect: core.DialectGeneric,
			Format:  format,
			Content: text,
		})
	}
	return pages
}

// resolveEntry maps a declared href onto an archive entry: exact path
// first, then the decoded/normalized path, then a filename-suffix scan.
func resolveEntry(paths []string, href string) string {
	if e := exactEntry(paths, href); e != "" {
		return e
	}

	clean := href
	if decoded, err := url.PathUnescape(clean); err == nil {
		clean = decoded
	}
	clean = strings.ReplaceAll(clean, "\\", "/")
	clean = strings.TrimPrefix(clean, "/")
	if e := exactEntry(paths, clean); e != "" {
		return e
	}

	return findBySuffix(paths, path.Base(clean))
}

func exactEntry(paths []string, want string) string {
	for _, p := range paths {
		if p == want {
			return p
		}
	}
	return ""
}

// findEntry matches an entry by exact name, else by case-insensitive
// suffix anywhere in the archive.
func findEntry(paths []string, name string) string {
	if e := exactEntry(paths, name); e != "" {
		return e
	}
	lower := strings.ToLower(name)
	for _, p := range paths {
		if strings.HasSuffix(strings.ToLower(p), lower) {
			return p
		}
	}
	return ""
}

func findBySuffix(paths []string, name string) string {
	if name == "" {
		return ""
	}
	for _, p := range paths {
		if strings.HasSuffix(p, name) {
			return p
		}
	}
	return ""
}

func isMarkupPath(p string) bool {
	return strings.HasSuffix(p, ".html") || strings.HasSuffix(p, ".xml")
}

func formatOf(p string) core.Format {
	if strings.HasSuffix(p, ".html") {
		return core.FormatHTML
	}
	return core.FormatXML
}

// pageName derives a display name from an entry path.
func pageName(p string) string {
	base := path.Base(p)
	base = strings.TrimSuffix(base, ".html")
	base = strings.TrimSuffix(base, ".xml")
	return base
}
