// Package markup wraps goquery with the tolerant parsing helpers the
// extractors share: CDATA normalization, markup-to-text cleaning, and
// text-direction detection. Vendor XML is parsed through the HTML parser
// on purpose — it never rejects malformed documents, which broken export
// packages frequently are. Tag and attribute names come back lowercased;
// all selectors in this repo are written accordingly.
package markup

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	cdataOpen  = "<![CDATA["
	cdataClose = "]]>"

	tagRegex    = regexp.MustCompile(`<[^>]*>?`)
	spaceRegex  = regexp.MustCompile(`\s+`)
	arabicRegex = regexp.MustCompile(`[\x{0600}-\x{06FF}\x{0750}-\x{077F}\x{08A0}-\x{08FF}\x{FB50}-\x{FDFF}\x{FE70}-\x{FEFF}]`)
)

// Parse builds a navigable document from raw page text. CDATA markers are
// stripped first so wrapped text survives the HTML parser.
func Parse(raw string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(StripCDATA(raw)))
}

// StripCDATA removes CDATA wrapper markers, keeping the wrapped content.
func StripCDATA(s string) string {
	s = strings.ReplaceAll(s, cdataOpen, "")
	return strings.ReplaceAll(s, cdataClose, "")
}

// CleanText reduces a markup fragment to normalized plain text:
// CDATA markers gone, entities for non-breaking spaces replaced, tags
// stripped, whitespace collapsed.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = StripCDATA(s)
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = tagRegex.ReplaceAllString(s, " ")
	s = spaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CleanRaw extracts the text content of a markup fragment through a real
// parse, falling back to the input when parsing yields nothing.
func CleanRaw(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(strings.ReplaceAll(s, "&nbsp;", " "))
	}
	text := doc.Text()
	if strings.TrimSpace(text) == "" {
		text = s
	}
	return strings.TrimSpace(strings.ReplaceAll(text, " ", " "))
}

var imgSrcRegex = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)

// ExtractContent pulls the most useful value out of a markup fragment:
// the first image source when one exists, plain text otherwise.
func ExtractContent(s string) string {
	if s == "" {
		return ""
	}
	if m := imgSrcRegex.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return CleanText(s)
}

// DetectDirection reports "rtl" when the text contains Arabic-range
// characters, "ltr" otherwise. Empty text defaults to "rtl" — the content
// this pipeline was built for is Arabic-first.
func DetectDirection(text string) string {
	if text == "" {
		return "rtl"
	}
	if arabicRegex.MatchString(text) {
		return "rtl"
	}
	return "ltr"
}

// CleanDocument reduces a full HTML document to a reusable fragment:
// style blocks, then the body inner HTML, then script blocks. Fragments
// that are not full documents are returned trimmed. Taught templates pass
// through here before storage.
func CleanDocument(html string) string {
	if html == "" {
		return ""
	}
	if !strings.Contains(html, "<html") && !strings.Contains(html, "<body") {
		return strings.TrimSpace(html)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}

	var b strings.Builder
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		if out, err := goquery.OuterHtml(s); err == nil {
			b.WriteString(out)
			b.WriteString("\n")
		}
	})

	// Scripts are emitted after the body, so pull them out first.
	scripts := make([]string, 0)
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if out, err := goquery.OuterHtml(s); err == nil {
			scripts = append(scripts, out)
		}
	})
	doc.Find("script").Remove()

	if body, err := doc.Find("body").First().Html(); err == nil {
		b.WriteString(body)
		b.WriteString("\n")
	}
	for _, s := range scripts {
		b.WriteString(s)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
