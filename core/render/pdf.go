// Package render — PDF renderer.
// Produces a conversion report rather than a faithful lesson rendering:
// the built-in PDF fonts cannot shape Arabic script, so activity text is
// summarized by type and module counts.
package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/amehdaoui/coursepipe/core"
)

// PDFRenderer renders a per-page conversion report.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render builds the PDF report.
func (r *PDFRenderer) Render(page *core.ConvertedPage, doc *core.ExchangeDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 8, "Conversion report", "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, fmt.Sprintf("Page: %s | Converted: %s", page.Page, page.Timestamp), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	if doc != nil && doc.ActivityType != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 6, "Main activity: "+doc.ActivityType, "", "L", false)
		pdf.Ln(2)
	}

	pdf.SetFont("Helvetica", "", 10)
	for i, act := range page.Activities {
		line := fmt.Sprintf("%d. %s", i+1, act.Type)
		if act.OriginalType != "" {
			line += " (from " + act.OriginalType + ")"
		}
		if act.IsGuessed {
			line += " [guessed]"
		}
		pdf.MultiCell(0, 5, line, "", "L", false)

		details := activityDetails(act)
		if details != "" {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.SetTextColor(100, 100, 100)
			pdf.MultiCell(0, 4.5, "    "+details, "", "L", false)
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFont("Helvetica", "", 10)
		}
	}

	if len(page.Unclassified) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 6, fmt.Sprintf("Unrecognized modules: %d", len(page.Unclassified)), "", "L", false)
		pdf.SetFont("Courier", "", 9)
		for _, u := range page.Unclassified {
			pdf.MultiCell(0, 4.5, fmt.Sprintf("%s (%s)", u.ID, u.AddonID), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generating PDF for page %s: %w", page.Page, err)
	}
	return buf.Bytes(), nil
}

func activityDetails(act core.Activity) string {
	switch act.Type {
	case core.TypeMemoryGame:
		return fmt.Sprintf("%d cards", len(act.Cards))
	case core.TypeChoice, core.TypeTrueFalse, core.TypeMultiChoice:
		return fmt.Sprintf("%d options", len(act.Options))
	case core.TypeLearned:
		return "rendered from taught template"
	}
	return ""
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}
