// Package output handles file naming and writing for conversion outputs.
// Filenames are derived from the page name, falling back to the page id
// when the name sanitizes to nothing.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/amehdaoui/coursepipe/core"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// WritePage writes one rendered page. Returns the written path.
func (w *Writer) WritePage(page core.Page, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, Filename(page)+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

var filenameUnsafe = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// Filename derives a safe flat filename from the page. Arabic page names
// stay readable; only separator and punctuation characters are folded.
func Filename(page core.Page) string {
	name := strings.TrimSpace(page.Name)
	name = filenameUnsafe.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_.")
	if name == "" {
		name = page.ID
	}
	if name == "" {
		name = "page"
	}
	return name
}
