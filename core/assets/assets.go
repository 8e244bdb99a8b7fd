// Package assets locates binary resources inside a content package and
// publishes them through an AssetUploader.
package assets

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/amehdaoui/coursepipe/core"
)

// Resolve maps an author-written asset reference to an archive entry
// path. References come in several sloppy shapes (relative to the page,
// relative to the package root, absolute-looking), so resolution tries
// the cheap candidates first and falls back to a basename scan.
func Resolve(ar core.Archive, basePath, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	for _, prefix := range []string{"./", "../", "/"} {
		for strings.HasPrefix(ref, prefix) {
			ref = strings.TrimPrefix(ref, prefix)
		}
	}

	entries := make(map[string]bool, len(ar.Paths()))
	for _, p := range ar.Paths() {
		entries[p] = true
	}

	candidates := []string{ref, "resources/" + path.Base(ref)}
	if basePath != "" {
		candidates = append([]string{path.Join(basePath, ref)}, candidates...)
	}
	for _, c := range candidates {
		if entries[c] {
			return c, true
		}
	}

	// Last resort: the file exists somewhere else in the package.
	base := "/" + path.Base(ref)
	for _, p := range ar.Paths() {
		if strings.HasSuffix(p, base) {
			return p, true
		}
	}
	return "", false
}

// Publish resolves and uploads one asset, returning its public URL.
// Missing assets are not an error; they return an empty URL so the
// caller can keep the original reference.
func Publish(ctx context.Context, ar core.Archive, up core.AssetUploader, basePath, ref string) (string, error) {
	entry, ok := Resolve(ar, basePath, ref)
	if !ok {
		return "", nil
	}
	data, err := ar.ReadBinary(ctx, entry)
	if err != nil {
		return "", fmt.Errorf("reading asset %s: %w", entry, err)
	}
	url, err := up.Upload(ctx, data, path.Base(entry))
	if err != nil {
		return "", fmt.Errorf("uploading asset %s: %w", entry, err)
	}
	return url, nil
}

var unsafeNameRegex = regexp.MustCompile(`[^a-zA-Z0-9._\x{0600}-\x{06FF}-]+`)

// DirUploader implements AssetUploader by copying assets into a local
// directory, for offline conversions.
type DirUploader struct {
	Dir string
}

// NewDirUploader creates the target directory if needed.
func NewDirUploader(dir string) (*DirUploader, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating asset directory: %w", err)
	}
	return &DirUploader{Dir: dir}, nil
}

func (u *DirUploader) Upload(_ context.Context, data []byte, filename string) (string, error) {
	name := unsafeNameRegex.ReplaceAllString(filename, "_")
	if name == "" || name == "." {
		name = "asset"
	}
	full := filepath.Join(u.Dir, name)
	if err := os.WriteFile(full, data, 0644); err != nil {
		return "", fmt.Errorf("writing asset %s: %w", full, err)
	}
	return full, nil
}
