// Package archive implements the Archive interface over zip packages.
// Legacy e-learning exports are zip files; the pipeline only needs entry
// enumeration and per-entry reads.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Zip is a loaded zip package. Immutable once opened.
type Zip struct {
	paths   []string
	entries map[string]*zip.File
}

// Open loads a zip package from a byte blob.
func Open(data []byte) (*Zip, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening zip: %w", err)
	}

	z := &Zip{entries: make(map[string]*zip.File, len(r.File))}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		z.paths = append(z.paths, f.Name)
		z.entries[f.Name] = f
	}
	return z, nil
}

// Paths lists every file entry in archive order.
func (z *Zip) Paths() []string {
	out := make([]string, len(z.paths))
	copy(out, z.paths)
	return out
}

// ReadText reads an entry as text.
func (z *Zip) ReadText(ctx context.Context, path string) (string, error) {
	data, err := z.ReadBinary(ctx, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadBinary reads an entry's raw bytes.
func (z *Zip) ReadBinary(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, ok := z.entries[path]
	if !ok {
		return nil, fmt.Errorf("no such entry: %s", path)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening entry %s: %w", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading entry %s: %w", path, err)
	}
	return data, nil
}
