package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memArchive map[string]string

func (m memArchive) Paths() []string {
	out := make([]string, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	return out
}

func (m memArchive) ReadText(_ context.Context, p string) (string, error) {
	return m[p], nil
}

func (m memArchive) ReadBinary(_ context.Context, p string) ([]byte, error) {
	return []byte(m[p]), nil
}

func TestResolve(t *testing.T) {
	ar := memArchive{
		"pages/1.xml":             "",
		"pages/media/fig.png":     "png",
		"resources/cover.jpg":     "jpg",
		"deep/nested/unique.webp": "webp",
	}

	cases := []struct {
		name, base, ref, want string
		ok                    bool
	}{
		{"relative to page", "pages", "media/fig.png", "pages/media/fig.png", true},
		{"dot slash stripped", "pages", "./media/fig.png", "pages/media/fig.png", true},
		{"package root", "", "resources/cover.jpg", "resources/cover.jpg", true},
		{"resources fallback", "pages", "cover.jpg", "resources/cover.jpg", true},
		{"basename scan", "pages", "/assets/unique.webp", "deep/nested/unique.webp", true},
		{"missing", "pages", "nope.gif", "", false},
		{"empty ref", "pages", "  ", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Resolve(ar, tc.base, tc.ref)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPublish(t *testing.T) {
	ar := memArchive{"resources/fig.png": "image-bytes"}
	up, err := NewDirUploader(t.TempDir())
	require.NoError(t, err)

	url, err := Publish(context.Background(), ar, up, "", "fig.png")
	require.NoError(t, err)
	require.NotEmpty(t, url)

	data, err := os.ReadFile(url)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestPublishMissingAssetIsNotAnError(t *testing.T) {
	up, err := NewDirUploader(t.TempDir())
	require.NoError(t, err)

	url, err := Publish(context.Background(), memArchive{}, up, "", "ghost.png")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestDirUploaderSanitizesNames(t *testing.T) {
	dir := t.TempDir()
	up, err := NewDirUploader(dir)
	require.NoError(t, err)

	url, err := up.Upload(context.Background(), []byte("x"), "my file (1).png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "my_file_1_.png"), url)
}
