package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amehdaoui/coursepipe/core"
)

func TestFilename(t *testing.T) {
	cases := []struct {
		name string
		page core.Page
		want string
	}{
		{"plain", core.Page{Name: "Lesson 1"}, "Lesson_1"},
		{"arabic kept", core.Page{Name: "درس الربط"}, "درس_الربط"},
		{"slashes folded", core.Page{Name: "a/b\\c"}, "a_b_c"},
		{"empty falls back to id", core.Page{ID: "pg7"}, "pg7"},
		{"nothing at all", core.Page{}, "page"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Filename(tc.page))
		})
	}
}

func TestWritePage(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)

	path, err := w.WritePage(core.Page{Name: "Lesson 1"}, []byte("# hi"), ".md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Lesson_1.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# hi", string(data))
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	_, err := New(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
