package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*LocalStore, string) {
	t.Helper()
	static := t.TempDir()
	s, err := NewLocalStore(static, filepath.Join(static, "uploads"))
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC) }
	return s, static
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "photo.png", SanitizeFilename("photo.png"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "evil.png", SanitizeFilename(`..\..\evil.png`))
	assert.Equal(t, "", SanitizeFilename(".."))
	assert.Equal(t, "", SanitizeFilename("   "))
}

func TestLocalStore_Save(t *testing.T) {
	s, static := newTestStore(t)

	rel, err := s.Save(context.Background(), "shot.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^uploads/20240305_140709_[0-9a-f]{8}_shot\.png$`), rel)

	data, err := os.ReadFile(filepath.Join(static, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "/static/"+rel, s.URL(rel))

	entries, err := os.ReadDir(filepath.Join(static, "uploads"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestLocalStore_SaveIsWorldReadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	s, static := newTestStore(t)

	rel, err := s.Save(context.Background(), "a.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(static, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestLocalStore_SaveSameNameTwice(t *testing.T) {
	s, _ := newTestStore(t)
	a, err := s.Save(context.Background(), "x.png", strings.NewReader("a"))
	require.NoError(t, err)
	b, err := s.Save(context.Background(), "x.png", strings.NewReader("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestLocalStore_SaveFailureLeavesNothing(t *testing.T) {
	s, static := newTestStore(t)
	_, err := s.Save(context.Background(), "x.png", failingReader{})
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(static, "uploads"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStore_SaveTraversalName(t *testing.T) {
	s, static := newTestStore(t)
	rel, err := s.Save(context.Background(), "../../outside.txt", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "uploads/"))
	_, err = os.Stat(filepath.Join(static, filepath.FromSlash(rel)))
	assert.NoError(t, err)

	_, err = s.Save(context.Background(), "..", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidFilename)
}

func TestLocalStore_Remove(t *testing.T) {
	s, static := newTestStore(t)
	rel, err := s.Save(context.Background(), "x.png", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(context.Background(), rel))
	_, err = os.Stat(filepath.Join(static, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))

	// already gone
	assert.NoError(t, s.Remove(context.Background(), rel))

	assert.ErrorIs(t, s.Remove(context.Background(), "../../etc/passwd"), ErrInvalidFilename)
}

func TestNewLocalStore_UploadDirOutsideStatic(t *testing.T) {
	_, err := NewLocalStore(filepath.Join(t.TempDir(), "static"), t.TempDir())
	assert.Error(t, err)
}

func TestLocalStore_ListUploads(t *testing.T) {
	s, static := newTestStore(t)
	uploads := filepath.Join(static, "uploads")

	saved, err := s.Save(context.Background(), "a.png", strings.NewReader("a"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(uploads, ".gitkeep"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(uploads, ".upload-123"), []byte("partial"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(uploads, "nested"), 0o755))

	files, err := s.ListUploads(context.Background())
	require.NoError(t, err)

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
		assert.False(t, f.ModTime.IsZero())
	}
	assert.ElementsMatch(t, []string{saved, "uploads/.upload-123"}, paths)
}
