package localfs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveAndRemove(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileStore(root, 0)
	require.NoError(t, err)
	ctx := context.Background()

	stored, err := s.Save(ctx, "projeto_7", "Relatório Final.pdf", strings.NewReader("conteudo"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.Path, "projeto_7/"))
	assert.True(t, strings.HasSuffix(stored.Path, "_Relatório_Final.pdf"))
	assert.Equal(t, int64(len("conteudo")), stored.Size)

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(stored.Path)))
	require.NoError(t, err)
	assert.Equal(t, "conteudo", string(data))

	again, err := s.Save(ctx, "projeto_7", "Relatório Final.pdf", strings.NewReader("v2"))
	require.NoError(t, err)
	assert.NotEqual(t, stored.Path, again.Path)

	require.NoError(t, s.Remove(ctx, stored.Path))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(stored.Path)))
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, s.Remove(ctx, stored.Path))
}

func TestFileStore_RejectsTraversal(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), 0)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Save(ctx, "../outside", "a.txt", strings.NewReader("x"))
	require.Error(t, err)
	_, err = s.Save(ctx, "/etc", "a.txt", strings.NewReader("x"))
	require.Error(t, err)

	stored, err := s.Save(ctx, "p", "../../evil.txt", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.Path, "p/"))
	assert.True(t, strings.HasSuffix(stored.Path, "_evil.txt"))
}

func TestFileStore_SizeLimit(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileStore(root, 4)
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "p", "big.bin", strings.NewReader("12345"))
	require.ErrorIs(t, err, ErrFileTooLarge)

	entries, err := os.ReadDir(filepath.Join(root, "p"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStore_CanceledContext(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), 0)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Save(ctx, "p", "a.txt", strings.NewReader("x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "arquivo", sanitizeFileName(""))
	assert.Equal(t, "arquivo", sanitizeFileName("..."))
	assert.Equal(t, "a_b.txt", sanitizeFileName("dir\\a b.txt"))
	assert.Equal(t, "env", sanitizeFileName(".env"))
}
