package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ibmec/pict-api/internal/core"
)

var _ core.FileStore = (*FileStore)(nil)

// FileStore writes uploads below a root directory. Stored paths are
// relative to the root so they can be served under /uploads.
type FileStore struct {
	root string
	// maxBytes caps a single file; zero means unlimited.
	maxBytes int64
}

// ErrFileTooLarge is returned when an upload exceeds the configured limit.
var ErrFileTooLarge = errors.New("file exceeds the upload size limit")

// NewFileStore creates root if needed.
func NewFileStore(root string, maxBytes int64) (*FileStore, error) {
	if root == "" {
		return nil, errors.New("uploads directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &FileStore{root: root, maxBytes: maxBytes}, nil
}

// Root returns the directory files are written under.
func (s *FileStore) Root() string { return s.root }

// Save writes r to dir/name. The base name is sanitized and prefixed with a
// short random id so repeated uploads of the same file never overwrite each other.
func (s *FileStore) Save(ctx context.Context, dir, name string, r io.Reader) (core.StoredFile, error) {
	cleanDir, err := cleanRelative(dir)
	if err != nil {
		return core.StoredFile{}, err
	}
	base := sanitizeFileName(name)
	rel := path.Join(cleanDir, uuid.NewString()[:8]+"_"+base)

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return core.StoredFile{}, fmt.Errorf("create upload directory: %w", err)
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return core.StoredFile{}, fmt.Errorf("create upload: %w", err)
	}

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, copyErr := io.Copy(f, ctxReader{ctx: ctx, r: src})
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(full)
		return core.StoredFile{}, fmt.Errorf("write upload: %w", copyErr)
	case closeErr != nil:
		_ = os.Remove(full)
		return core.StoredFile{}, fmt.Errorf("close upload: %w", closeErr)
	case s.maxBytes > 0 && n > s.maxBytes:
		_ = os.Remove(full)
		return core.StoredFile{}, ErrFileTooLarge
	}
	return core.StoredFile{Path: rel, Size: n}, nil
}

// Remove deletes a previously stored file. Missing files are not an error.
func (s *FileStore) Remove(_ context.Context, p string) error {
	rel, err := cleanRelative(p)
	if err != nil {
		return err
	}
	if rel == "" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel))); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// cleanRelative rejects absolute paths and any path escaping the root.
func cleanRelative(p string) (string, error) {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" {
		return "", nil
	}
	if strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("invalid path %q", p)
	}
	cleaned := path.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid path %q", p)
	}
	if cleaned == "." {
		return "", nil
	}
	return cleaned, nil
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == 0 || r < 0x20:
			continue
		case r == ' ':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return "arquivo"
	}
	return out
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
