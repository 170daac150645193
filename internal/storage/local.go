package storage

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
	"time"
)

const (
	tempPrefix = ".upload-"
	uploadMode = 0o644
)

// LocalStore writes images under an upload directory inside the static root.
type LocalStore struct {
	staticDir string
	uploadDir string
	prefix    string
	now       func() time.Time
}

func NewLocalStore(staticDir, uploadDir string) (*LocalStore, error) {
	staticAbs, err := filepath.Abs(staticDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve static dir: %w", err)
	}
	uploadAbs, err := filepath.Abs(uploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload dir: %w", err)
	}
	rel, err := filepath.Rel(staticAbs, uploadAbs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("upload dir %q must be inside static dir %q", uploadDir, staticDir)
	}
	if err := os.MkdirAll(uploadAbs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	prefix := filepath.ToSlash(rel)
	if prefix == "." {
		prefix = ""
	}
	return &LocalStore{
		staticDir: staticAbs,
		uploadDir: uploadAbs,
		prefix:    prefix,
		now:       time.Now,
	}, nil
}

// Save writes to a temporary file and renames it into place once complete.
func (s *LocalStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := SanitizeFilename(filename)
	if name == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	final := UploadName(s.now(), name)

	tmp, err := os.CreateTemp(s.uploadDir, tempPrefix+"*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	// CreateTemp makes owner-only files; uploads are served to other users.
	if err := tmp.Chmod(uploadMode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write upload %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write upload %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.uploadDir, final)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to store upload %s: %w", name, err)
	}

	return path.Join(s.prefix, final), nil
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (s *LocalStore) Remove(ctx context.Context, p string) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", p, err)
	}
	return nil
}

// StoredFile is an entry of the upload directory.
type StoredFile struct {
	Path    string
	ModTime time.Time
}

// ListUploads returns the files in the upload directory, including stale
// temporary files left by interrupted writes.
func (s *LocalStore) ListUploads(ctx context.Context) ([]StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload dir: %w", err)
	}

	files := make([]StoredFile, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() {
			continue
		}
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(name, tempPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, StoredFile{Path: path.Join(s.prefix, name), ModTime: info.ModTime()})
	}
	return files, nil
}

func (s *LocalStore) URL(p string) string {
	return "/static/" + strings.TrimPrefix(p, "/")
}

func (s *LocalStore) resolve(p string) (string, error) {
	clean := filepath.Clean(filepath.Join(s.staticDir, filepath.FromSlash(p)))
	rel, err := filepath.Rel(s.staticDir, clean)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, p)
	}
	return clean, nil
}
