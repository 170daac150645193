// Package storage keeps uploaded project images.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidFilename = errors.New("invalid file name")

// ImageStore saves uploaded images and resolves their stored paths.
// Paths are slash separated and relative to the static root, e.g. "uploads/x.png".
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
	URL(path string) string
}

// SanitizeFilename keeps only the base name of a client-supplied file name.
// It returns "" when nothing usable is left.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	switch name {
	case "", ".", "..", "/":
		return ""
	}
	return name
}

// UploadName prefixes a sanitized name with a timestamp and a random suffix.
func UploadName(now time.Time, name string) string {
	return now.Format("20060102_150405") + "_" + uuid.NewString()[:8] + "_" + name
}
