package supabase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	imagestore "github.com/darkClaw921/main-site-templats/internal/storage"
	"github.com/gabriel-vasile/mimetype"
	storage "github.com/supabase-community/storage-go"
)

const uploadPrefix = "uploads"

// StorageClient keeps images in a public Supabase Storage bucket.
type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
	now     func() time.Time
}

var _ imagestore.ImageStore = (*StorageClient)(nil)

func NewStorageClient(c *Client, bucket string) (*StorageClient, error) {
	if c == nil || c.Supabase == nil || c.Supabase.Storage == nil {
		return nil, errors.New("supabase storage is not available")
	}
	return &StorageClient{
		client:  c.Supabase.Storage,
		bucket:  bucket,
		baseURL: c.URL,
		now:     time.Now,
	}, nil
}

func (s *StorageClient) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := imagestore.SanitizeFilename(filename)
	if name == "" {
		return "", fmt.Errorf("%w: %q", imagestore.ErrInvalidFilename, filename)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload %s: %w", name, err)
	}

	storagePath := path.Join(uploadPrefix, imagestore.UploadName(s.now(), name))
	contentType := mimetype.Detect(data).String()
	upsert := false
	_, err = s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return storagePath, nil
}

func (s *StorageClient) Remove(ctx context.Context, storagePath string) error {
	if _, err := s.client.RemoveFile(s.bucket, []string{storagePath}); err != nil {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

func (s *StorageClient) URL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, storagePath)
}
