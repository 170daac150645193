package s3store

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	imagestore "github.com/darkClaw921/main-site-templats/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	deleted []string
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestStore_Save(t *testing.T) {
	fake := newFakeS3()
	store := NewWithClient(fake, Config{Bucket: "portfolio", Endpoint: "http://minio:9000/"})
	store.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	key, err := store.Save(context.Background(), `C:\shots\cover.png`, strings.NewReader(string(pngHeader)))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^uploads/20240501_123000_[0-9a-f]{8}_cover\.png$`), key)

	assert.Equal(t, pngHeader, fake.objects["portfolio/"+key])
	assert.Equal(t, "image/png", fake.types["portfolio/"+key])
	assert.Equal(t, "http://minio:9000/portfolio/"+key, store.URL(key))
}

func TestStore_SaveRejectsBadNames(t *testing.T) {
	store := NewWithClient(newFakeS3(), Config{Bucket: "portfolio"})
	_, err := store.Save(context.Background(), "..", strings.NewReader("x"))
	assert.ErrorIs(t, err, imagestore.ErrInvalidFilename)
}

func TestStore_SaveUploadError(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = errors.New("access denied")
	store := NewWithClient(fake, Config{Bucket: "portfolio"})

	_, err := store.Save(context.Background(), "a.png", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestStore_Remove(t *testing.T) {
	fake := newFakeS3()
	store := NewWithClient(fake, Config{Bucket: "portfolio"})

	require.NoError(t, store.Remove(context.Background(), "uploads/a.png"))
	assert.Equal(t, []string{"portfolio/uploads/a.png"}, fake.deleted)
}

func TestStore_URL(t *testing.T) {
	store := NewWithClient(newFakeS3(), Config{Bucket: "portfolio", Region: "eu-central-1"})
	assert.Equal(t, "https://s3.eu-central-1.amazonaws.com/portfolio/uploads/a.png", store.URL("uploads/a.png"))

	store = NewWithClient(newFakeS3(), Config{Bucket: "portfolio", PublicURL: "https://cdn.example.com/"})
	assert.Equal(t, "https://cdn.example.com/uploads/a.png", store.URL("/uploads/a.png"))
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestNew_BuildsClient(t *testing.T) {
	store, err := New(context.Background(), Config{
		Bucket:    "portfolio",
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/portfolio/uploads/a.png", store.URL("uploads/a.png"))
}
