package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"photoshare/config"
)

// ErrNotFound is wrapped by Load and Delete when the object does not exist.
var ErrNotFound = errors.New("file not found")

type Kind uint8

const (
	KindOriginal Kind = iota
	KindThumbnail
)

const (
	LocationOriginals  = "photos"
	LocationThumbnails = "thumbnails"
)

// StorageAPI stores blobs under opaque slash separated paths.
type StorageAPI interface {
	// Place returns a new collision-free path. Nothing is written.
	Place(kind Kind, ext string) string
	Save(ctx context.Context, path string, reader io.Reader) (int64, error)
	Load(ctx context.Context, path string, writer io.Writer) (int64, error)
	Delete(ctx context.Context, path string) error
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	GetBucket() *Bucket
}

type Storage struct {
	Bucket Bucket
}

func (s *Storage) GetBucket() *Bucket {
	return &s.Bucket
}

func (s *Storage) Place(kind Kind, ext string) string {
	return Place(kind, ext)
}

// New creates the storage backend selected by the configuration.
func New(cfg *config.Config) (StorageAPI, error) {
	bucket := BucketFromConfig(cfg)
	switch cfg.StorageType {
	case config.StorageTypeFile, "":
		return NewDiskStorage(&bucket)
	case config.StorageTypeS3:
		return NewS3Storage(&bucket)
	}
	return nil, fmt.Errorf("storage type %q unavailable", cfg.StorageType)
}

// Place builds a unique path for a blob, e.g.:
//   - photos/6f1c...e2.jpg
//   - thumbnails/thumb_6f1c...e2.jpg
func Place(kind Kind, ext string) string {
	id := uuid.NewString()
	if kind == KindThumbnail {
		// Thumbs are always JPEG
		return LocationThumbnails + "/thumb_" + id + ".jpg"
	}
	return LocationOriginals + "/" + id + SanitizeExt(ext)
}

// SanitizeExt lower-cases ext and restricts it to [a-z0-9] after the dot.
func SanitizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	var clean strings.Builder
	for _, c := range ext {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			clean.WriteRune(c)
		}
	}
	if clean.Len() == 0 {
		return ""
	}
	if clean.Len() > 10 {
		return "." + clean.String()[:10]
	}
	return "." + clean.String()
}
