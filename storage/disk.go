package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

type DiskStorage struct {
	Storage
	// BasePath is a directory (usually mount point of a disk) that is writable by the current process
	BasePath string
}

func NewDiskStorage(bucket *Bucket) (StorageAPI, error) {
	if bucket.Path == "" {
		return nil, fmt.Errorf("disk storage needs a base path")
	}
	base, err := filepath.Abs(bucket.Path)
	if err != nil {
		return nil, err
	}
	// Pre-create locations on disk
	for _, dir := range []string{LocationOriginals, LocationThumbnails} {
		if err = os.MkdirAll(filepath.Join(base, dir), 0o755); err != nil {
			return nil, err
		}
	}
	return &DiskStorage{
		BasePath: base,
		Storage:  Storage{Bucket: *bucket},
	}, nil
}

func (s *DiskStorage) getFullPath(path string) (string, error) {
	full := filepath.Join(s.BasePath, filepath.FromSlash(path))
	rel, err := filepath.Rel(s.BasePath, full)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid storage path %q", path)
	}
	return full, nil
}

// Save writes to a temp file next to the target and renames it into place,
// so a failed write never leaves a partial file under path.
func (s *DiskStorage) Save(ctx context.Context, path string, reader io.Reader) (int64, error) {
	fileName, err := s.getFullPath(path)
	if err != nil {
		return 0, err
	}
	if err = os.MkdirAll(filepath.Dir(fileName), 0o755); err != nil {
		return 0, err
	}
	file, err := os.CreateTemp(filepath.Dir(fileName), ".upload-*")
	if err != nil {
		return 0, err
	}
	written, err := io.Copy(file, reader)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = ctx.Err()
	}
	if err == nil {
		err = os.Rename(file.Name(), fileName)
	}
	if err != nil {
		_ = os.Remove(file.Name())
		return 0, err
	}
	return written, nil
}

func (s *DiskStorage) Load(ctx context.Context, path string, writer io.Writer) (int64, error) {
	fileName, err := s.getFullPath(path)
	if err != nil {
		return 0, err
	}
	file, err := os.Open(fileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return 0, err
	}
	defer file.Close()
	return io.Copy(writer, file)
}

func (s *DiskStorage) Delete(ctx context.Context, path string) error {
	fileName, err := s.getFullPath(path)
	if err != nil {
		return err
	}
	if err = os.Remove(fileName); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return err
	}
	return nil
}

// Serve handles byte ranges too
func (s *DiskStorage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	fileName, err := s.getFullPath(path)
	if err != nil {
		http.NotFound(writer, request)
		return
	}
	http.ServeFile(writer, request, fileName)
}
