package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/gabriel-vasile/mimetype"
)

const (
	presignViewURLFor = 24 * time.Hour
	sniffLen          = 3072
)

type S3Storage struct {
	Storage
	s3Client *s3.S3
}

func NewS3Storage(bucket *Bucket) (StorageAPI, error) {
	client, err := bucket.CreateSVC()
	if err != nil {
		return nil, err
	}
	return &S3Storage{
		Storage:  Storage{Bucket: *bucket},
		s3Client: client,
	}, nil
}

func (s *S3Storage) Save(ctx context.Context, path string, reader io.Reader) (int64, error) {
	contentType, body, err := sniffContentType(reader)
	if err != nil {
		return 0, err
	}
	counter := &countingReader{reader: body}
	input := s3manager.UploadInput{
		Bucket:      aws.String(s.Bucket.Name),
		Key:         aws.String(s.Bucket.GetRemotePath(path)),
		Body:        counter,
		ContentType: aws.String(contentType),
	}
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	if _, err := uploader.UploadWithContext(ctx, &input); err != nil {
		return 0, err
	}
	return counter.n, nil
}

func (s *S3Storage) Load(ctx context.Context, path string, writer io.Writer) (int64, error) {
	resp, err := s.s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket.Name),
		Key:    aws.String(s.Bucket.GetRemotePath(path)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return 0, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(writer, resp.Body)
}

// Delete checks for existence first: S3 deletes are idempotent and would
// otherwise hide a missing object.
func (s *S3Storage) Delete(ctx context.Context, path string) error {
	key := aws.String(s.Bucket.GetRemotePath(path))
	_, err := s.s3Client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{Bucket: aws.String(s.Bucket.Name), Key: key})
	if err != nil {
		if isS3NotFound(err) {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return err
	}
	_, err = s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{Bucket: aws.String(s.Bucket.Name), Key: key})
	return err
}

// Serve redirects to a presigned download URL
func (s *S3Storage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.Bucket.Name),
		Key:    aws.String(s.Bucket.GetRemotePath(path)),
	})
	url, err := req.Presign(presignViewURLFor)
	if err != nil {
		http.Error(writer, "cannot sign download URL", http.StatusInternalServerError)
		return
	}
	writer.Header().Set("cache-control", "private, max-age="+fmt.Sprint(int(presignViewURLFor.Seconds())-60))
	http.Redirect(writer, request, url, http.StatusFound)
}

// sniffContentType detects the type from the leading bytes and returns a
// reader that still yields the whole stream.
func sniffContentType(reader io.Reader) (string, io.Reader, error) {
	header := make([]byte, sniffLen)
	n, err := io.ReadFull(reader, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, err
	}
	header = header[:n]
	return mimetype.Detect(header).String(), io.MultiReader(bytes.NewReader(header), reader), nil
}

func isS3NotFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}

type countingReader struct {
	reader io.Reader
	n      int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.n += int64(n)
	return n, err
}
