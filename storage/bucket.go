package storage

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"photoshare/config"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

// Bucket describes where blobs live: a directory on a drive or an S3 bucket.
type Bucket struct {
	Name        string
	StorageType StorageType
	Path        string // Path on a drive or a prefix in a S3 bucket
	Region      string
	Endpoint    string
	AccessKey   string
	SecretKey   string
}

func BucketFromConfig(cfg *config.Config) Bucket {
	if cfg.StorageType == config.StorageTypeS3 {
		return Bucket{
			Name:        cfg.S3Bucket,
			StorageType: StorageTypeS3,
			Path:        cfg.S3Prefix,
			Region:      cfg.S3Region,
			Endpoint:    cfg.S3Endpoint,
			AccessKey:   cfg.S3AccessKey,
			SecretKey:   cfg.S3SecretKey,
		}
	}
	return Bucket{
		Name:        "local",
		StorageType: StorageTypeFile,
		Path:        cfg.UploadDir,
	}
}

func (b *Bucket) IsS3() bool {
	return b.StorageType == StorageTypeS3
}

// GetRemotePath prefixes path with the bucket prefix, if any.
func (b *Bucket) GetRemotePath(path string) string {
	prefix := strings.Trim(b.Path, "/")
	if prefix == "" {
		return path
	}
	return prefix + "/" + path
}

func (b *Bucket) CreateSVC() (*s3.S3, error) {
	if b.Name == "" {
		return nil, fmt.Errorf("S3 bucket name is required")
	}
	awsConfig := aws.NewConfig().WithRegion(b.Region)
	if b.Endpoint != "" {
		// MinIO and friends need path-style addressing
		awsConfig = awsConfig.WithEndpoint(b.Endpoint).WithS3ForcePathStyle(true)
	}
	if b.AccessKey != "" {
		awsConfig = awsConfig.WithCredentials(credentials.NewStaticCredentials(b.AccessKey, b.SecretKey, ""))
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("create AWS session: %w", err)
	}
	return s3.New(sess), nil
}
