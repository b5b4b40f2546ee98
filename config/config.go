package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageTypeFile = "file"
	StorageTypeS3   = "s3"
)

type Config struct {
	BindAddress string
	TLSDomains  string // e.g. "example.com,example2.com"
	DebugMode   bool
	LogFormat   string // "text" or "json"
	SessionKey  string // random per process when empty
	CORSOrigins string

	MySQLDSN    string // MySQL will be used if this is set
	PostgresDSN string // Postgres is used if MySQLDSN is empty and this is set
	SQLiteFile  string // Fallback store

	StorageType string
	UploadDir   string // Base directory for "file" storage
	TmpDir      string // Staging area for incoming multipart uploads
	S3Bucket    string
	S3Region    string
	S3Endpoint  string // Custom endpoint for S3 compatible services (MinIO etc)
	S3AccessKey string
	S3SecretKey string
	S3Prefix    string

	MaxFileSize      int64
	AllowedFileTypes []string
	ThumbnailSize    int
	CommentsPreview  int
}

func Defaults() *Config {
	return &Config{
		BindAddress:      "0.0.0.0:8080",
		DebugMode:        false,
		LogFormat:        "text",
		CORSOrigins:      "*",
		SQLiteFile:       "photoshare.db",
		StorageType:      StorageTypeFile,
		UploadDir:        "./uploads",
		TmpDir:           os.TempDir(),
		S3Region:         "us-east-1",
		MaxFileSize:      10 * 1024 * 1024,
		AllowedFileTypes: []string{"image/jpeg", "image/png", "image/webp"},
		ThumbnailSize:    400,
		CommentsPreview:  10,
	}
}

// Load applies defaults, then an optional .env file, then the environment.
func Load() *Config {
	// A missing .env is normal outside of development
	_ = godotenv.Load()

	c := Defaults()
	readEnvString("BIND_ADDRESS", &c.BindAddress)
	readEnvString("TLS_DOMAINS", &c.TLSDomains)
	readEnvBool("DEBUG_MODE", &c.DebugMode)
	readEnvString("LOG_FORMAT", &c.LogFormat)
	readEnvString("SESSION_KEY", &c.SessionKey)
	readEnvString("CORS_ORIGINS", &c.CORSOrigins)
	readEnvString("MYSQL_DSN", &c.MySQLDSN)
	readEnvString("POSTGRES_DSN", &c.PostgresDSN)
	readEnvString("SQLITE_FILE", &c.SQLiteFile)
	readEnvString("STORAGE_TYPE", &c.StorageType)
	readEnvString("UPLOAD_DIR", &c.UploadDir)
	readEnvString("TMP_DIR", &c.TmpDir)
	readEnvString("S3_BUCKET", &c.S3Bucket)
	readEnvString("S3_REGION", &c.S3Region)
	readEnvString("S3_ENDPOINT", &c.S3Endpoint)
	readEnvString("S3_ACCESS_KEY", &c.S3AccessKey)
	readEnvString("S3_SECRET_KEY", &c.S3SecretKey)
	readEnvString("S3_PREFIX", &c.S3Prefix)
	readEnvInt64("MAX_FILE_SIZE", &c.MaxFileSize)
	readEnvList("ALLOWED_FILE_TYPES", &c.AllowedFileTypes)
	readEnvInt("THUMBNAIL_SIZE", &c.ThumbnailSize)
	readEnvInt("COMMENTS_PREVIEW", &c.CommentsPreview)
	c.StorageType = strings.ToLower(c.StorageType)
	return c
}

func (c *Config) CORSOriginList() []string {
	var result []string
	readList(c.CORSOrigins, &result)
	return result
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return
	}
	*value = i
}

func readEnvInt64(name string, value *int64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil || i <= 0 {
		return
	}
	*value = i
}

func readEnvList(name string, value *[]string) {
	readList(os.Getenv(name), value)
}

// readList splits a comma separated value, ignoring blanks. An empty input
// leaves the current value untouched.
func readList(v string, value *[]string) {
	var result []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	if len(result) > 0 {
		*value = result
	}
}
