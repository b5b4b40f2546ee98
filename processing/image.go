package processing

import (
	"fmt"
	"os"

	"github.com/gabriel-vasile/mimetype"

	"photoshare/config"
	"photoshare/models"
)

// StagedFile is an upload already written to a readable local path by the
// HTTP layer. MimeType is what the client declared and is not trusted.
type StagedFile struct {
	Path     string
	Filename string
	MimeType string
	Size     int64
}

// Accepted is the outcome of a successful Validate.
type Accepted struct {
	MimeType  string
	Extension string
	Size      int64
}

type Processor struct {
	AllowedTypes []string
	MaxSize      int64
	ThumbSize    uint
}

func NewProcessor(cfg *config.Config) *Processor {
	return &Processor{
		AllowedTypes: cfg.AllowedFileTypes,
		MaxSize:      cfg.MaxFileSize,
		ThumbSize:    uint(cfg.ThumbnailSize),
	}
}

// Sniff reports the content type of a staged file and the extension that
// goes with it. The client filename plays no part.
func Sniff(path string) (mimeType, ext string, err error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", "", fmt.Errorf("detect file type: %w", err)
	}
	return mtype.String(), mtype.Extension(), nil
}

// Validate checks the real (sniffed) content type against the allow-list and
// the on-disk size against MaxSize. Policy failures are *models.ValidationError.
func (p *Processor) Validate(f StagedFile) (Accepted, error) {
	fi, err := os.Stat(f.Path)
	if err != nil {
		return Accepted{}, fmt.Errorf("stat staged file: %w", err)
	}
	if fi.Size() > p.MaxSize {
		return Accepted{}, models.NewValidationError("photo", models.ReasonTooLarge,
			"file too large: %d bytes, maximum is %d", fi.Size(), p.MaxSize)
	}
	mtype, err := mimetype.DetectFile(f.Path)
	if err != nil {
		return Accepted{}, fmt.Errorf("detect file type: %w", err)
	}
	for _, allowed := range p.AllowedTypes {
		if mtype.Is(allowed) {
			return Accepted{MimeType: mtype.String(), Extension: mtype.Extension(), Size: fi.Size()}, nil
		}
	}
	return Accepted{}, models.NewValidationError("photo", models.ReasonUnsupportedType,
		"invalid file type %s, allowed types: %v", mtype.String(), p.AllowedTypes)
}
