package processing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"

	"photoshare/storage"
)

const thumbJPEGQuality = 90

type ImageThumbConverted struct {
	ThumbSize int64
	NewX      int
	NewY      int
	OldX      int
	OldY      int
}

// Thumbnail describes a stored thumbnail and the dimensions of its original.
type Thumbnail struct {
	Path           string
	Size           int64
	Width          int
	Height         int
	OriginalWidth  int
	OriginalHeight int
}

// CreateThumb fits the image into a size x size box keeping the aspect ratio.
// Images already inside the box are re-encoded but never upscaled.
func CreateThumb(size uint, reader io.Reader, writer io.Writer) (result ImageThumbConverted, err error) {
	img, _, err := image.Decode(reader)
	if err != nil {
		return result, err
	}
	var newBuf bytes.Buffer
	newImage := resize.Thumbnail(size, size, img, resize.Lanczos3)
	if err = jpeg.Encode(&newBuf, newImage, &jpeg.Options{Quality: thumbJPEGQuality}); err != nil {
		return
	}
	imageRect := newImage.Bounds().Size()
	result.NewX = imageRect.X
	result.NewY = imageRect.Y

	imageRect = img.Bounds().Size()
	result.OldX = imageRect.X
	result.OldY = imageRect.Y

	result.ThumbSize, err = io.Copy(writer, &newBuf)
	return
}

// DeriveThumbnail reads originalPath from store and writes a JPEG thumbnail
// to thumbPath. On error nothing is left at thumbPath.
func (p *Processor) DeriveThumbnail(ctx context.Context, store storage.StorageAPI, originalPath, thumbPath string) (Thumbnail, error) {
	var buf, thumb bytes.Buffer
	if _, err := store.Load(ctx, originalPath, &buf); err != nil {
		return Thumbnail{}, fmt.Errorf("load original %s: %w", originalPath, err)
	}
	info, err := CreateThumb(p.ThumbSize, &buf, &thumb)
	if err != nil {
		return Thumbnail{}, fmt.Errorf("create thumbnail for %s: %w", originalPath, err)
	}
	size, err := store.Save(ctx, thumbPath, &thumb)
	if err != nil {
		if delErr := store.Delete(ctx, thumbPath); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
			err = errors.Join(err, delErr)
		}
		return Thumbnail{}, fmt.Errorf("save thumbnail %s: %w", thumbPath, err)
	}
	return Thumbnail{
		Path:           thumbPath,
		Size:           size,
		Width:          info.NewX,
		Height:         info.NewY,
		OriginalWidth:  info.OldX,
		OriginalHeight: info.OldY,
	}, nil
}
