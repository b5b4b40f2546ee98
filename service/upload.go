package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"photoshare/models"
	"photoshare/processing"
	"photoshare/storage"
)

// UploadRequest is a staged file plus the metadata sent along with it.
type UploadRequest struct {
	CreatorID     uint64
	File          processing.StagedFile
	Title         string
	Caption       string
	Location      string
	PeoplePresent []string
}

// Uploader turns a staged upload into a stored original, an optional
// thumbnail and one photo row. Either all of it exists afterwards or none.
type Uploader struct {
	store     storage.StorageAPI
	processor *processing.Processor
	photos    PhotoStore
	log       *slog.Logger
}

func NewUploader(store storage.StorageAPI, processor *processing.Processor, photos PhotoStore, log *slog.Logger) *Uploader {
	return &Uploader{store: store, processor: processor, photos: photos, log: log}
}

func (u *Uploader) Upload(ctx context.Context, req UploadRequest) (*models.Photo, error) {
	tx := &saga{log: u.log}

	// An unreadable file gets no extension and fails in storeOriginal
	_, ext, _ := processing.Sniff(req.File.Path)
	original := u.store.Place(storage.KindOriginal, ext)
	if err := u.storeOriginal(ctx, tx, original, req.File.Path); err != nil {
		tx.rollback(ctx)
		return nil, models.Persistence("store original", err)
	}

	accepted, err := u.processor.Validate(req.File)
	if err != nil {
		tx.rollback(ctx)
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		tx.rollback(ctx)
		return nil, models.NewValidationError("title", models.ReasonRequired, "title is required")
	}

	photo := &models.Photo{
		CreatorID:     req.CreatorID,
		Title:         title,
		Caption:       models.OptionalString(req.Caption),
		Location:      models.OptionalString(req.Location),
		PeoplePresent: models.NormalizePeople(req.PeoplePresent),
		FilePath:      original,
		FileSize:      accepted.Size,
		MimeType:      accepted.MimeType,
	}

	thumbPath := u.store.Place(storage.KindThumbnail, "")
	thumb, err := u.processor.DeriveThumbnail(ctx, u.store, original, thumbPath)
	if err != nil {
		u.log.Warn("thumbnail not created", "path", original, "degraded", true, "error", err)
	} else {
		tx.onFailure("delete thumbnail", deleteFile(u.store, thumb.Path))
		photo.ThumbnailPath = &thumb.Path
		photo.Width = &thumb.OriginalWidth
		photo.Height = &thumb.OriginalHeight
	}

	if err := u.photos.Create(ctx, photo); err != nil {
		tx.rollback(ctx)
		return nil, models.Persistence("create photo", err)
	}
	u.log.Info("photo uploaded", "photo_id", photo.ID, "creator_id", photo.CreatorID, "size", photo.FileSize)

	stored, err := u.photos.FindByID(ctx, photo.ID)
	if err != nil {
		u.log.Warn("reload uploaded photo", "photo_id", photo.ID, "degraded", true, "error", err)
		return photo, nil
	}
	return stored, nil
}

func (u *Uploader) storeOriginal(ctx context.Context, tx *saga, path, staged string) error {
	f, err := os.Open(staged)
	if err != nil {
		return fmt.Errorf("open staged upload: %w", err)
	}
	defer f.Close()
	tx.onFailure("delete original", deleteFile(u.store, path))
	if _, err := u.store.Save(ctx, path, f); err != nil {
		return err
	}
	return nil
}

// removeFiles deletes a photo's blobs after its row is gone. Failures leave
// orphans behind and are only logged.
func removeFiles(ctx context.Context, store storage.StorageAPI, log *slog.Logger, photo *models.Photo) {
	paths := []string{photo.FilePath}
	if photo.ThumbnailPath != nil {
		paths = append(paths, *photo.ThumbnailPath)
	}
	for _, path := range paths {
		err := store.Delete(ctx, path)
		switch {
		case err == nil:
		case errors.Is(err, storage.ErrNotFound):
			log.Warn("file already gone", "photo_id", photo.ID, "path", path)
		default:
			log.Error("file not removed", "photo_id", photo.ID, "path", path, "degraded", true, "error", err)
		}
	}
}
