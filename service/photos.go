package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"photoshare/models"
	"photoshare/storage"
)

// Photos handles creator-side edits and deletions.
type Photos struct {
	photos PhotoStore
	store  storage.StorageAPI
	log    *slog.Logger
}

func NewPhotos(photos PhotoStore, store storage.StorageAPI, log *slog.Logger) *Photos {
	return &Photos{photos: photos, store: store, log: log}
}

func (p *Photos) Update(ctx context.Context, id, ownerID uint64, upd models.PhotoUpdate) (*models.Photo, error) {
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, models.NewValidationError("title", models.ReasonRequired, "title cannot be empty")
		}
		upd.Title = &title
	}
	photo, err := p.photos.Update(ctx, id, ownerID, upd)
	if err != nil {
		p.logNotFound(err, id, ownerID)
		return nil, err
	}
	return photo, nil
}

// Delete removes the row first; the files follow on a best-effort basis.
func (p *Photos) Delete(ctx context.Context, id, ownerID uint64) error {
	photo, err := p.photos.Delete(ctx, id, ownerID)
	if err != nil {
		p.logNotFound(err, id, ownerID)
		return err
	}
	removeFiles(ctx, p.store, p.log, photo)
	p.log.Info("photo deleted", "photo_id", id, "creator_id", ownerID)
	return nil
}

func (p *Photos) logNotFound(err error, id, actorID uint64) {
	var nf *models.NotFoundError
	if errors.As(err, &nf) {
		p.log.Info("photo mutation refused", "photo_id", id, "actor_id", actorID, "cause", nf.Cause.String())
	}
}
