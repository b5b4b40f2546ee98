package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"photoshare/models"
)

const (
	ratingsJoin = "LEFT JOIN (SELECT photo_id, AVG(score) AS average_rating, COUNT(*) AS rating_count " +
		"FROM ratings GROUP BY photo_id) rs ON rs.photo_id = photos.id"
	creatorJoin  = "LEFT JOIN users ON users.id = photos.creator_id"
	photoColumns = "photos.*, rs.average_rating, COALESCE(rs.rating_count, 0) AS rating_count, " +
		"users.username AS creator_username, users.full_name AS creator_name"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func (r *PhotoRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Photo{}).
		Select(photoColumns).
		Joins(ratingsJoin).
		Joins(creatorJoin).
		Preload("People", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position")
		})
}

// Create inserts the photo and its ordered people rows atomically.
func (r *PhotoRepository) Create(ctx context.Context, photo *models.Photo) error {
	photo.PeoplePresent = models.NormalizePeople(photo.PeoplePresent)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(photo).Error; err != nil {
			return fmt.Errorf("insert photo: %w", err)
		}
		photo.People = photo.PeopleRows()
		if len(photo.People) > 0 {
			if err := tx.Create(&photo.People).Error; err != nil {
				return fmt.Errorf("insert people: %w", err)
			}
		}
		return nil
	})
}

func (r *PhotoRepository) FindByID(ctx context.Context, id uint64) (*models.Photo, error) {
	var photo models.Photo
	err := r.query(ctx).Where("photos.id = ?", id).Take(&photo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFound("photo", models.CauseMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("find photo %d: %w", id, err)
	}
	photo.SetPeopleFromRows()
	return &photo, nil
}

// List returns one catalog page. CountMatching with the same search and
// location counts exactly the rows List can return.
func (r *PhotoRepository) List(ctx context.Context, filter models.CatalogFilter) ([]*models.Photo, error) {
	tx := catalogPredicates(r.db.Dialector.Name(), filter.Search, filter.Location).apply(r.query(ctx))
	tx = tx.Order(orderClause(filter))
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		tx = tx.Offset(filter.Offset)
	}
	photos := []*models.Photo{}
	if err := tx.Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	for _, photo := range photos {
		photo.SetPeopleFromRows()
	}
	return photos, nil
}

func (r *PhotoRepository) CountMatching(ctx context.Context, search, location string) (int64, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&models.Photo{})
	if err := catalogPredicates(r.db.Dialector.Name(), search, location).apply(tx).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count photos: %w", err)
	}
	return count, nil
}

// ListByCreator returns the creator's photos, newest first.
func (r *PhotoRepository) ListByCreator(ctx context.Context, creatorID uint64, limit, offset int) ([]*models.Photo, error) {
	tx := r.query(ctx).
		Where("photos.creator_id = ?", creatorID).
		Order("photos.created_at DESC, photos.id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	photos := []*models.Photo{}
	if err := tx.Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("list photos of creator %d: %w", creatorID, err)
	}
	for _, photo := range photos {
		photo.SetPeopleFromRows()
	}
	return photos, nil
}

func (r *PhotoRepository) CountByCreator(ctx context.Context, creatorID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Photo{}).Where("creator_id = ?", creatorID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count photos of creator %d: %w", creatorID, err)
	}
	return count, nil
}

// Update merges the present fields of upd into a photo owned by ownerID.
func (r *PhotoRepository) Update(ctx context.Context, id, ownerID uint64, upd models.PhotoUpdate) (*models.Photo, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedPhoto(tx, id, ownerID); err != nil {
			return err
		}
		updates := map[string]any{"updated_at": time.Now().Unix()}
		// Map updates skip Photo.BeforeSave, so folded columns are set here
		if upd.Title != nil {
			updates["title"] = *upd.Title
			updates["title_folded"] = models.Fold(*upd.Title)
		}
		if upd.Caption != nil {
			updates["caption"] = models.OptionalString(*upd.Caption)
			updates["caption_folded"] = models.Fold(strings.TrimSpace(*upd.Caption))
		}
		if upd.Location != nil {
			updates["location"] = models.OptionalString(*upd.Location)
			updates["location_folded"] = models.Fold(strings.TrimSpace(*upd.Location))
		}
		if err := tx.Model(&models.Photo{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("update photo %d: %w", id, err)
		}
		if upd.PeoplePresent == nil {
			return nil
		}
		if err := tx.Where("photo_id = ?", id).Delete(&models.PhotoPerson{}).Error; err != nil {
			return fmt.Errorf("clear people of photo %d: %w", id, err)
		}
		photo := models.Photo{ID: id, PeoplePresent: models.NormalizePeople(*upd.PeoplePresent)}
		if rows := photo.PeopleRows(); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("insert people of photo %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Delete removes a photo owned by ownerID with its people, comments and
// ratings. The returned row still carries the file paths.
func (r *PhotoRepository) Delete(ctx context.Context, id, ownerID uint64) (*models.Photo, error) {
	var deleted *models.Photo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		photo, err := findOwnedPhoto(tx, id, ownerID)
		if err != nil {
			return err
		}
		for _, dependent := range []any{&models.PhotoPerson{}, &models.Rating{}, &models.Comment{}} {
			if err := tx.Where("photo_id = ?", id).Delete(dependent).Error; err != nil {
				return fmt.Errorf("delete %T of photo %d: %w", dependent, id, err)
			}
		}
		if err := tx.Delete(&models.Photo{}, id).Error; err != nil {
			return fmt.Errorf("delete photo %d: %w", id, err)
		}
		deleted = photo
		return nil
	})
	return deleted, err
}

// IncrementViewCount is a single atomic statement; concurrent readers may
// still lose increments on stores without row locking.
func (r *PhotoRepository) IncrementViewCount(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Model(&models.Photo{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("increment view count of photo %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NotFound("photo", models.CauseMissing)
	}
	return nil
}

// findOwnedPhoto tells a missing photo apart from someone else's for logging;
// both surface as models.ErrNotFound.
func findOwnedPhoto(tx *gorm.DB, id, ownerID uint64) (*models.Photo, error) {
	var photo models.Photo
	err := tx.Where("id = ? AND creator_id = ?", id, ownerID).Take(&photo).Error
	if err == nil {
		return &photo, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find photo %d: %w", id, err)
	}
	var count int64
	if err := tx.Model(&models.Photo{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("find photo %d: %w", id, err)
	}
	if count > 0 {
		return nil, models.NotFound("photo", models.CauseNotOwner)
	}
	return nil, models.NotFound("photo", models.CauseMissing)
}
