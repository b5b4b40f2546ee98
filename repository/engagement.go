package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"photoshare/models"
)

const commentColumns = "comments.*, users.username AS username, users.full_name AS author_name"

// EngagementRepository stores comments and ratings.
type EngagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

func (r *EngagementRepository) commentQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select(commentColumns).
		Joins("LEFT JOIN users ON users.id = comments.user_id")
}

func (r *EngagementRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *EngagementRepository) FindComment(ctx context.Context, id uint64) (*models.Comment, error) {
	var comment models.Comment
	err := r.commentQuery(ctx).Where("comments.id = ?", id).Take(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFound("comment", models.CauseMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("find comment %d: %w", id, err)
	}
	return &comment, nil
}

// ListComments returns the comments of a photo, newest first.
func (r *EngagementRepository) ListComments(ctx context.Context, photoID uint64, limit, offset int) ([]*models.Comment, error) {
	tx := r.commentQuery(ctx).
		Where("comments.photo_id = ?", photoID).
		Order("comments.created_at DESC, comments.id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	comments := []*models.Comment{}
	if err := tx.Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments of photo %d: %w", photoID, err)
	}
	return comments, nil
}

func (r *EngagementRepository) CountComments(ctx context.Context, photoID uint64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("photo_id = ?", photoID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count comments of photo %d: %w", photoID, err)
	}
	return count, nil
}

func (r *EngagementRepository) UpdateComment(ctx context.Context, id, authorID uint64, content string) (*models.Comment, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findOwnedComment(tx, id, authorID); err != nil {
			return err
		}
		err := tx.Model(&models.Comment{}).Where("id = ?", id).Updates(map[string]any{
			"content":    content,
			"updated_at": time.Now().Unix(),
		}).Error
		if err != nil {
			return fmt.Errorf("update comment %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindComment(ctx, id)
}

// DeleteComment removes a comment written by authorID; replies go with it.
func (r *EngagementRepository) DeleteComment(ctx context.Context, id, authorID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findOwnedComment(tx, id, authorID); err != nil {
			return err
		}
		if err := tx.Where("parent_comment_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete replies of comment %d: %w", id, err)
		}
		if err := tx.Delete(&models.Comment{}, id).Error; err != nil {
			return fmt.Errorf("delete comment %d: %w", id, err)
		}
		return nil
	})
}

func findOwnedComment(tx *gorm.DB, id, authorID uint64) error {
	var owner struct{ UserID uint64 }
	err := tx.Model(&models.Comment{}).Select("user_id").Where("id = ?", id).Take(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NotFound("comment", models.CauseMissing)
	}
	if err != nil {
		return fmt.Errorf("find comment %d: %w", id, err)
	}
	if owner.UserID != authorID {
		return models.NotFound("comment", models.CauseNotOwner)
	}
	return nil
}

// UpsertRating writes the author's single rating for a photo, replacing any
// previous value.
func (r *EngagementRepository) UpsertRating(ctx context.Context, photoID, userID uint64, value int) (*models.Rating, error) {
	now := time.Now().Unix()
	rating := models.Rating{PhotoID: photoID, UserID: userID, Value: value, CreatedAt: now, UpdatedAt: now}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "photo_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
	}).Create(&rating).Error
	if err != nil {
		return nil, fmt.Errorf("upsert rating: %w", err)
	}
	return r.GetUserRating(ctx, photoID, userID)
}

func (r *EngagementRepository) GetUserRating(ctx context.Context, photoID, userID uint64) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).Where("photo_id = ? AND user_id = ?", photoID, userID).Take(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFound("rating", models.CauseMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("find rating: %w", err)
	}
	return &rating, nil
}

func (r *EngagementRepository) DeleteRating(ctx context.Context, photoID, userID uint64) error {
	result := r.db.WithContext(ctx).Where("photo_id = ? AND user_id = ?", photoID, userID).Delete(&models.Rating{})
	if result.Error != nil {
		return fmt.Errorf("delete rating: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NotFound("rating", models.CauseMissing)
	}
	return nil
}

// GetStats aggregates a photo's ratings into a count, a 2-decimal average and
// a 1..5 histogram. Average is nil when nobody rated the photo.
func (r *EngagementRepository) GetStats(ctx context.Context, photoID uint64) (models.RatingStats, error) {
	var rows []struct {
		Score int
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Select("score, COUNT(*) AS total").
		Where("photo_id = ?", photoID).
		Group("score").
		Scan(&rows).Error
	stats := models.RatingStats{Histogram: models.EmptyHistogram()}
	if err != nil {
		return stats, fmt.Errorf("rating stats of photo %d: %w", photoID, err)
	}
	var sum int64
	for _, row := range rows {
		stats.Histogram[row.Score] = row.Total
		stats.Count += row.Total
		sum += int64(row.Score) * row.Total
	}
	if stats.Count > 0 {
		avg := models.RoundRating(float64(sum) / float64(stats.Count))
		stats.Average = &avg
	}
	return stats, nil
}
