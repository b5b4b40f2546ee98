package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"photoshare/models"
)

type CommentPage struct {
	Comments []*models.Comment `json:"comments"`
	PageInfo PageInfo          `json:"pageInfo"`
}

type RatingResult struct {
	Rating *models.Rating     `json:"rating"`
	Stats  models.RatingStats `json:"ratingStats"`
}

// Engagement handles comments and ratings on existing photos.
type Engagement struct {
	photos     PhotoStore
	engagement EngagementStore
	log        *slog.Logger
}

func NewEngagement(photos PhotoStore, engagement EngagementStore, log *slog.Logger) *Engagement {
	return &Engagement{photos: photos, engagement: engagement, log: log}
}

func commentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", models.NewValidationError("content", models.ReasonRequired, "comment content is required")
	}
	return content, nil
}

// AddComment attaches a comment to a photo. A reply must point at a comment
// on the same photo.
func (e *Engagement) AddComment(ctx context.Context, photoID, authorID uint64, content string, parentID *uint64) (*models.Comment, error) {
	content, err := commentContent(content)
	if err != nil {
		return nil, err
	}
	if _, err := e.photos.FindByID(ctx, photoID); err != nil {
		return nil, err
	}
	if parentID != nil {
		parent, err := e.engagement.FindComment(ctx, *parentID)
		if errors.Is(err, models.ErrNotFound) || (err == nil && parent.PhotoID != photoID) {
			return nil, models.NewValidationError("parent_comment_id", models.ReasonInvalid, "parent comment does not belong to this photo")
		}
		if err != nil {
			return nil, err
		}
	}
	comment := &models.Comment{PhotoID: photoID, UserID: authorID, ParentCommentID: parentID, Content: content}
	if err := e.engagement.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return e.engagement.FindComment(ctx, comment.ID)
}

func (e *Engagement) EditComment(ctx context.Context, id, authorID uint64, content string) (*models.Comment, error) {
	content, err := commentContent(content)
	if err != nil {
		return nil, err
	}
	return e.engagement.UpdateComment(ctx, id, authorID, content)
}

func (e *Engagement) RemoveComment(ctx context.Context, id, authorID uint64) error {
	return e.engagement.DeleteComment(ctx, id, authorID)
}

func (e *Engagement) ListComments(ctx context.Context, photoID uint64, page, limit int) (*CommentPage, error) {
	if _, err := e.photos.FindByID(ctx, photoID); err != nil {
		return nil, err
	}
	page, limit = NormalizePage(page, limit)
	comments, err := e.engagement.ListComments(ctx, photoID, limit, offset(page, limit))
	if err != nil {
		return nil, err
	}
	total, err := e.engagement.CountComments(ctx, photoID)
	if err != nil {
		return nil, err
	}
	return &CommentPage{Comments: comments, PageInfo: NewPageInfo(page, limit, total)}, nil
}

// Rate records the user's rating, replacing a previous one, and returns the
// photo's fresh stats.
func (e *Engagement) Rate(ctx context.Context, photoID, userID uint64, value int) (*RatingResult, error) {
	if value < models.MinRating || value > models.MaxRating {
		return nil, models.NewValidationError("rating", models.ReasonOutOfRange,
			"rating must be between %d and %d", models.MinRating, models.MaxRating)
	}
	if _, err := e.photos.FindByID(ctx, photoID); err != nil {
		return nil, err
	}
	rating, err := e.engagement.UpsertRating(ctx, photoID, userID, value)
	if err != nil {
		return nil, err
	}
	stats, err := e.engagement.GetStats(ctx, photoID)
	if err != nil {
		return nil, err
	}
	e.log.Debug("photo rated", "photo_id", photoID, "user_id", userID, "rating", value)
	return &RatingResult{Rating: rating, Stats: stats}, nil
}

func (e *Engagement) RemoveRating(ctx context.Context, photoID, userID uint64) error {
	return e.engagement.DeleteRating(ctx, photoID, userID)
}
