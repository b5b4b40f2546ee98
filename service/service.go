package service

import (
	"context"
	"math"

	"photoshare/models"
)

// PhotoStore is the photo persistence the services depend on.
type PhotoStore interface {
	Create(ctx context.Context, photo *models.Photo) error
	FindByID(ctx context.Context, id uint64) (*models.Photo, error)
	List(ctx context.Context, filter models.CatalogFilter) ([]*models.Photo, error)
	CountMatching(ctx context.Context, search, location string) (int64, error)
	ListByCreator(ctx context.Context, creatorID uint64, limit, offset int) ([]*models.Photo, error)
	CountByCreator(ctx context.Context, creatorID uint64) (int64, error)
	Update(ctx context.Context, id, ownerID uint64, upd models.PhotoUpdate) (*models.Photo, error)
	Delete(ctx context.Context, id, ownerID uint64) (*models.Photo, error)
	IncrementViewCount(ctx context.Context, id uint64) error
}

// EngagementStore is the comment and rating persistence the services depend on.
type EngagementStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	FindComment(ctx context.Context, id uint64) (*models.Comment, error)
	ListComments(ctx context.Context, photoID uint64, limit, offset int) ([]*models.Comment, error)
	CountComments(ctx context.Context, photoID uint64) (int64, error)
	UpdateComment(ctx context.Context, id, authorID uint64, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id, authorID uint64) error
	UpsertRating(ctx context.Context, photoID, userID uint64, value int) (*models.Rating, error)
	GetUserRating(ctx context.Context, photoID, userID uint64) (*models.Rating, error)
	DeleteRating(ctx context.Context, photoID, userID uint64) error
	GetStats(ctx context.Context, photoID uint64) (models.RatingStats, error)
}

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

type PageInfo struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	Limit       int   `json:"limit"`
}

// NormalizePage replaces a non-positive page or limit with the defaults.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit
}

// offset saturates at math.MaxInt so an absurd page yields an empty result
// instead of wrapping around to an earlier one.
func offset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

func NewPageInfo(page, limit int, total int64) PageInfo {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return PageInfo{
		CurrentPage: page,
		TotalPages:  int(pages),
		TotalCount:  total,
		Limit:       limit,
	}
}
