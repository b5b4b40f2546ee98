package service

import (
	"context"
	"errors"
	"log/slog"

	"photoshare/models"
)

type CatalogQuery struct {
	Page      int
	Limit     int
	Search    string
	Location  string
	SortBy    string
	SortOrder string
}

type CatalogPage struct {
	Items    []*models.Photo `json:"items"`
	PageInfo PageInfo        `json:"pageInfo"`
}

type PhotoDetail struct {
	Photo        *models.Photo      `json:"photo"`
	Comments     []*models.Comment  `json:"comments"`
	RatingStats  models.RatingStats `json:"ratingStats"`
	ViewerRating *int               `json:"viewerRating"`
}

// Catalog is the read side: browsing, searching and the photo detail view.
type Catalog struct {
	photos          PhotoStore
	engagement      EngagementStore
	commentsPreview int
	log             *slog.Logger
}

func NewCatalog(photos PhotoStore, engagement EngagementStore, commentsPreview int, log *slog.Logger) *Catalog {
	return &Catalog{photos: photos, engagement: engagement, commentsPreview: commentsPreview, log: log}
}

func (c *Catalog) GetCatalogPage(ctx context.Context, q CatalogQuery) (*CatalogPage, error) {
	page, limit := NormalizePage(q.Page, q.Limit)
	photos, err := c.photos.List(ctx, models.CatalogFilter{
		Limit:     limit,
		Offset:    offset(page, limit),
		Search:    q.Search,
		Location:  q.Location,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	})
	if err != nil {
		return nil, err
	}
	total, err := c.photos.CountMatching(ctx, q.Search, q.Location)
	if err != nil {
		return nil, err
	}
	return &CatalogPage{Items: photos, PageInfo: NewPageInfo(page, limit, total)}, nil
}

// GetPhotoDetail counts one view and returns the photo with its first
// comments, rating stats and the viewer's own rating (nil when anonymous or
// not rated).
func (c *Catalog) GetPhotoDetail(ctx context.Context, id uint64, viewerID *uint64) (*PhotoDetail, error) {
	photo, err := c.photos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.photos.IncrementViewCount(ctx, id); err != nil {
		c.log.Warn("view not counted", "photo_id", id, "degraded", true, "error", err)
	} else {
		photo.ViewCount++
	}

	comments, err := c.engagement.ListComments(ctx, id, c.commentsPreview, 0)
	if err != nil {
		return nil, err
	}
	stats, err := c.engagement.GetStats(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &PhotoDetail{Photo: photo, Comments: comments, RatingStats: stats}
	if viewerID == nil {
		return detail, nil
	}
	rating, err := c.engagement.GetUserRating(ctx, id, *viewerID)
	switch {
	case err == nil:
		detail.ViewerRating = &rating.Value
	case !errors.Is(err, models.ErrNotFound):
		return nil, err
	}
	return detail, nil
}

func (c *Catalog) ListByCreator(ctx context.Context, creatorID uint64, page, limit int) (*CatalogPage, error) {
	page, limit = NormalizePage(page, limit)
	photos, err := c.photos.ListByCreator(ctx, creatorID, limit, offset(page, limit))
	if err != nil {
		return nil, err
	}
	total, err := c.photos.CountByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	return &CatalogPage{Items: photos, PageInfo: NewPageInfo(page, limit, total)}, nil
}

// FindPhoto returns a photo without counting a view.
func (c *Catalog) FindPhoto(ctx context.Context, id uint64) (*models.Photo, error) {
	return c.photos.FindByID(ctx, id)
}
