package service

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshare/models"
)

func TestCatalog_GetCatalogPage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		f.upload(t, fmt.Sprintf("Photo %d", i))
	}

	page, err := f.catalog.GetCatalogPage(ctx, CatalogQuery{Page: 0, Limit: -5})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, PageInfo{CurrentPage: 1, TotalPages: 1, TotalCount: 5, Limit: 20}, page.PageInfo)

	page, err = f.catalog.GetCatalogPage(ctx, CatalogQuery{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 3, page.PageInfo.TotalPages)

	page, err = f.catalog.GetCatalogPage(ctx, CatalogQuery{Search: "photo 3", SortBy: "'; DROP TABLE photos; --"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Photo 3", page.Items[0].Title)
	assert.Equal(t, int64(1), page.PageInfo.TotalCount)

	page, err = f.catalog.GetCatalogPage(ctx, CatalogQuery{Page: math.MaxInt, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, math.MaxInt, page.PageInfo.CurrentPage)

	page, err = f.catalog.GetCatalogPage(ctx, CatalogQuery{Search: "nothing like it"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Zero(t, page.PageInfo.TotalPages)
}

func TestCatalog_GetPhotoDetail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	photo := f.upload(t, "Detail")

	detail, err := f.catalog.GetPhotoDetail(ctx, photo.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.Photo.ViewCount)
	assert.Nil(t, detail.Photo.Caption)
	assert.Nil(t, detail.ViewerRating)
	assert.Empty(t, detail.Comments)
	assert.Nil(t, detail.RatingStats.Average)

	detail, err = f.catalog.GetPhotoDetail(ctx, photo.ID, &f.fan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.Photo.ViewCount)
	assert.Nil(t, detail.ViewerRating)

	_, err = f.engageService.Rate(ctx, photo.ID, f.fan.ID, 4)
	require.NoError(t, err)
	for i := 0; i < 12; i++ {
		_, err = f.engageService.AddComment(ctx, photo.ID, f.fan.ID, fmt.Sprintf("comment %d", i), nil)
		require.NoError(t, err)
	}

	detail, err = f.catalog.GetPhotoDetail(ctx, photo.ID, &f.fan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), detail.Photo.ViewCount)
	require.NotNil(t, detail.ViewerRating)
	assert.Equal(t, 4, *detail.ViewerRating)
	assert.Len(t, detail.Comments, 10)
	assert.Equal(t, int64(1), detail.RatingStats.Count)
}

func TestCatalog_GetPhotoDetailMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.catalog.GetPhotoDetail(context.Background(), 999, nil)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCatalog_ListByCreator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.upload(t, "First")
	f.upload(t, "Second")

	page, err := f.catalog.ListByCreator(ctx, f.creator.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(2), page.PageInfo.TotalCount)
	assert.Equal(t, 2, page.PageInfo.TotalPages)

	page, err = f.catalog.ListByCreator(ctx, f.rival.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}
