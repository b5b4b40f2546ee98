package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshare/models"
)

func TestPhotos_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	photo := f.upload(t, "Original")

	blank := "  "
	_, err := f.photoService.Update(ctx, photo.ID, f.creator.ID, models.PhotoUpdate{Title: &blank})
	assert.ErrorIs(t, err, models.ErrValidation)

	title, caption := " Renamed ", "now with caption"
	updated, err := f.photoService.Update(ctx, photo.ID, f.creator.ID, models.PhotoUpdate{Title: &title, Caption: &caption})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	require.NotNil(t, updated.Caption)
	assert.Equal(t, caption, *updated.Caption)
	assert.Equal(t, photo.FilePath, updated.FilePath)

	_, err = f.photoService.Update(ctx, photo.ID, f.rival.ID, models.PhotoUpdate{Title: &title})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPhotos_DeleteOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	photo := f.upload(t, "Mine")
	files := f.storedFiles(t)
	require.Len(t, files, 2)

	err := f.photoService.Delete(ctx, photo.ID, f.rival.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, int64(1), f.photoCount(t))
	assert.ElementsMatch(t, files, f.storedFiles(t))

	require.NoError(t, f.photoService.Delete(ctx, photo.ID, f.creator.ID))
	assert.Zero(t, f.photoCount(t))
	assert.Empty(t, f.storedFiles(t))

	assert.ErrorIs(t, f.photoService.Delete(ctx, photo.ID, f.creator.ID), models.ErrNotFound)
}

func TestPhotos_DeleteWithMissingFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	photo := f.upload(t, "Half gone")
	require.NoError(t, f.store.Delete(ctx, *photo.ThumbnailPath))

	require.NoError(t, f.photoService.Delete(ctx, photo.ID, f.creator.ID))
	assert.Empty(t, f.storedFiles(t))

	var buf bytes.Buffer
	_, err := f.store.Load(ctx, photo.FilePath, &buf)
	assert.Error(t, err)
}
