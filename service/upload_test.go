package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshare/models"
	"photoshare/repository"
)

type failingPhotos struct {
	*repository.PhotoRepository
}

func (failingPhotos) Create(context.Context, *models.Photo) error {
	return errors.New("database is gone")
}

func TestUpload_Valid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	photo, err := f.uploader.Upload(ctx, UploadRequest{
		CreatorID:     f.creator.ID,
		File:          stage(t, "Holiday.PNG", pngBytes(t, 800, 600)),
		Title:         "  Beach  ",
		Caption:       "   ",
		Location:      "Faro",
		PeoplePresent: []string{"Amy", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, "Beach", photo.Title)
	assert.Nil(t, photo.Caption)
	require.NotNil(t, photo.Location)
	assert.Equal(t, "Faro", *photo.Location)
	assert.Equal(t, []string{"Amy"}, photo.PeoplePresent)
	assert.Equal(t, "image/png", photo.MimeType)
	assert.Equal(t, "ann", photo.CreatorUsername)
	assert.Regexp(t, `^photos/[0-9a-f-]{36}\.png$`, photo.FilePath)
	require.NotNil(t, photo.ThumbnailPath)
	require.NotNil(t, photo.Width)
	assert.Equal(t, 800, *photo.Width)
	assert.Equal(t, 600, *photo.Height)

	assert.Equal(t, int64(1), f.photoCount(t))
	assert.ElementsMatch(t, []string{photo.FilePath, *photo.ThumbnailPath}, f.storedFiles(t))
}

func TestUpload_ExtensionFollowsContent(t *testing.T) {
	f := newFixture(t)
	data := append(pngBytes(t, 20, 20), []byte("<script>alert(1)</script>")...)

	photo, err := f.uploader.Upload(context.Background(), UploadRequest{
		CreatorID: f.creator.ID,
		File:      stage(t, "x.html", data),
		Title:     "Polyglot",
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", photo.MimeType)
	assert.Regexp(t, `^photos/[0-9a-f-]{36}\.png$`, photo.FilePath)
}

func TestUpload_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		data   func(t *testing.T) []byte
		title  string
		max    int64
		reason models.ValidationReason
	}{
		{
			name:   "text file",
			file:   "notes.jpg",
			data:   func(*testing.T) []byte { return []byte("definitely not an image") },
			title:  "Notes",
			reason: models.ReasonUnsupportedType,
		},
		{
			name:   "too large",
			file:   "big.png",
			data:   func(t *testing.T) []byte { return pngBytes(t, 100, 100) },
			title:  "Big",
			max:    64,
			reason: models.ReasonTooLarge,
		},
		{
			name:   "blank title",
			file:   "pic.png",
			data:   func(t *testing.T) []byte { return pngBytes(t, 10, 10) },
			title:  "   ",
			reason: models.ReasonRequired,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.max > 0 {
				f.processor.MaxSize = tt.max
			}
			_, err := f.uploader.Upload(context.Background(), UploadRequest{
				CreatorID: f.creator.ID,
				File:      stage(t, tt.file, tt.data(t)),
				Title:     tt.title,
			})
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.reason, verr.Reason)
			assert.Zero(t, f.photoCount(t))
			assert.Empty(t, f.storedFiles(t))
		})
	}
}

func TestUpload_PersistFailureLeavesNoFiles(t *testing.T) {
	f := newFixture(t)
	uploader := NewUploader(f.store, f.processor, failingPhotos{f.photos}, f.log)

	_, err := uploader.Upload(context.Background(), UploadRequest{
		CreatorID: f.creator.ID,
		File:      stage(t, "pic.png", pngBytes(t, 50, 50)),
		Title:     "Lost",
	})
	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.Zero(t, f.photoCount(t))
	assert.Empty(t, f.storedFiles(t))
}

func TestUpload_ThumbnailFailureIsDegraded(t *testing.T) {
	f := newFixture(t)
	// a PNG signature followed by garbage sniffs as PNG but cannot be decoded
	data := append([]byte("\x89PNG\r\n\x1a\n"), []byte("garbage that is not a png body")...)

	photo, err := f.uploader.Upload(context.Background(), UploadRequest{
		CreatorID: f.creator.ID,
		File:      stage(t, "broken.png", data),
		Title:     "Broken",
	})
	require.NoError(t, err)
	assert.Nil(t, photo.ThumbnailPath)
	assert.Nil(t, photo.Width)
	assert.Nil(t, photo.Height)
	assert.Equal(t, []string{photo.FilePath}, f.storedFiles(t))
}

func TestUpload_MissingStagedFile(t *testing.T) {
	f := newFixture(t)
	_, err := f.uploader.Upload(context.Background(), UploadRequest{
		CreatorID: f.creator.ID,
		File:      stage(t, "pic.png", nil),
		Title:     "Gone",
	})
	require.Error(t, err)

	missing := stage(t, "pic.png", nil)
	missing.Path += ".missing"
	_, err = f.uploader.Upload(context.Background(), UploadRequest{CreatorID: f.creator.ID, File: missing, Title: "Gone"})
	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.Empty(t, f.storedFiles(t))
}
