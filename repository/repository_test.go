package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"photoshare/db"
	"photoshare/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err)
	require.NoError(t, models.Migrate(conn))
	t.Cleanup(func() { _ = db.Close(conn) })
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Username: username, FullName: username + " Full", Role: role}
	require.NoError(t, conn.Create(user).Error)
	return user
}

type photoSeed struct {
	title     string
	caption   string
	location  string
	people    []string
	createdAt int64
	views     int64
}

func seedPhoto(t *testing.T, repo *PhotoRepository, creator *models.User, s photoSeed) *models.Photo {
	t.Helper()
	photo := &models.Photo{
		CreatorID:     creator.ID,
		Title:         s.title,
		Caption:       models.OptionalString(s.caption),
		Location:      models.OptionalString(s.location),
		PeoplePresent: s.people,
		FilePath:      "photos/" + s.title + ".jpg",
		FileSize:      1234,
		MimeType:      "image/jpeg",
		ViewCount:     s.views,
		CreatedAt:     s.createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), photo))
	return photo
}
