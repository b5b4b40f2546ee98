package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"photoshare/models"
)

type engagementFixture struct {
	photos     *PhotoRepository
	engagement *EngagementRepository
	photo      *models.Photo
	fan        *models.User
	other      *models.User
}

func newEngagementFixture(t *testing.T) engagementFixture {
	t.Helper()
	conn := newTestDB(t)
	f := engagementFixture{
		photos:     NewPhotoRepository(conn),
		engagement: NewEngagementRepository(conn),
		fan:        seedUser(t, conn, "carl", models.RoleConsumer),
		other:      seedUser(t, conn, "dora", models.RoleConsumer),
	}
	f.photo = seedPhoto(t, f.photos, seedUser(t, conn, "ann", models.RoleCreator), photoSeed{title: "Rated"})
	return f
}

func TestEngagementRepository_Comments(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()

	first := &models.Comment{PhotoID: f.photo.ID, UserID: f.fan.ID, Content: "first", CreatedAt: 10}
	second := &models.Comment{PhotoID: f.photo.ID, UserID: f.other.ID, Content: "second", CreatedAt: 20}
	require.NoError(t, f.engagement.CreateComment(ctx, first))
	require.NoError(t, f.engagement.CreateComment(ctx, second))

	comments, err := f.engagement.ListComments(ctx, f.photo.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content)
	assert.Equal(t, "dora", comments[0].Username)
	assert.Equal(t, "carl Full", comments[1].AuthorName)

	comments, err = f.engagement.ListComments(ctx, f.photo.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "first", comments[0].Content)

	count, err := f.engagement.CountComments(ctx, f.photo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = f.engagement.UpdateComment(ctx, first.ID, f.other.ID, "hijacked")
	assert.ErrorIs(t, err, models.ErrNotFound)
	updated, err := f.engagement.UpdateComment(ctx, first.ID, f.fan.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.Equal(t, "carl", updated.Username)

	assert.ErrorIs(t, f.engagement.DeleteComment(ctx, first.ID, f.other.ID), models.ErrNotFound)
	require.NoError(t, f.engagement.DeleteComment(ctx, first.ID, f.fan.ID))
	_, err = f.engagement.FindComment(ctx, first.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, f.engagement.DeleteComment(ctx, first.ID, f.fan.ID), models.ErrNotFound)
}

func TestEngagementRepository_DeleteCommentWithReplies(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()

	parent := &models.Comment{PhotoID: f.photo.ID, UserID: f.fan.ID, Content: "parent"}
	require.NoError(t, f.engagement.CreateComment(ctx, parent))
	reply := &models.Comment{PhotoID: f.photo.ID, UserID: f.other.ID, Content: "reply", ParentCommentID: &parent.ID}
	require.NoError(t, f.engagement.CreateComment(ctx, reply))

	require.NoError(t, f.engagement.DeleteComment(ctx, parent.ID, f.fan.ID))
	count, err := f.engagement.CountComments(ctx, f.photo.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEngagementRepository_UpsertRating(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()

	first, err := f.engagement.UpsertRating(ctx, f.photo.ID, f.fan.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Value)

	again, err := f.engagement.UpsertRating(ctx, f.photo.ID, f.fan.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, again.Value)
	assert.Equal(t, first.CreatedAt, again.CreatedAt)

	stats, err := f.engagement.GetStats(ctx, f.photo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Count, "one rating per author")

	rating, err := f.engagement.GetUserRating(ctx, f.photo.ID, f.fan.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, rating.Value)

	_, err = f.engagement.GetUserRating(ctx, f.photo.ID, f.other.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, f.engagement.DeleteRating(ctx, f.photo.ID, f.fan.ID))
	assert.ErrorIs(t, f.engagement.DeleteRating(ctx, f.photo.ID, f.fan.ID), models.ErrNotFound)
}

func TestEngagementRepository_GetStats(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()

	stats, err := f.engagement.GetStats(ctx, f.photo.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.Count)
	assert.Nil(t, stats.Average)
	assert.Equal(t, map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, stats.Histogram)

	_, err = f.engagement.UpsertRating(ctx, f.photo.ID, f.fan.ID, 4)
	require.NoError(t, err)
	_, err = f.engagement.UpsertRating(ctx, f.photo.ID, f.other.ID, 5)
	require.NoError(t, err)

	stats, err = f.engagement.GetStats(ctx, f.photo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Count)
	require.NotNil(t, stats.Average)
	assert.Equal(t, 4.5, *stats.Average)
	assert.Equal(t, map[int]int64{1: 0, 2: 0, 3: 0, 4: 1, 5: 1}, stats.Histogram)
}

func TestEngagementRepository_StatsRounding(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()
	conn := f.engagement.db
	third := seedUser(t, conn, "eve", models.RoleConsumer)

	for user, score := range map[uint64]int{f.fan.ID: 5, f.other.ID: 4, third.ID: 4} {
		_, err := f.engagement.UpsertRating(ctx, f.photo.ID, user, score)
		require.NoError(t, err)
	}
	stats, err := f.engagement.GetStats(ctx, f.photo.ID)
	require.NoError(t, err)
	require.NotNil(t, stats.Average)
	assert.Equal(t, 4.33, *stats.Average)

	photo, err := f.photos.FindByID(ctx, f.photo.ID)
	require.NoError(t, err)
	require.NotNil(t, photo.AverageRating)
	assert.Equal(t, 4.33, *photo.AverageRating)
	assert.Equal(t, int64(3), photo.RatingCount)
}

func TestEngagementRepository_CommentWriteErrorsAreWrapped(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()
	comment := &models.Comment{PhotoID: f.photo.ID, UserID: f.fan.ID, Content: "hello"}
	require.NoError(t, f.engagement.CreateComment(ctx, comment))

	errBoom := errors.New("boom")
	require.NoError(t, f.engagement.db.Callback().Update().Before("gorm:update").Register("test:fail_update", func(tx *gorm.DB) {
		_ = tx.AddError(errBoom)
	}))
	_, err := f.engagement.UpdateComment(ctx, comment.ID, f.fan.ID, "edited")
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), fmt.Sprintf("update comment %d", comment.ID))

	// the second delete is the comment itself, after its replies
	deletes := 0
	require.NoError(t, f.engagement.db.Callback().Delete().Before("gorm:delete").Register("test:fail_delete", func(tx *gorm.DB) {
		if deletes++; deletes == 2 {
			_ = tx.AddError(errBoom)
		}
	}))
	err = f.engagement.DeleteComment(ctx, comment.ID, f.fan.ID)
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), fmt.Sprintf("delete comment %d", comment.ID))
}
