package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sectornet-api/models"
)

func TestVoteToggleAndSwitch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db, NewCascadeService(db), NewNotificationService(db))
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")
	post := createTestPost(t, db, author.ID, models.PrivacyPublic)

	// First like creates the vote and bumps the counter
	updated, err := svc.Vote(ctx, viewer.ID, post.ID, models.VoteTypeLike)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.LikesCount)
	assert.Equal(t, 0, updated.DislikesCount)

	var voteCount int64
	db.Model(&models.PostVote{}).Where("post_id = ?", post.ID).Count(&voteCount)
	assert.Equal(t, int64(1), voteCount)

	// Liking again toggles the vote off
	updated, err = svc.Vote(ctx, viewer.ID, post.ID, models.VoteTypeLike)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.LikesCount)

	db.Model(&models.PostVote{}).Where("post_id = ?", post.ID).Count(&voteCount)
	assert.Equal(t, int64(0), voteCount)

	// Like then dislike switches sides without leaving residue
	_, err = svc.Vote(ctx, viewer.ID, post.ID, models.VoteTypeLike)
	require.NoError(t, err)
	updated, err = svc.Vote(ctx, viewer.ID, post.ID, models.VoteTypeDislike)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.LikesCount)
	assert.Equal(t, 1, updated.DislikesCount)

	db.Model(&models.PostVote{}).Where("post_id = ?", post.ID).Count(&voteCount)
	assert.Equal(t, int64(1), voteCount)

	var row models.PostVote
	require.NoError(t, db.Where("post_id = ? AND user_id = ?", post.ID, viewer.ID).First(&row).Error)
	assert.Equal(t, models.VoteTypeDislike, row.VoteType)
}

func TestVoteRejections(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db, NewCascadeService(db), NewNotificationService(db))
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")
	post := createTestPost(t, db, author.ID, models.PrivacyPublic)

	// The self-vote ban holds on every privacy level
	for _, privacy := range []models.PrivacyLevel{models.PrivacyPublic, models.PrivacyFriends, models.PrivacySpecific} {
		own := createTestPost(t, db, author.ID, privacy)
		_, err := svc.Vote(ctx, author.ID, own.ID, models.VoteTypeLike)
		assert.ErrorIs(t, err, ErrSelfVote)
	}

	_, err := svc.Vote(ctx, viewer.ID, post.ID, "upvote")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Vote(ctx, viewer.ID, "missing-post", models.VoteTypeLike)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestVoteAutoRemoval(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db, NewCascadeService(db), NewNotificationService(db))
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")
	post := createTestPost(t, db, author.ID, models.PrivacyPublic)

	// Sitting right at the threshold: the next dislike pushes it over
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).
		Update("dislikes_count", 10).Error)

	_, err := svc.Vote(ctx, viewer.ID, post.ID, models.VoteTypeDislike)
	assert.ErrorIs(t, err, ErrPostRemoved)

	var postCount int64
	db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&postCount)
	assert.Equal(t, int64(0), postCount)

	var voteCount int64
	db.Model(&models.PostVote{}).Where("post_id = ?", post.ID).Count(&voteCount)
	assert.Equal(t, int64(0), voteCount)
}

func TestVoteAutoRemovalSparedByLikes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db, NewCascadeService(db), NewNotificationService(db))
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")
	post := createTestPost(t, db, author.ID, models.PrivacyPublic)

	// A well-liked post survives heavy dislikes
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).
		Updates(map[string]interface{}{"dislikes_count": 10, "likes_count": 20}).Error)

	updated, err := svc.Vote(ctx, viewer.ID, post.ID, models.VoteTypeDislike)
	require.NoError(t, err)
	assert.Equal(t, 11, updated.DislikesCount)
}

func TestLikeNotification(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db, NewCascadeService(db), NewNotificationService(db))
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")
	post := createTestPost(t, db, author.ID, models.PrivacyPublic)

	_, err := svc.Vote(ctx, viewer.ID, post.ID, models.VoteTypeLike)
	require.NoError(t, err)

	var notifications []models.Notification
	db.Where("target_user_id = ?", author.ID).Find(&notifications)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeLike, notifications[0].Type)
	assert.Equal(t, viewer.ID, notifications[0].ActorUserID)
}

func TestLikeNotificationRespectsOptOut(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db, NewCascadeService(db), NewNotificationService(db))
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", author.ID).
		Update("notify_on_like", false).Error)
	viewer := createTestUser(t, db, "viewer")
	post := createTestPost(t, db, author.ID, models.PrivacyPublic)

	_, err := svc.Vote(ctx, viewer.ID, post.ID, models.VoteTypeLike)
	require.NoError(t, err)

	var count int64
	db.Model(&models.Notification{}).Where("target_user_id = ?", author.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestReactLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db, NewCascadeService(db), NewNotificationService(db))
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")
	post := createTestPost(t, db, author.ID, models.PrivacyPublic)

	_, err := svc.React(ctx, viewer.ID, post.ID, "🔥")
	require.NoError(t, err)

	var reaction models.PostReaction
	require.NoError(t, db.Where("post_id = ? AND user_id = ?", post.ID, viewer.ID).First(&reaction).Error)
	assert.Equal(t, "🔥", reaction.Emoji)

	// A different emoji moves the membership, it does not add a second row
	_, err = svc.React(ctx, viewer.ID, post.ID, "👍")
	require.NoError(t, err)

	var count int64
	db.Model(&models.PostReaction{}).Where("post_id = ? AND user_id = ?", post.ID, viewer.ID).Count(&count)
	assert.Equal(t, int64(1), count)
	require.NoError(t, db.Where("post_id = ? AND user_id = ?", post.ID, viewer.ID).First(&reaction).Error)
	assert.Equal(t, "👍", reaction.Emoji)

	// Repeating the held emoji removes it
	_, err = svc.React(ctx, viewer.ID, post.ID, "👍")
	require.NoError(t, err)
	db.Model(&models.PostReaction{}).Where("post_id = ? AND user_id = ?", post.ID, viewer.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestReactRejections(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db, NewCascadeService(db), NewNotificationService(db))
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author.ID, models.PrivacyPublic)

	for _, privacy := range []models.PrivacyLevel{models.PrivacyPublic, models.PrivacyFriends, models.PrivacySpecific} {
		own := createTestPost(t, db, author.ID, privacy)
		_, err := svc.React(ctx, author.ID, own.ID, "🔥")
		assert.ErrorIs(t, err, ErrSelfReaction)
	}

	viewer := createTestUser(t, db, "viewer")
	_, err := svc.React(ctx, viewer.ID, post.ID, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestShare(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db, NewCascadeService(db), NewNotificationService(db))
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")
	post := createTestPost(t, db, author.ID, models.PrivacyPublic)

	_, err := svc.Share(ctx, author.ID, post.ID, testSector)
	assert.ErrorIs(t, err, ErrForbidden)

	share, err := svc.Share(ctx, viewer.ID, post.ID, testSector)
	require.NoError(t, err)
	require.NotNil(t, share.SharedFromID)
	assert.Equal(t, post.ID, *share.SharedFromID)
	assert.Equal(t, models.PrivacyPublic, share.Privacy)
	assert.Empty(t, share.Content)

	var original models.Post
	require.NoError(t, db.First(&original, "id = ?", post.ID).Error)
	assert.Equal(t, 1, original.SharesCount)

	var notifications []models.Notification
	db.Where("target_user_id = ? AND type = ?", author.ID, models.NotificationTypeShare).Find(&notifications)
	assert.Len(t, notifications, 1)
}
