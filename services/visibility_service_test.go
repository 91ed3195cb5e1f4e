package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sectornet-api/models"
)

func postIDs(posts []models.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func TestListFeedPrivacyLevels(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVisibilityService(db, newTestRelationships(db))
	ctx := context.Background()

	viewer := createTestUser(t, db, "viewer")
	friend := createTestUser(t, db, "friend")
	stranger := createTestUser(t, db, "stranger")
	makeFriends(t, db, viewer.ID, friend.ID)

	publicPost := createTestPost(t, db, stranger.ID, models.PrivacyPublic)
	friendsPost := createTestPost(t, db, friend.ID, models.PrivacyFriends)
	strangerFriendsPost := createTestPost(t, db, stranger.ID, models.PrivacyFriends)
	ownPost := createTestPost(t, db, viewer.ID, models.PrivacyFriends)

	specificIn := createTestPost(t, db, stranger.ID, models.PrivacySpecific)
	require.NoError(t, db.Create(&models.PostAudience{PostID: specificIn.ID, UserID: viewer.ID}).Error)
	specificOut := createTestPost(t, db, stranger.ID, models.PrivacySpecific)
	require.NoError(t, db.Create(&models.PostAudience{PostID: specificOut.ID, UserID: friend.ID}).Error)

	posts, total, err := svc.ListFeed(ctx, viewer.ID, testSector, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	ids := postIDs(posts)
	assert.Contains(t, ids, publicPost.ID)
	assert.Contains(t, ids, friendsPost.ID)
	assert.Contains(t, ids, ownPost.ID)
	assert.Contains(t, ids, specificIn.ID)
	assert.NotContains(t, ids, strangerFriendsPost.ID)
	assert.NotContains(t, ids, specificOut.ID)
}

func TestListFeedExcludesBlocked(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVisibilityService(db, newTestRelationships(db))
	ctx := context.Background()

	viewer := createTestUser(t, db, "viewer")
	blockedAuthor := createTestUser(t, db, "blocked")
	blockingAuthor := createTestUser(t, db, "blocker")

	blockUser(t, db, viewer.ID, blockedAuthor.ID)
	blockUser(t, db, blockingAuthor.ID, viewer.ID)

	createTestPost(t, db, blockedAuthor.ID, models.PrivacyPublic)
	createTestPost(t, db, blockingAuthor.ID, models.PrivacyPublic)

	posts, total, err := svc.ListFeed(ctx, viewer.ID, testSector, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, posts)
}

func TestListFeedSectorConfinement(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVisibilityService(db, newTestRelationships(db))
	ctx := context.Background()

	viewer := createTestUser(t, db, "viewer")
	author := createTestUser(t, db, "author")

	inSector := createTestPost(t, db, author.ID, models.PrivacyPublic)
	other := createTestPost(t, db, author.ID, models.PrivacyPublic)
	require.NoError(t, db.Model(other).Update("sector", "pilots").Error)

	posts, total, err := svc.ListFeed(ctx, viewer.ID, testSector, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, inSector.ID, posts[0].ID)
}

func TestListFeedExcludesGroupPosts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVisibilityService(db, newTestRelationships(db))
	ctx := context.Background()

	viewer := createTestUser(t, db, "viewer")
	author := createTestUser(t, db, "author")

	group := models.Group{ID: uuid.New().String(), Name: "g", CreatorID: author.ID, Sector: testSector}
	require.NoError(t, db.Create(&group).Error)
	require.NoError(t, db.Create(&models.GroupMember{GroupID: group.ID, UserID: viewer.ID, Role: models.GroupRoleMember}).Error)

	groupPost := createTestPost(t, db, author.ID, models.PrivacyPublic)
	require.NoError(t, db.Model(groupPost).Update("group_id", group.ID).Error)

	_, total, err := svc.ListFeed(ctx, viewer.ID, testSector, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	// The same post is reachable through the group listing
	posts, total, err := svc.ListGroupPosts(ctx, viewer.ID, group.ID, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, groupPost.ID, posts[0].ID)
}

func TestListGroupPostsMembersOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVisibilityService(db, newTestRelationships(db))
	ctx := context.Background()

	outsider := createTestUser(t, db, "outsider")
	creator := createTestUser(t, db, "creator")
	group := models.Group{ID: uuid.New().String(), Name: "g", CreatorID: creator.ID, Sector: testSector}
	require.NoError(t, db.Create(&group).Error)

	_, _, err := svc.ListGroupPosts(ctx, outsider.ID, group.ID, 0, 50)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListFollowingFeedIgnoresPrivacy(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVisibilityService(db, newTestRelationships(db))
	ctx := context.Background()

	viewer := createTestUser(t, db, "viewer")
	followed := createTestUser(t, db, "followed")
	unfollowed := createTestUser(t, db, "unfollowed")
	require.NoError(t, db.Create(&models.Follow{FollowerID: viewer.ID, FollowingID: followed.ID}).Error)

	friendsOnly := createTestPost(t, db, followed.ID, models.PrivacyFriends)
	createTestPost(t, db, unfollowed.ID, models.PrivacyPublic)

	posts, total, err := svc.ListFollowingFeed(ctx, viewer.ID, testSector, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, friendsOnly.ID, posts[0].ID)
}

func TestListFollowingFeedEmptyWithoutFollows(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVisibilityService(db, newTestRelationships(db))
	ctx := context.Background()

	viewer := createTestUser(t, db, "viewer")
	author := createTestUser(t, db, "author")
	createTestPost(t, db, author.ID, models.PrivacyPublic)

	posts, total, err := svc.ListFollowingFeed(ctx, viewer.ID, testSector, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, posts)
}

func TestListUserPostsFiltersPerPost(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVisibilityService(db, newTestRelationships(db))
	ctx := context.Background()

	viewer := createTestUser(t, db, "viewer")
	author := createTestUser(t, db, "author")

	public := createTestPost(t, db, author.ID, models.PrivacyPublic)
	createTestPost(t, db, author.ID, models.PrivacyFriends)

	posts, err := svc.ListUserPosts(ctx, viewer.ID, author.ID, testSector, 0, 50)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, public.ID, posts[0].ID)

	// Once friends, the friends-level post appears too
	makeFriends(t, db, viewer.ID, author.ID)
	posts, err = svc.ListUserPosts(ctx, viewer.ID, author.ID, testSector, 0, 50)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestGetPostVisibility(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVisibilityService(db, newTestRelationships(db))
	ctx := context.Background()

	viewer := createTestUser(t, db, "viewer")
	author := createTestUser(t, db, "author")

	hidden := createTestPost(t, db, author.ID, models.PrivacyFriends)
	_, err := svc.GetPost(ctx, viewer.ID, hidden.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// The author always sees their own post
	got, err := svc.GetPost(ctx, author.ID, hidden.ID)
	require.NoError(t, err)
	assert.Equal(t, hidden.ID, got.ID)

	_, err = svc.GetPost(ctx, viewer.ID, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}
