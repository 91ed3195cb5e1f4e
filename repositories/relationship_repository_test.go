package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sectornet-api/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.UserBlock{},
		&models.Friendship{},
		&models.Group{},
		&models.GroupMember{},
	)
	require.NoError(t, err)

	return db
}

func setupTestCache(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func createFriendship(t *testing.T, db *gorm.DB, a, b string) {
	t.Helper()
	u1, u2 := models.OrderedPair(a, b)
	require.NoError(t, db.Create(&models.Friendship{User1ID: u1, User2ID: u2}).Error)
}

func TestAreFriendsIsSymmetric(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRelationshipRepository(db, nil)
	ctx := context.Background()

	createFriendship(t, db, "alice", "bob")

	ok, err := repo.AreFriends(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.AreFriends(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.AreFriends(ctx, "alice", "carol")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsBlockedEitherDirection(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRelationshipRepository(db, nil)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.UserBlock{BlockerID: "alice", BlockedID: "bob"}).Error)

	ok, err := repo.IsBlocked(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, ok)

	// The blocked side sees the same wall
	ok, err = repo.IsBlocked(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsBlocked(ctx, "alice", "carol")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFriendIDsOfUsesCache(t *testing.T) {
	db := setupTestDB(t)
	cache := setupTestCache(t)
	repo := NewRelationshipRepository(db, cache)
	ctx := context.Background()

	createFriendship(t, db, "alice", "bob")
	createFriendship(t, db, "alice", "carol")

	ids, err := repo.FriendIDsOf(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bob", "carol"}, ids)

	// A DB-only change is invisible until the cache entry is dropped
	createFriendship(t, db, "alice", "dave")

	ids, err = repo.FriendIDsOf(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bob", "carol"}, ids)

	repo.InvalidateFriends(ctx, "alice")

	ids, err = repo.FriendIDsOf(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bob", "carol", "dave"}, ids)
}

func TestFriendIDsOfWithoutCache(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRelationshipRepository(db, nil)
	ctx := context.Background()

	createFriendship(t, db, "alice", "bob")

	ids, err := repo.FriendIDsOf(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, ids)

	ids, err = repo.FriendIDsOf(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFollowingIDsOf(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRelationshipRepository(db, nil)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Follow{FollowerID: "alice", FollowingID: "bob"}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: "carol", FollowingID: "alice"}).Error)

	ids, err := repo.FollowingIDsOf(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, ids)
}

func TestRoleOf(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRelationshipRepository(db, nil)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Group{ID: "g1", Name: "g", CreatorID: "alice", Sector: "drivers"}).Error)
	require.NoError(t, db.Create(&models.GroupMember{GroupID: "g1", UserID: "alice", Role: models.GroupRoleAdmin}).Error)
	require.NoError(t, db.Create(&models.GroupMember{GroupID: "g1", UserID: "bob", Role: models.GroupRoleModerator}).Error)

	role, err := repo.RoleOf(ctx, "g1", "alice")
	require.NoError(t, err)
	assert.Equal(t, models.GroupRoleAdmin, role)

	role, err = repo.RoleOf(ctx, "g1", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.GroupRoleModerator, role)

	role, err = repo.RoleOf(ctx, "g1", "stranger")
	require.NoError(t, err)
	assert.Equal(t, models.GroupRoleNone, role)

	member, err := repo.IsGroupMember(ctx, "g1", "bob")
	require.NoError(t, err)
	assert.True(t, member)
}
