package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sectornet-api/models"
	"sectornet-api/repositories"
)

const testSector = "drivers"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache memory DB keeps all pooled connections on the
	// same database within one test.
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
		&models.FriendRequest{},
		&models.Post{},
		&models.PostVote{},
		&models.PostReaction{},
		&models.PostAudience{},
		&models.Comment{},
		&models.Group{},
		&models.GroupMember{},
		&models.GroupJoinRequest{},
		&models.Chat{},
		&models.ChatMember{},
		&models.Message{},
		&models.Notification{},
	)
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		Password:     "hashed-password",
		FullName:     username + " Test",
		NotifyOnLike: true,
		Sectors:      models.StringSliceType{testSector},
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, userID string, privacy models.PrivacyLevel) *models.Post {
	t.Helper()
	post := &models.Post{
		ID:      uuid.New().String(),
		UserID:  userID,
		Content: "post by " + userID,
		Privacy: privacy,
		Sector:  testSector,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func makeFriends(t *testing.T, db *gorm.DB, a, b string) {
	t.Helper()
	u1, u2 := models.OrderedPair(a, b)
	require.NoError(t, db.Create(&models.Friendship{User1ID: u1, User2ID: u2}).Error)
}

func blockUser(t *testing.T, db *gorm.DB, blockerID, blockedID string) {
	t.Helper()
	require.NoError(t, db.Create(&models.UserBlock{BlockerID: blockerID, BlockedID: blockedID}).Error)
}

func newTestRelationships(db *gorm.DB) *repositories.RelationshipRepository {
	return repositories.NewRelationshipRepository(db, nil)
}
