package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sectornet-api/models"
	"sectornet-api/repositories"
	"sectornet-api/services"
)

const testSector = "drivers"

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
		&models.FriendRequest{},
		&models.Post{},
		&models.PostVote{},
		&models.PostReaction{},
		&models.PostAudience{},
		&models.Comment{},
		&models.Group{},
		&models.GroupMember{},
		&models.GroupJoinRequest{},
		&models.Notification{},
	)
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed-password",
		FullName: username + " Test",
		Sectors:  models.StringSliceType{testSector},
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, userID string) *models.Post {
	t.Helper()
	post := &models.Post{
		ID:      uuid.New().String(),
		UserID:  userID,
		Content: "post by " + userID,
		Privacy: models.PrivacyPublic,
		Sector:  testSector,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

// newPostRouter wires a PostController behind a stub auth layer that takes
// the caller identity from the X-User-ID header.
func newPostRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)

	rel := repositories.NewRelationshipRepository(db, nil)
	notifier := services.NewNotificationService(db)
	cascade := services.NewCascadeService(db)
	votes := services.NewVoteService(db, cascade, notifier)
	fingerprint := services.NewFingerprintService(db)
	visibility := services.NewVisibilityService(db, rel)
	pc := NewPostController(db, rel, visibility, votes, fingerprint, cascade)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", c.GetHeader("X-User-ID"))
	})
	r.POST("/posts/:post_id/vote", pc.VotePost)
	r.POST("/posts/:post_id/react", pc.ReactToPost)
	r.POST("/posts/:post_id/share", pc.SharePost)
	r.GET("/posts/feed/following", pc.GetFollowingFeed)
	return r
}

func doRequest(r *gin.Engine, method, path, userID, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-User-ID", userID)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSelfActionsRespondForbidden(t *testing.T) {
	db := setupTestDB(t)
	r := newPostRouter(db)

	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author.ID)

	w := doRequest(r, http.MethodPost, "/posts/"+post.ID+"/vote", author.ID, `{"vote_type":"like"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, http.MethodPost, "/posts/"+post.ID+"/react", author.ID, `{"emoji":"🔥"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, http.MethodPost, "/posts/"+post.ID+"/share", author.ID, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFollowingFeedDefaultsToUserSector(t *testing.T) {
	db := setupTestDB(t)
	r := newPostRouter(db)

	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")
	post := createTestPost(t, db, author.ID)
	require.NoError(t, db.Create(&models.Follow{FollowerID: viewer.ID, FollowingID: author.ID}).Error)

	// No sector query param: the viewer's own sector applies
	w := doRequest(r, http.MethodGet, "/posts/feed/following", viewer.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var feed models.FeedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, post.ID, feed.Posts[0].ID)
}

func TestShareEnforcesSectorMembership(t *testing.T) {
	db := setupTestDB(t)
	r := newPostRouter(db)

	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")
	post := createTestPost(t, db, author.ID)

	// A sector the viewer never joined
	w := doRequest(r, http.MethodPost, "/posts/"+post.ID+"/share?sector=sports", viewer.ID, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Malformed sector name
	w = doRequest(r, http.MethodPost, "/posts/"+post.ID+"/share?sector=NOT!VALID", viewer.ID, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var shares int64
	db.Model(&models.Post{}).Where("shared_from_id = ?", post.ID).Count(&shares)
	assert.Equal(t, int64(0), shares)

	// The viewer's own sector is fine
	w = doRequest(r, http.MethodPost, "/posts/"+post.ID+"/share", viewer.ID, "")
	assert.Equal(t, http.StatusCreated, w.Code)
}
