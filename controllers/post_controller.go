// File: /controllers/post_controller.go
package controllers

import (
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"net/http"
	"sectornet-api/models"
	"sectornet-api/repositories"
	"sectornet-api/services"
	"sectornet-api/utils"
	"strconv"
)

type PostController struct {
	db          *gorm.DB
	rel         *repositories.RelationshipRepository
	visibility  *services.VisibilityService
	votes       *services.VoteService
	fingerprint *services.FingerprintService
	cascade     *services.CascadeService
}

func NewPostController(db *gorm.DB, rel *repositories.RelationshipRepository, visibility *services.VisibilityService, votes *services.VoteService, fingerprint *services.FingerprintService, cascade *services.CascadeService) *PostController {
	return &PostController{
		db:          db,
		rel:         rel,
		visibility:  visibility,
		votes:       votes,
		fingerprint: fingerprint,
		cascade:     cascade,
	}
}

type CreatePostRequest struct {
	Content  string                     `json:"content" binding:"required"`
	Image    *string                    `json:"image"`
	Location *string                    `json:"location"`
	Privacy  *models.PostPrivacyRequest `json:"privacy"`
	GroupID  *string                    `json:"group_id"`
	Sector   string                     `json:"sector"`
}

func (pc *PostController) CreatePost(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	if !utils.IsValidPostContent(req.Content) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Content must be between 1 and %d characters", utils.MaxPostContentLength)})
		return
	}

	var user models.User
	if err := pc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	sector := req.Sector
	if sector == "" {
		if len(user.Sectors) > 0 {
			sector = user.Sectors[0]
		}
	}
	if !utils.IsValidSector(sector) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sector"})
		return
	}
	if !user.HasSector(sector) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this sector"})
		return
	}

	privacy := models.PrivacyPublic
	var allowList []string
	if req.Privacy != nil {
		switch req.Privacy.Level {
		case models.PrivacyPublic, models.PrivacyFriends:
			privacy = req.Privacy.Level
		case models.PrivacySpecific:
			privacy = req.Privacy.Level
			allowList = req.Privacy.AllowList
			if len(allowList) == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Specific privacy requires a non-empty allow list"})
				return
			}
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid privacy level"})
			return
		}
	}

	// Group posts require membership; the group also pins the post's sector
	if req.GroupID != nil {
		isMember, err := pc.rel.IsGroupMember(c.Request.Context(), *req.GroupID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check group membership"})
			return
		}
		if !isMember {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this group"})
			return
		}

		var group models.Group
		if err := pc.db.First(&group, "id = ?", *req.GroupID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		sector = group.Sector
	}

	contentHash, err := pc.fingerprint.CheckAndRegister(c.Request.Context(), userID, req.Content, req.Image)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateContent) {
			c.JSON(http.StatusConflict, gin.H{"error": "You already posted this content recently"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	post := models.Post{
		ID:          uuid.New().String(),
		UserID:      userID,
		Content:     req.Content,
		Image:       req.Image,
		Location:    req.Location,
		Privacy:     privacy,
		GroupID:     req.GroupID,
		Sector:      sector,
		ContentHash: contentHash,
	}

	err = pc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		for _, allowedID := range allowList {
			if allowedID == userID {
				continue
			}
			audience := models.PostAudience{PostID: post.ID, UserID: allowedID}
			if err := tx.Create(&audience).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	pc.db.Preload("User").First(&post, "id = ?", post.ID)
	post.User.Password = ""
	c.JSON(http.StatusCreated, post)
}

func (pc *PostController) GetFeed(c *gin.Context) {
	userID := c.GetString("user_id")
	page, limit := parsePagination(c)
	sector := c.Query("sector")

	if sector == "" {
		var user models.User
		if err := pc.db.First(&user, "id = ?", userID).Error; err == nil && len(user.Sectors) > 0 {
			sector = user.Sectors[0]
		}
	}

	posts, total, err := pc.visibility.ListFeed(c.Request.Context(), userID, sector, (page-1)*limit, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feed"})
		return
	}

	pc.respondFeed(c, userID, posts, total, page, limit)
}

func (pc *PostController) GetFollowingFeed(c *gin.Context) {
	userID := c.GetString("user_id")
	page, limit := parsePagination(c)
	sector := c.Query("sector")

	if sector == "" {
		var user models.User
		if err := pc.db.First(&user, "id = ?", userID).Error; err == nil && len(user.Sectors) > 0 {
			sector = user.Sectors[0]
		}
	}

	posts, total, err := pc.visibility.ListFollowingFeed(c.Request.Context(), userID, sector, (page-1)*limit, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch following feed"})
		return
	}

	pc.respondFeed(c, userID, posts, total, page, limit)
}

func (pc *PostController) GetGroupPosts(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("group_id")
	page, limit := parsePagination(c)

	posts, total, err := pc.visibility.ListGroupPosts(c.Request.Context(), userID, groupID, (page-1)*limit, limit)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this group"})
			return
		}
		if errors.Is(err, services.ErrGroupNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch group posts"})
		return
	}

	pc.respondFeed(c, userID, posts, total, page, limit)
}

func (pc *PostController) GetUserPosts(c *gin.Context) {
	viewerID := c.GetString("user_id")
	authorID := c.Param("user_id")
	page, limit := parsePagination(c)
	sector := c.Query("sector")

	posts, err := pc.visibility.ListUserPosts(c.Request.Context(), viewerID, authorID, sector, (page-1)*limit, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user posts"})
		return
	}

	pc.respondFeed(c, viewerID, posts, int64(len(posts)), page, limit)
}

func (pc *PostController) GetPost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("post_id")

	post, err := pc.visibility.GetPost(c.Request.Context(), userID, postID)
	if err != nil {
		// Invisible posts look the same as missing ones
		if errors.Is(err, services.ErrPostNotFound) || errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	enriched, err := pc.withInteractions(userID, []models.Post{*post})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	c.JSON(http.StatusOK, enriched[0])
}

type VoteRequest struct {
	VoteType models.VoteType `json:"vote_type" binding:"required"`
}

func (pc *PostController) VotePost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("post_id")

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	post, err := pc.votes.Vote(c.Request.Context(), userID, postID, req.VoteType)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPostRemoved):
			// The vote landed, then the post crossed the removal threshold
			c.JSON(http.StatusOK, gin.H{"message": "Post was removed due to community feedback", "removed": true})
		case errors.Is(err, services.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		case errors.Is(err, services.ErrSelfVote):
			c.JSON(http.StatusForbidden, gin.H{"error": "You cannot vote on your own post"})
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vote type"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote on post"})
		}
		return
	}

	enriched, err := pc.withInteractions(userID, []models.Post{*post})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	c.JSON(http.StatusOK, enriched[0])
}

type ReactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

func (pc *PostController) ReactToPost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("post_id")

	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	post, err := pc.votes.React(c.Request.Context(), userID, postID, req.Emoji)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		case errors.Is(err, services.ErrSelfReaction):
			c.JSON(http.StatusForbidden, gin.H{"error": "You cannot react to your own post"})
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid emoji"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to react to post"})
		}
		return
	}

	enriched, err := pc.withInteractions(userID, []models.Post{*post})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	c.JSON(http.StatusOK, enriched[0])
}

func (pc *PostController) SharePost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("post_id")
	var user models.User
	if err := pc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// The share is a new post, so the sector gets the same checks as CreatePost
	sector := c.Query("sector")
	if sector == "" && len(user.Sectors) > 0 {
		sector = user.Sectors[0]
	}
	if !utils.IsValidSector(sector) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sector"})
		return
	}
	if !user.HasSector(sector) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this sector"})
		return
	}

	share, err := pc.votes.Share(c.Request.Context(), userID, postID, sector)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "You cannot share your own post"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to share post"})
		}
		return
	}

	c.JSON(http.StatusCreated, share)
}

func (pc *PostController) DeletePost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("post_id")

	var post models.Post
	if err := pc.db.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if post.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
		return
	}

	if err := pc.cascade.DeletePost(c.Request.Context(), postID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func (pc *PostController) respondFeed(c *gin.Context, viewerID string, posts []models.Post, total int64, page, limit int) {
	enriched, err := pc.withInteractions(viewerID, posts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feed"})
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, models.FeedResponse{
		Posts:      enriched,
		Page:       page,
		Limit:      limit,
		Total:      total,
		HasMore:    int64(page*limit) < total,
		TotalPages: totalPages,
	})
}

// withInteractions loads votes and reactions for a page of posts in two
// queries and folds them into per-post summaries for the viewer.
func (pc *PostController) withInteractions(viewerID string, posts []models.Post) ([]models.PostWithInteractions, error) {
	result := make([]models.PostWithInteractions, 0, len(posts))
	if len(posts) == 0 {
		return result, nil
	}

	postIDs := make([]string, len(posts))
	for i, post := range posts {
		postIDs[i] = post.ID
	}

	var votes []models.PostVote
	if err := pc.db.Where("post_id IN ?", postIDs).Find(&votes).Error; err != nil {
		return nil, err
	}

	var reactions []models.PostReaction
	if err := pc.db.Where("post_id IN ?", postIDs).Find(&reactions).Error; err != nil {
		return nil, err
	}

	likesByPost := make(map[string][]string)
	dislikesByPost := make(map[string][]string)
	for _, vote := range votes {
		if vote.VoteType == models.VoteTypeLike {
			likesByPost[vote.PostID] = append(likesByPost[vote.PostID], vote.UserID)
		} else {
			dislikesByPost[vote.PostID] = append(dislikesByPost[vote.PostID], vote.UserID)
		}
	}

	reactionsByPost := make(map[string]models.ReactionSummary)
	myReaction := make(map[string]string)
	for _, reaction := range reactions {
		if reactionsByPost[reaction.PostID] == nil {
			reactionsByPost[reaction.PostID] = models.ReactionSummary{}
		}
		reactionsByPost[reaction.PostID][reaction.Emoji] = append(reactionsByPost[reaction.PostID][reaction.Emoji], reaction.UserID)
		if reaction.UserID == viewerID {
			myReaction[reaction.PostID] = reaction.Emoji
		}
	}

	for _, post := range posts {
		post.User.Password = ""

		likes := likesByPost[post.ID]
		if likes == nil {
			likes = []string{}
		}
		dislikes := dislikesByPost[post.ID]
		if dislikes == nil {
			dislikes = []string{}
		}
		summary := reactionsByPost[post.ID]
		if summary == nil {
			summary = models.ReactionSummary{}
		}

		interactions := models.UserInteractions{MyReaction: myReaction[post.ID]}
		for _, id := range likes {
			if id == viewerID {
				interactions.IsLiked = true
			}
		}
		for _, id := range dislikes {
			if id == viewerID {
				interactions.IsDisliked = true
			}
		}

		result = append(result, models.PostWithInteractions{
			Post:             post,
			Likes:            likes,
			Dislikes:         dislikes,
			ReactionsByEmoji: summary,
			UserInteractions: interactions,
		})
	}

	return result, nil
}

func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	return page, limit
}
