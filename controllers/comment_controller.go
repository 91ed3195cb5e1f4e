// File: /controllers/comment_controller.go
package controllers

import (
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"net/http"
	"sectornet-api/models"
	"sectornet-api/services"
	"sectornet-api/utils"
)

type CommentController struct {
	db         *gorm.DB
	visibility *services.VisibilityService
	notifier   *services.NotificationService
}

func NewCommentController(db *gorm.DB, visibility *services.VisibilityService, notifier *services.NotificationService) *CommentController {
	return &CommentController{db: db, visibility: visibility, notifier: notifier}
}

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

func (cc *CommentController) CreateComment(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("post_id")

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	if !utils.IsValidCommentBody(req.Body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Comment must be between 1 and %d characters", utils.MaxCommentLength)})
		return
	}

	// Commenting requires the same visibility as reading
	post, err := cc.visibility.GetPost(c.Request.Context(), userID, postID)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) || errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	comment := models.Comment{
		ID:     uuid.New().String(),
		PostID: postID,
		UserID: userID,
		Body:   req.Body,
	}

	err = cc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	if err := cc.notifier.CreateCommentNotification(userID, post.UserID, postID); err != nil {
		fmt.Printf("Failed to create comment notification: %v\n", err)
	}

	cc.db.Preload("User").First(&comment, "id = ?", comment.ID)
	comment.User.Password = ""
	c.JSON(http.StatusCreated, comment)
}

func (cc *CommentController) GetComments(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("post_id")
	page, limit := parsePagination(c)

	if _, err := cc.visibility.GetPost(c.Request.Context(), userID, postID); err != nil {
		if errors.Is(err, services.ErrPostNotFound) || errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	var total int64
	cc.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&total)

	var comments []models.Comment
	if err := cc.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	for i := range comments {
		comments[i].User.Password = ""
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"page":     page,
		"limit":    limit,
		"total":    total,
	})
}

func (cc *CommentController) DeleteComment(c *gin.Context) {
	userID := c.GetString("user_id")
	commentID := c.Param("comment_id")

	var comment models.Comment
	if err := cc.db.First(&comment, "id = ?", commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	var post models.Post
	if err := cc.db.First(&post, "id = ?", comment.PostID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	// Comment author or post author may remove a comment
	if comment.UserID != userID && post.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot delete this comment"})
		return
	}

	err := cc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ? AND comments_count > 0", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count - 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
