// File: /controllers/user_controller.go
package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"net/http"
	"sectornet-api/models"
	"sectornet-api/repositories"
	"sectornet-api/services"
)

type UserController struct {
	db      *gorm.DB
	rel     *repositories.RelationshipRepository
	cascade *services.CascadeService
}

func NewUserController(db *gorm.DB, rel *repositories.RelationshipRepository, cascade *services.CascadeService) *UserController {
	return &UserController{db: db, rel: rel, cascade: cascade}
}

func (uc *UserController) GetUser(c *gin.Context) {
	userID := c.Param("user_id")

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) SearchUsers(c *gin.Context) {
	q := c.Query("q")

	var users []models.User
	query := uc.db.Limit(50)
	if q != "" {
		pattern := "%" + q + "%"
		query = query.Where("username LIKE ? OR full_name LIKE ?", pattern, pattern)
	}
	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}

	for i := range users {
		users[i].Password = ""
	}
	c.JSON(http.StatusOK, users)
}

// GetSectors returns the sectors the current user has joined.
func (uc *UserController) GetSectors(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sectors": user.Sectors})
}

type UpdateSettingsRequest struct {
	Bio          *string `json:"bio"`
	NotifyOnLike *bool   `json:"notify_on_like"`
}

func (uc *UserController) UpdateSettings(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.NotifyOnLike != nil {
		updates["notify_on_like"] = *req.NotifyOnLike
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	if err := uc.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully"})
}

func (uc *UserController) FollowUser(c *gin.Context) {
	userID := c.GetString("user_id")
	targetID := c.Param("user_id")

	if userID == targetID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}

	var target models.User
	if err := uc.db.First(&target, "id = ?", targetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var existing models.Follow
	if err := uc.db.Where("follower_id = ? AND following_id = ?", userID, targetID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already following this user"})
		return
	}

	follow := models.Follow{FollowerID: userID, FollowingID: targetID}
	if err := uc.db.Create(&follow).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User followed successfully"})
}

func (uc *UserController) UnfollowUser(c *gin.Context) {
	userID := c.GetString("user_id")
	targetID := c.Param("user_id")

	result := uc.db.Where("follower_id = ? AND following_id = ?", userID, targetID).Delete(&models.Follow{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not following this user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unfollowed successfully"})
}

func (uc *UserController) BlockUser(c *gin.Context) {
	userID := c.GetString("user_id")
	targetID := c.Param("user_id")

	if userID == targetID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot block yourself"})
		return
	}

	var target models.User
	if err := uc.db.First(&target, "id = ?", targetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var existing models.UserBlock
	if err := uc.db.Where("blocker_id = ? AND blocked_id = ?", userID, targetID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already blocked"})
		return
	}

	block := models.UserBlock{BlockerID: userID, BlockedID: targetID}
	if err := uc.db.Create(&block).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to block user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User blocked successfully"})
}

func (uc *UserController) UnblockUser(c *gin.Context) {
	userID := c.GetString("user_id")
	targetID := c.Param("user_id")

	result := uc.db.Where("blocker_id = ? AND blocked_id = ?", userID, targetID).Delete(&models.UserBlock{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unblock user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User is not blocked"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unblocked successfully"})
}

// DeleteAccount removes the current user and cascades every relation.
func (uc *UserController) DeleteAccount(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := uc.cascade.DeleteUser(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	uc.rel.InvalidateFriends(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
