// File: /controllers/friend_controller.go
package controllers

import (
	"fmt"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"net/http"
	"sectornet-api/models"
	"sectornet-api/repositories"
	"sectornet-api/services"
	"strconv"
)

type FriendController struct {
	db       *gorm.DB
	rel      *repositories.RelationshipRepository
	notifier *services.NotificationService
}

func NewFriendController(db *gorm.DB, rel *repositories.RelationshipRepository, notifier *services.NotificationService) *FriendController {
	return &FriendController{db: db, rel: rel, notifier: notifier}
}

type SendFriendRequestBody struct {
	Message *string `json:"message"`
}

func (fc *FriendController) SendFriendRequest(c *gin.Context) {
	senderID := c.GetString("user_id")
	receiverID := c.Param("user_id")

	if senderID == receiverID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot send friend request to yourself"})
		return
	}

	var body SendFriendRequestBody
	_ = c.ShouldBindJSON(&body)

	var receiver models.User
	if err := fc.db.First(&receiver, "id = ?", receiverID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	areFriends, err := fc.rel.AreFriends(c.Request.Context(), senderID, receiverID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check friendship"})
		return
	}
	if areFriends {
		c.JSON(http.StatusConflict, gin.H{"error": "Already friends with this user"})
		return
	}

	// No re-creation while a pending request between the pair exists
	var existingRequest models.FriendRequest
	err = fc.db.Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)) AND status = ?",
		senderID, receiverID, receiverID, senderID, models.FriendRequestStatusPending).First(&existingRequest).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Friend request already exists"})
		return
	}

	friendRequest := models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    body.Message,
		Status:     models.FriendRequestStatusPending,
	}

	if err := fc.db.Create(&friendRequest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send friend request"})
		return
	}

	if err := fc.notifier.CreateFriendRequestNotification(senderID, receiverID); err != nil {
		fmt.Printf("Failed to create friend request notification: %v\n", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend request sent successfully"})
}

func (fc *FriendController) AcceptFriendRequest(c *gin.Context) {
	userID := c.GetString("user_id")
	requestIDStr := c.Param("request_id")

	requestID, err := strconv.ParseUint(requestIDStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var friendRequest models.FriendRequest
	if err := fc.db.First(&friendRequest, "id = ? AND receiver_id = ? AND status = ?",
		uint(requestID), userID, models.FriendRequestStatusPending).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found"})
		return
	}

	err = fc.db.Transaction(func(tx *gorm.DB) error {
		friendRequest.Status = models.FriendRequestStatusAccepted
		if err := tx.Save(&friendRequest).Error; err != nil {
			return err
		}

		user1ID, user2ID := models.OrderedPair(friendRequest.SenderID, friendRequest.ReceiverID)
		friendship := models.Friendship{User1ID: user1ID, User2ID: user2ID}
		return tx.Create(&friendship).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept friend request"})
		return
	}

	fc.rel.InvalidateFriends(c.Request.Context(), friendRequest.SenderID, friendRequest.ReceiverID)
	c.JSON(http.StatusOK, gin.H{"message": "Friend request accepted successfully"})
}

func (fc *FriendController) RejectFriendRequest(c *gin.Context) {
	userID := c.GetString("user_id")
	requestIDStr := c.Param("request_id")

	requestID, err := strconv.ParseUint(requestIDStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var friendRequest models.FriendRequest
	if err := fc.db.First(&friendRequest, "id = ? AND receiver_id = ? AND status = ?",
		uint(requestID), userID, models.FriendRequestStatusPending).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found"})
		return
	}

	friendRequest.Status = models.FriendRequestStatusRejected
	if err := fc.db.Save(&friendRequest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject friend request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend request rejected successfully"})
}

func (fc *FriendController) GetFriendRequests(c *gin.Context) {
	userID := c.GetString("user_id")

	var requests []models.FriendRequest
	if err := fc.db.Preload("Sender").
		Where("receiver_id = ? AND status = ?", userID, models.FriendRequestStatusPending).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friend requests"})
		return
	}

	for i := range requests {
		requests[i].Sender.Password = ""
	}
	c.JSON(http.StatusOK, requests)
}

func (fc *FriendController) GetFriends(c *gin.Context) {
	userID := c.GetString("user_id")

	friendIDs, err := fc.rel.FriendIDsOf(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	var friends []models.User
	if len(friendIDs) > 0 {
		if err := fc.db.Where("id IN ?", friendIDs).Find(&friends).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
			return
		}
	}

	for i := range friends {
		friends[i].Password = ""
	}
	c.JSON(http.StatusOK, friends)
}

func (fc *FriendController) RemoveFriend(c *gin.Context) {
	userID := c.GetString("user_id")
	friendID := c.Param("user_id")

	if userID == friendID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid operation"})
		return
	}

	user1ID, user2ID := models.OrderedPair(userID, friendID)
	result := fc.db.Where("user1_id = ? AND user2_id = ?", user1ID, user2ID).Delete(&models.Friendship{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove friend"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Friendship not found"})
		return
	}

	fc.rel.InvalidateFriends(c.Request.Context(), userID, friendID)
	c.JSON(http.StatusOK, gin.H{"message": "Friend removed successfully"})
}
