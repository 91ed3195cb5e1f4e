// File: /controllers/chat_controller.go
package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"net/http"
	"sectornet-api/models"
	"sectornet-api/services"
	"time"
)

type ChatController struct {
	db  *gorm.DB
	hub *services.RealtimeHub
}

func NewChatController(db *gorm.DB, hub *services.RealtimeHub) *ChatController {
	return &ChatController{db: db, hub: hub}
}

type CreateChatRequest struct {
	Name    string   `json:"name"`
	IsGroup bool     `json:"is_group"`
	Sector  string   `json:"sector"`
	UserIDs []string `json:"user_ids" binding:"required"`
}

func (cc *ChatController) CreateChat(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	var user models.User
	if err := cc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	sector := req.Sector
	if sector == "" && len(user.Sectors) > 0 {
		sector = user.Sectors[0]
	}
	if !user.HasSector(sector) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this sector"})
		return
	}

	memberIDs := map[string]bool{userID: true}
	for _, id := range req.UserIDs {
		memberIDs[id] = true
	}
	if !req.IsGroup && len(memberIDs) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Direct chats need exactly one other member"})
		return
	}

	chat := models.Chat{
		ID:      uuid.New().String(),
		Name:    req.Name,
		IsGroup: req.IsGroup,
		Sector:  sector,
	}

	err := cc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&chat).Error; err != nil {
			return err
		}
		for id := range memberIDs {
			member := models.ChatMember{ChatID: chat.ID, UserID: id}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat"})
		return
	}

	cc.db.Preload("Members.User").First(&chat, "id = ?", chat.ID)
	c.JSON(http.StatusCreated, chat)
}

func (cc *ChatController) GetChats(c *gin.Context) {
	userID := c.GetString("user_id")

	var chatIDs []string
	if err := cc.db.Model(&models.ChatMember{}).
		Where("user_id = ?", userID).
		Pluck("chat_id", &chatIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chats"})
		return
	}

	var chats []models.Chat
	if len(chatIDs) > 0 {
		if err := cc.db.Preload("Members.User").
			Where("id IN ?", chatIDs).
			Order("last_message_time DESC").
			Find(&chats).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chats"})
			return
		}
	}

	for i := range chats {
		for j := range chats[i].Members {
			chats[i].Members[j].User.Password = ""
		}
	}
	c.JSON(http.StatusOK, chats)
}

func (cc *ChatController) GetMessages(c *gin.Context) {
	userID := c.GetString("user_id")
	chatID := c.Param("chat_id")
	page, limit := parsePagination(c)

	if !cc.isChatMember(chatID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this chat"})
		return
	}

	var messages []models.Message
	if err := cc.db.Preload("User").
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	for i := range messages {
		messages[i].User.Password = ""
	}
	c.JSON(http.StatusOK, messages)
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (cc *ChatController) SendMessage(c *gin.Context) {
	userID := c.GetString("user_id")
	chatID := c.Param("chat_id")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	if !cc.isChatMember(chatID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this chat"})
		return
	}

	message := models.Message{
		ID:      uuid.New().String(),
		ChatID:  chatID,
		UserID:  userID,
		Content: req.Content,
	}

	now := time.Now()
	err := cc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Chat{}).Where("id = ?", chatID).Updates(map[string]interface{}{
			"last_message":      req.Content,
			"last_message_time": now,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	cc.db.Preload("User").First(&message, "id = ?", message.ID)
	message.User.Password = ""

	// Push to the other online members
	var memberIDs []string
	cc.db.Model(&models.ChatMember{}).
		Where("chat_id = ? AND user_id != ?", chatID, userID).
		Pluck("user_id", &memberIDs)
	cc.hub.Broadcast(memberIDs, "new_message", message)

	c.JSON(http.StatusCreated, message)
}

func (cc *ChatController) Connect(c *gin.Context) {
	userID := c.GetString("user_id")
	if err := cc.hub.Register(userID, c.Writer, c.Request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to upgrade connection"})
		return
	}
}

func (cc *ChatController) isChatMember(chatID, userID string) bool {
	var count int64
	cc.db.Model(&models.ChatMember{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count)
	return count > 0
}
