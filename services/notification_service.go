// File: /services/notification_service.go
package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sectornet-api/models"
)

// NotificationService records notification intents. Delivery belongs to a
// separate dispatcher; callers treat every Create* as best-effort and only
// log failures.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (ns *NotificationService) CreateNotification(params models.CreateNotificationParams) error {
	// Don't notify users about their own actions
	if params.ActorUserID == params.TargetUserID {
		return nil
	}

	notification := models.Notification{
		ID:           uuid.New().String(),
		Type:         params.Type,
		ActorUserID:  params.ActorUserID,
		TargetUserID: params.TargetUserID,
		PostID:       params.PostID,
		GroupID:      params.GroupID,
		IsRead:       false,
	}

	return ns.db.Create(&notification).Error
}

// Helper methods for creating specific notification types

func (ns *NotificationService) CreateLikeNotification(actorUserID, targetUserID, postID string) error {
	return ns.CreateNotification(models.CreateNotificationParams{
		Type:         models.NotificationTypeLike,
		ActorUserID:  actorUserID,
		TargetUserID: targetUserID,
		PostID:       &postID,
	})
}

func (ns *NotificationService) CreateCommentNotification(actorUserID, targetUserID, postID string) error {
	return ns.CreateNotification(models.CreateNotificationParams{
		Type:         models.NotificationTypeComment,
		ActorUserID:  actorUserID,
		TargetUserID: targetUserID,
		PostID:       &postID,
	})
}

func (ns *NotificationService) CreateShareNotification(actorUserID, targetUserID, postID string) error {
	return ns.CreateNotification(models.CreateNotificationParams{
		Type:         models.NotificationTypeShare,
		ActorUserID:  actorUserID,
		TargetUserID: targetUserID,
		PostID:       &postID,
	})
}

func (ns *NotificationService) CreateFriendRequestNotification(actorUserID, targetUserID string) error {
	return ns.CreateNotification(models.CreateNotificationParams{
		Type:         models.NotificationTypeFriendRequest,
		ActorUserID:  actorUserID,
		TargetUserID: targetUserID,
	})
}

func (ns *NotificationService) CreateGroupJoinNotification(actorUserID, targetUserID, groupID string) error {
	return ns.CreateNotification(models.CreateNotificationParams{
		Type:         models.NotificationTypeGroupJoin,
		ActorUserID:  actorUserID,
		TargetUserID: targetUserID,
		GroupID:      &groupID,
	})
}

func (ns *NotificationService) CreateGroupApprovedNotification(actorUserID, targetUserID, groupID string) error {
	return ns.CreateNotification(models.CreateNotificationParams{
		Type:         models.NotificationTypeGroupApproved,
		ActorUserID:  actorUserID,
		TargetUserID: targetUserID,
		GroupID:      &groupID,
	})
}
