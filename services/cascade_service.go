// File: /services/cascade_service.go
package services

import (
	"context"

	"gorm.io/gorm"

	"sectornet-api/models"
)

// CascadeService centralizes hard-delete cascades so every entry point
// (owner delete, admin delete, auto-removal) leaves the same state behind.
type CascadeService struct {
	db *gorm.DB
}

func NewCascadeService(db *gorm.DB) *CascadeService {
	return &CascadeService{db: db}
}

// DeletePost removes the post and everything hanging off it: comments,
// votes, reactions, audience rows and notifications that reference it.
func (s *CascadeService) DeletePost(ctx context.Context, postID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostReaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostAudience{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", postID).Delete(&models.Post{}).Error
	})
}

// DeleteGroup removes the group, its membership rows and cancels pending
// join requests. Group posts survive by design.
func (s *CascadeService) DeleteGroup(ctx context.Context, groupID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.GroupJoinRequest{}).
			Where("group_id = ? AND status = ?", groupID, models.JoinRequestStatusPending).
			Update("status", models.JoinRequestStatusRejected).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", groupID).Delete(&models.Group{}).Error
	})
}

// DeleteUser removes an account and prunes every relation that mentions it.
// Each of the user's posts goes through the post cascade first so their
// comment/vote/reaction trees disappear with them.
func (s *CascadeService) DeleteUser(ctx context.Context, userID string) error {
	var postIDs []string
	if err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("user_id = ?", userID).
		Pluck("id", &postIDs).Error; err != nil {
		return err
	}
	for _, postID := range postIDs {
		if err := s.DeletePost(ctx, postID); err != nil {
			return err
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user1_id = ? OR user2_id = ?", userID, userID).Delete(&models.Friendship{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sender_id = ? OR receiver_id = ?", userID, userID).Delete(&models.FriendRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", userID, userID).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blocker_id = ? OR blocked_id = ?", userID, userID).Delete(&models.UserBlock{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.ChatMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("actor_user_id = ? OR target_user_id = ?", userID, userID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", userID).Delete(&models.User{}).Error
	})
}
