// File: /services/group_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sectornet-api/models"
	"sectornet-api/repositories"
)

// GroupService runs the membership workflow: joins, approvals, invites and
// role-gated moderation. Per (group, user) the states are non-member,
// pending-join, member, moderator, admin.
type GroupService struct {
	db       *gorm.DB
	rel      *repositories.RelationshipRepository
	cascade  *CascadeService
	notifier *NotificationService
}

func NewGroupService(db *gorm.DB, rel *repositories.RelationshipRepository, cascade *CascadeService, notifier *NotificationService) *GroupService {
	return &GroupService{db: db, rel: rel, cascade: cascade, notifier: notifier}
}

// CreateGroup creates a sector-stamped group with the creator seeded as an
// admin member. The creator's membership row lives as long as the group.
func (s *GroupService) CreateGroup(ctx context.Context, creatorID, sector string, req models.CreateGroupRequest) (*models.Group, error) {
	if req.Name == "" || len(req.Name) > 255 {
		return nil, ErrValidation
	}

	requiresApproval := true
	if req.RequiresApproval != nil {
		requiresApproval = *req.RequiresApproval
	}

	group := models.Group{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Description:      req.Description,
		CreatorID:        creatorID,
		RequiresApproval: requiresApproval,
		Sector:           sector,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		member := models.GroupMember{GroupID: group.ID, UserID: creatorID, Role: models.GroupRoleAdmin}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// Join either adds the user directly (open group) or files a pending join
// request (approval-gated). A second pending request for the same pair is
// suppressed and the existing one returned.
func (s *GroupService) Join(ctx context.Context, userID, groupID string) (*models.GroupJoinRequest, bool, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, false, err
	}

	member, err := s.rel.IsGroupMember(ctx, groupID, userID)
	if err != nil {
		return nil, false, err
	}
	if member {
		return nil, false, ErrAlreadyMember
	}

	if !group.RequiresApproval {
		m := models.GroupMember{GroupID: groupID, UserID: userID, Role: models.GroupRoleMember}
		if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}

	var pending models.GroupJoinRequest
	err = s.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ? AND status = ?", groupID, userID, models.JoinRequestStatusPending).
		First(&pending).Error
	if err == nil {
		return &pending, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	request := models.GroupJoinRequest{
		ID:      uuid.New().String(),
		GroupID: groupID,
		UserID:  userID,
		Status:  models.JoinRequestStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&request).Error; err != nil {
		return nil, false, err
	}

	if err := s.notifier.CreateGroupJoinNotification(userID, group.CreatorID, groupID); err != nil {
		fmt.Printf("Failed to create group join notification: %v\n", err)
	}

	return &request, false, nil
}

// Decide approves or rejects a pending join request. Admin only; terminal
// requests are never reopened.
func (s *GroupService) Decide(ctx context.Context, adminID, requestID string, approve bool) error {
	var request models.GroupJoinRequest
	if err := s.db.WithContext(ctx).First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return err
	}

	role, err := s.rel.RoleOf(ctx, request.GroupID, adminID)
	if err != nil {
		return err
	}
	if role != models.GroupRoleAdmin {
		return ErrForbidden
	}

	if request.Status != models.JoinRequestStatusPending {
		return ErrRequestNotFound
	}

	if !approve {
		return s.db.WithContext(ctx).Model(&request).
			Update("status", models.JoinRequestStatusRejected).Error
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&request).Update("status", models.JoinRequestStatusApproved).Error; err != nil {
			return err
		}
		member := models.GroupMember{GroupID: request.GroupID, UserID: request.UserID, Role: models.GroupRoleMember}
		return tx.Create(&member).Error
	})
	if err != nil {
		return err
	}

	if err := s.notifier.CreateGroupApprovedNotification(adminID, request.UserID, request.GroupID); err != nil {
		fmt.Printf("Failed to create group approval notification: %v\n", err)
	}
	return nil
}

// Invite adds users directly as members, bypassing approval. Admins and
// moderators only. Existing members are skipped.
func (s *GroupService) Invite(ctx context.Context, actorID, groupID string, userIDs []string) error {
	if _, err := s.getGroup(ctx, groupID); err != nil {
		return err
	}

	role, err := s.rel.RoleOf(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if role != models.GroupRoleAdmin && role != models.GroupRoleModerator {
		return ErrForbidden
	}

	for _, userID := range userIDs {
		member, err := s.rel.IsGroupMember(ctx, groupID, userID)
		if err != nil {
			return err
		}
		if member {
			continue
		}
		m := models.GroupMember{GroupID: groupID, UserID: userID, Role: models.GroupRoleMember}
		if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
			return err
		}
	}
	return nil
}

// Leave removes the user's membership row, clearing member, moderator and
// admin standing at once. The creator cannot leave.
func (s *GroupService) Leave(ctx context.Context, userID, groupID string) error {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatorID == userID {
		return ErrCreatorLeave
	}

	result := s.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrForbidden
	}
	return nil
}

// DeleteGroup is creator-only and cascades to cancel pending join requests.
// Group posts survive.
func (s *GroupService) DeleteGroup(ctx context.Context, actorID, groupID string) error {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatorID != actorID {
		return ErrForbidden
	}
	return s.cascade.DeleteGroup(ctx, groupID)
}

// ListJoinRequests returns a group's pending requests, admin or moderator only.
func (s *GroupService) ListJoinRequests(ctx context.Context, actorID, groupID string) ([]models.GroupJoinRequest, error) {
	role, err := s.rel.RoleOf(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}
	if role != models.GroupRoleAdmin && role != models.GroupRoleModerator {
		return nil, ErrForbidden
	}

	var requests []models.GroupJoinRequest
	err = s.db.WithContext(ctx).Preload("User").
		Where("group_id = ? AND status = ?", groupID, models.JoinRequestStatusPending).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (s *GroupService) getGroup(ctx context.Context, groupID string) (*models.Group, error) {
	var group models.Group
	if err := s.db.WithContext(ctx).First(&group, "id = ?", groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}
