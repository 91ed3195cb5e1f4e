// File: /controllers/group_controller.go
package controllers

import (
	"errors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"net/http"
	"sectornet-api/models"
	"sectornet-api/repositories"
	"sectornet-api/services"
	"sectornet-api/utils"
)

type GroupController struct {
	db     *gorm.DB
	rel    *repositories.RelationshipRepository
	groups *services.GroupService
}

func NewGroupController(db *gorm.DB, rel *repositories.RelationshipRepository, groups *services.GroupService) *GroupController {
	return &GroupController{db: db, rel: rel, groups: groups}
}

func (gc *GroupController) CreateGroup(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	sector := c.Query("sector")
	var user models.User
	if err := gc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if sector == "" && len(user.Sectors) > 0 {
		sector = user.Sectors[0]
	}
	if !utils.IsValidSector(sector) || !user.HasSector(sector) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sector"})
		return
	}

	group, err := gc.groups.CreateGroup(c.Request.Context(), userID, sector, req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group data"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	c.JSON(http.StatusCreated, group)
}

func (gc *GroupController) GetGroups(c *gin.Context) {
	userID := c.GetString("user_id")
	page, limit := parsePagination(c)
	sector := c.Query("sector")

	query := gc.db.Model(&models.Group{})
	if sector != "" {
		query = query.Where("sector = ?", sector)
	}

	var total int64
	query.Count(&total)

	var groups []models.Group
	if err := query.Preload("Creator").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	result := make([]models.GroupWithMembership, 0, len(groups))
	for _, group := range groups {
		group.Creator.Password = ""

		role, err := gc.rel.RoleOf(c.Request.Context(), group.ID, userID)
		if err != nil {
			role = models.GroupRoleNone
		}

		var membersCount int64
		gc.db.Model(&models.GroupMember{}).Where("group_id = ?", group.ID).Count(&membersCount)

		result = append(result, models.GroupWithMembership{
			Group:        group,
			MyRole:       role,
			MembersCount: membersCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"groups": result,
		"page":   page,
		"limit":  limit,
		"total":  total,
	})
}

func (gc *GroupController) GetGroup(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("group_id")

	var group models.Group
	if err := gc.db.Preload("Creator").First(&group, "id = ?", groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	group.Creator.Password = ""

	role, err := gc.rel.RoleOf(c.Request.Context(), groupID, userID)
	if err != nil {
		role = models.GroupRoleNone
	}

	var membersCount int64
	gc.db.Model(&models.GroupMember{}).Where("group_id = ?", groupID).Count(&membersCount)

	c.JSON(http.StatusOK, models.GroupWithMembership{
		Group:        group,
		MyRole:       role,
		MembersCount: membersCount,
	})
}

func (gc *GroupController) GetMyGroups(c *gin.Context) {
	userID := c.GetString("user_id")

	var memberships []models.GroupMember
	if err := gc.db.Preload("Group").Preload("Group.Creator").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	result := make([]models.GroupWithMembership, 0, len(memberships))
	for _, membership := range memberships {
		membership.Group.Creator.Password = ""

		var membersCount int64
		gc.db.Model(&models.GroupMember{}).Where("group_id = ?", membership.GroupID).Count(&membersCount)

		result = append(result, models.GroupWithMembership{
			Group:        membership.Group,
			MyRole:       membership.Role,
			MembersCount: membersCount,
		})
	}

	c.JSON(http.StatusOK, result)
}

func (gc *GroupController) JoinGroup(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("group_id")

	request, joinedDirectly, err := gc.groups.Join(c.Request.Context(), userID, groupID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		case errors.Is(err, services.ErrAlreadyMember):
			c.JSON(http.StatusConflict, gin.H{"error": "You are already a member of this group"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join group"})
		}
		return
	}

	if joinedDirectly {
		c.JSON(http.StatusOK, gin.H{"message": "Joined group successfully", "joined": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Join request submitted", "joined": false, "request": request})
}

func (gc *GroupController) GetJoinRequests(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("group_id")

	requests, err := gc.groups.ListJoinRequests(c.Request.Context(), userID, groupID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only group admins and moderators can view join requests"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch join requests"})
		}
		return
	}

	for i := range requests {
		requests[i].User.Password = ""
	}
	c.JSON(http.StatusOK, requests)
}

type DecideJoinRequestBody struct {
	Approve bool `json:"approve"`
}

func (gc *GroupController) DecideJoinRequest(c *gin.Context) {
	userID := c.GetString("user_id")
	requestID := c.Param("request_id")

	var body DecideJoinRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	if err := gc.groups.Decide(c.Request.Context(), userID, requestID, body.Approve); err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Join request not found"})
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only group admins can decide join requests"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process join request"})
		}
		return
	}

	if body.Approve {
		c.JSON(http.StatusOK, gin.H{"message": "Join request approved"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Join request rejected"})
}

type InviteMembersBody struct {
	UserIDs []string `json:"user_ids" binding:"required"`
}

func (gc *GroupController) InviteMembers(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("group_id")

	var body InviteMembersBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	if err := gc.groups.Invite(c.Request.Context(), userID, groupID, body.UserIDs); err != nil {
		switch {
		case errors.Is(err, services.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only group admins and moderators can invite members"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to invite members"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Members invited successfully"})
}

func (gc *GroupController) LeaveGroup(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("group_id")

	if err := gc.groups.Leave(c.Request.Context(), userID, groupID); err != nil {
		switch {
		case errors.Is(err, services.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		case errors.Is(err, services.ErrCreatorLeave):
			c.JSON(http.StatusBadRequest, gin.H{"error": "The group creator cannot leave; delete the group instead"})
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusBadRequest, gin.H{"error": "You are not a member of this group"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave group"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left group successfully"})
}

func (gc *GroupController) DeleteGroup(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("group_id")

	if err := gc.groups.DeleteGroup(c.Request.Context(), userID, groupID); err != nil {
		switch {
		case errors.Is(err, services.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the group creator can delete the group"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete group"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Group deleted successfully"})
}

func (gc *GroupController) GetMembers(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("group_id")

	isMember, err := gc.rel.IsGroupMember(c.Request.Context(), groupID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this group"})
		return
	}

	var members []models.GroupMember
	if err := gc.db.Preload("User").
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	for i := range members {
		members[i].User.Password = ""
	}
	c.JSON(http.StatusOK, members)
}
