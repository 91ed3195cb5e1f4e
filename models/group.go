// File: /models/group.go
package models

import "time"

type GroupRole string

const (
	GroupRoleNone      GroupRole = "none"
	GroupRoleMember    GroupRole = "member"
	GroupRoleModerator GroupRole = "moderator"
	GroupRoleAdmin     GroupRole = "admin"
)

type JoinRequestStatus string

const (
	JoinRequestStatusPending  JoinRequestStatus = "pending"
	JoinRequestStatusApproved JoinRequestStatus = "approved"
	JoinRequestStatusRejected JoinRequestStatus = "rejected"
)

type Group struct {
	ID               string    `json:"id" gorm:"primaryKey;size:191"`
	Name             string    `json:"name" gorm:"not null;size:255"`
	Description      string    `json:"description" gorm:"size:1000"`
	CreatorID        string    `json:"creator_id" gorm:"not null;size:191"`
	// No gorm default tag: Create must persist an explicit false for
	// open groups, and a default makes gorm skip the zero value.
	RequiresApproval bool      `json:"requires_approval" gorm:"not null"`
	Sector           string    `json:"sector" gorm:"not null;size:100;index"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Creator User          `json:"creator" gorm:"foreignKey:CreatorID"`
	Members []GroupMember `json:"members,omitempty" gorm:"foreignKey:GroupID"`
}

// GroupMember carries the member's role; the creator is seeded as an admin
// member and that row is never removed while the group exists.
type GroupMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GroupID   string    `json:"group_id" gorm:"not null;size:191;uniqueIndex:idx_group_member"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:idx_group_member"`
	Role      GroupRole `json:"role" gorm:"not null;default:'member';size:20"`
	CreatedAt time.Time `json:"created_at"`

	Group Group `json:"-" gorm:"foreignKey:GroupID"`
	User  User  `json:"user" gorm:"foreignKey:UserID"`
}

type GroupJoinRequest struct {
	ID        string            `json:"id" gorm:"primaryKey;size:191"`
	GroupID   string            `json:"group_id" gorm:"not null;size:191;index"`
	UserID    string            `json:"user_id" gorm:"not null;size:191"`
	Status    JoinRequestStatus `json:"status" gorm:"not null;default:'pending';size:20"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	Group Group `json:"-" gorm:"foreignKey:GroupID"`
	User  User  `json:"user" gorm:"foreignKey:UserID"`
}

// CreateGroupRequest is the create-group payload
type CreateGroupRequest struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	RequiresApproval *bool  `json:"requires_approval"`
}

// GroupWithMembership is a group plus the caller's role in it.
type GroupWithMembership struct {
	Group
	MyRole       GroupRole `json:"my_role"`
	MembersCount int64     `json:"members_count"`
}
