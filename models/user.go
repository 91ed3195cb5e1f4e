// File: /models/user.go
package models

import (
	"time"
)

type User struct {
	ID             string          `json:"id" gorm:"primaryKey;size:191"`
	Username       string          `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Email          string          `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password       string          `json:"-" gorm:"not null;size:255"`
	FullName       string          `json:"full_name" gorm:"not null;size:255"`
	Bio            string          `json:"bio" gorm:"size:500"`
	ProfilePicture *string         `json:"profile_picture" gorm:"size:500"`
	EmailVerified  bool            `json:"email_verified" gorm:"default:false"`
	NotifyOnLike   bool            `json:"notify_on_like" gorm:"default:true"`
	Sectors        StringSliceType `json:"sectors" gorm:"type:json"` // append-only, grown at login
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Relationships
	Posts []Post `json:"posts,omitempty" gorm:"foreignKey:UserID"`
}

// HasSector reports whether the user has ever authenticated from the sector.
func (u *User) HasSector(sector string) bool {
	for _, s := range u.Sectors {
		if s == sector {
			return true
		}
	}
	return false
}

// Follow represents an asymmetric follow relationship (follower -> following)
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  string    `json:"follower_id" gorm:"not null;size:191;uniqueIndex:idx_follow_pair"`
	FollowingID string    `json:"following_id" gorm:"not null;size:191;uniqueIndex:idx_follow_pair"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  User `json:"follower" gorm:"foreignKey:FollowerID"`
	Following User `json:"following" gorm:"foreignKey:FollowingID"`
}

// UserBlock hides content between the two users in both directions
type UserBlock struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BlockerID string    `json:"blocker_id" gorm:"not null;size:191;uniqueIndex:idx_block_pair"`
	BlockedID string    `json:"blocked_id" gorm:"not null;size:191;uniqueIndex:idx_block_pair"`
	CreatedAt time.Time `json:"created_at"`

	Blocker User `json:"blocker" gorm:"foreignKey:BlockerID"`
	Blocked User `json:"blocked" gorm:"foreignKey:BlockedID"`
}
