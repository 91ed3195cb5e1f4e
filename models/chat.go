// File: /models/chat.go
package models

import "time"

type Chat struct {
	ID              string     `json:"id" gorm:"primaryKey;size:191"`
	Name            string     `json:"name" gorm:"not null;size:255"`
	IsGroup         bool       `json:"is_group" gorm:"default:false"`
	Sector          string     `json:"sector" gorm:"not null;size:100;index"`
	LastMessage     *string    `json:"last_message" gorm:"size:500"`
	LastMessageTime *time.Time `json:"last_message_time"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Members []ChatMember `json:"members,omitempty" gorm:"foreignKey:ChatID"`
}

type ChatMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ChatID    string    `json:"chat_id" gorm:"not null;size:191;uniqueIndex:idx_chat_member"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:idx_chat_member"`
	CreatedAt time.Time `json:"created_at"`

	Chat Chat `json:"-" gorm:"foreignKey:ChatID"`
	User User `json:"user" gorm:"foreignKey:UserID"`
}

type Message struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	ChatID    string    `json:"chat_id" gorm:"not null;size:191;index"`
	UserID    string    `json:"user_id" gorm:"not null;size:191"`
	Content   string    `json:"content" gorm:"not null;type:text"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}
