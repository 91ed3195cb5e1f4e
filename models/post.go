// File: /models/post.go
package models

import (
	"time"
)

type PrivacyLevel string

const (
	PrivacyPublic   PrivacyLevel = "public"
	PrivacyFriends  PrivacyLevel = "friends"
	PrivacySpecific PrivacyLevel = "specific"
)

type VoteType string

const (
	VoteTypeLike    VoteType = "like"
	VoteTypeDislike VoteType = "dislike"
)

type Post struct {
	ID            string       `json:"id" gorm:"primaryKey;size:191"`
	UserID        string       `json:"user_id" gorm:"not null;size:191"`
	Content       string       `json:"content" gorm:"type:text"`
	Image         *string      `json:"image" gorm:"size:500"`
	Location      *string      `json:"location" gorm:"size:255"`
	Privacy       PrivacyLevel `json:"privacy" gorm:"not null;default:'public';size:20"`
	GroupID       *string      `json:"group_id" gorm:"size:191"`
	Sector        string       `json:"sector" gorm:"not null;size:100"`
	ContentHash   string       `json:"-" gorm:"size:64;index:idx_posts_author_hash"`
	LikesCount    int          `json:"likes_count" gorm:"default:0"`
	DislikesCount int          `json:"dislikes_count" gorm:"default:0"`
	CommentsCount int          `json:"comments_count" gorm:"default:0"`
	SharesCount   int          `json:"shares_count" gorm:"default:0"`
	SharedFromID  *string      `json:"shared_from_id" gorm:"size:191"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`

	User       User           `json:"user" gorm:"foreignKey:UserID"`
	SharedFrom *Post          `json:"shared_from,omitempty" gorm:"foreignKey:SharedFromID"`
	Votes      []PostVote     `json:"votes,omitempty" gorm:"foreignKey:PostID"`
	Reactions  []PostReaction `json:"reactions,omitempty" gorm:"foreignKey:PostID"`
	Audience   []PostAudience `json:"-" gorm:"foreignKey:PostID"`
	Comments   []Comment      `json:"comments,omitempty" gorm:"foreignKey:PostID"`
}

// PostVote is a user's like/dislike state on a post. Row absent means no vote;
// the unique (post_id, user_id) pair keeps likes and dislikes disjoint.
type PostVote struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"not null;size:191;uniqueIndex:idx_vote_post_user"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:idx_vote_post_user"`
	VoteType  VoteType  `json:"vote_type" gorm:"not null;size:10"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Post Post `json:"-" gorm:"foreignKey:PostID"`
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// PostReaction is a user's single emoji reaction on a post. The unique
// (post_id, user_id) pair enforces one emoji per user; empty buckets never
// exist because membership is per-row.
type PostReaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"not null;size:191;uniqueIndex:idx_reaction_post_user"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:idx_reaction_post_user"`
	Emoji     string    `json:"emoji" gorm:"not null;size:20"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Post Post `json:"-" gorm:"foreignKey:PostID"`
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// PostAudience holds the explicit allow-list of a "specific" privacy post.
type PostAudience struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	PostID string `json:"post_id" gorm:"not null;size:191;uniqueIndex:idx_audience_post_user"`
	UserID string `json:"user_id" gorm:"not null;size:191;uniqueIndex:idx_audience_post_user"`

	Post Post `json:"-" gorm:"foreignKey:PostID"`
}

// PostPrivacyRequest is the privacy block of a create-post payload.
type PostPrivacyRequest struct {
	Level     PrivacyLevel `json:"level"`
	AllowList []string     `json:"allow_list,omitempty"`
}

// UserInteractions represents the current user's interactions with a post
type UserInteractions struct {
	IsLiked    bool   `json:"is_liked"`
	IsDisliked bool   `json:"is_disliked"`
	MyReaction string `json:"my_reaction,omitempty"`
}

// ReactionSummary groups reaction user ids per emoji for responses.
type ReactionSummary map[string][]string

// PostWithInteractions represents a post with user interaction states
type PostWithInteractions struct {
	Post
	Likes            []string         `json:"likes"`
	Dislikes         []string         `json:"dislikes"`
	ReactionsByEmoji ReactionSummary  `json:"reactions_by_emoji"`
	UserInteractions UserInteractions `json:"user_interactions"`
}

// FeedResponse represents the feed response with pagination metadata
type FeedResponse struct {
	Posts      []PostWithInteractions `json:"posts"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	Total      int64                  `json:"total"`
	HasMore    bool                   `json:"has_more"`
	TotalPages int                    `json:"total_pages"`
}
