// File: /services/vote_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sectornet-api/models"
)

// dislikeRemovalThreshold is the community-feedback bar: a post is removed
// once it has more than this many dislikes and fewer likes than dislikes.
const dislikeRemovalThreshold = 10

// VoteService owns the like/dislike/reaction state machine and the
// auto-removal policy it feeds.
type VoteService struct {
	db       *gorm.DB
	cascade  *CascadeService
	notifier *NotificationService
}

func NewVoteService(db *gorm.DB, cascade *CascadeService, notifier *NotificationService) *VoteService {
	return &VoteService{db: db, cascade: cascade, notifier: notifier}
}

// Vote applies one like/dislike transition for the viewer. A user holds
// exactly one of {none, liked, disliked} per post: voting the current state
// toggles it off, voting the other state switches, leaving no residue.
// Returns ErrPostRemoved when the vote pushed the post over the removal
// threshold; the post is gone and there is no undelete.
func (s *VoteService) Vote(ctx context.Context, viewerID, postID string, voteType models.VoteType) (*models.Post, error) {
	if voteType != models.VoteTypeLike && voteType != models.VoteTypeDislike {
		return nil, ErrValidation
	}

	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if post.UserID == viewerID {
		return nil, ErrSelfVote
	}

	var existing models.PostVote
	hasVote := true
	if err := s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, viewerID).
		First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		hasVote = false
	}

	newLike := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch {
		case !hasVote:
			vote := models.PostVote{PostID: postID, UserID: viewerID, VoteType: voteType}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			if err := s.adjustCounter(tx, postID, voteType, 1); err != nil {
				return err
			}
			newLike = voteType == models.VoteTypeLike

		case existing.VoteType == voteType:
			// Toggle off
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			return s.adjustCounter(tx, postID, voteType, -1)

		default:
			// Switch: move membership between the two disjoint sets.
			// Update overwrites existing.VoteType, so keep the old value
			// for the decrement.
			oldType := existing.VoteType
			if err := tx.Model(&existing).Update("vote_type", voteType).Error; err != nil {
				return err
			}
			if err := s.adjustCounter(tx, postID, oldType, -1); err != nil {
				return err
			}
			if err := s.adjustCounter(tx, postID, voteType, 1); err != nil {
				return err
			}
			newLike = voteType == models.VoteTypeLike
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Preload("User").First(&post, "id = ?", postID).Error; err != nil {
		return nil, err
	}

	// Auto-removal policy, evaluated after every mutation. Read-then-write
	// like the duplicate check: good enough for a feed, not for a ledger.
	if post.DislikesCount > dislikeRemovalThreshold && post.LikesCount < post.DislikesCount {
		if err := s.cascade.DeletePost(ctx, postID); err != nil {
			return nil, err
		}
		return nil, ErrPostRemoved
	}

	if newLike {
		s.notifyLike(ctx, viewerID, &post)
	}

	return &post, nil
}

func (s *VoteService) adjustCounter(tx *gorm.DB, postID string, voteType models.VoteType, delta int) error {
	column := "likes_count"
	if voteType == models.VoteTypeDislike {
		column = "dislikes_count"
	}
	return tx.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

func (s *VoteService) notifyLike(ctx context.Context, actorID string, post *models.Post) {
	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", post.UserID).Error; err != nil {
		fmt.Printf("Failed to load author for like notification: %v\n", err)
		return
	}
	if !author.NotifyOnLike {
		return
	}
	if err := s.notifier.CreateLikeNotification(actorID, post.UserID, post.ID); err != nil {
		// Notifications are best-effort, never fail the vote
		fmt.Printf("Failed to create like notification: %v\n", err)
	}
}

// React applies one emoji-reaction transition. A viewer holds at most one
// emoji per post: reacting with the held emoji removes it, a different one
// moves the membership. Orthogonal to like/dislike state.
func (s *VoteService) React(ctx context.Context, viewerID, postID, emoji string) (*models.Post, error) {
	if emoji == "" || len(emoji) > 20 {
		return nil, ErrValidation
	}

	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if post.UserID == viewerID {
		return nil, ErrSelfReaction
	}

	var existing models.PostReaction
	err := s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, viewerID).
		First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		reaction := models.PostReaction{PostID: postID, UserID: viewerID, Emoji: emoji}
		if err := s.db.WithContext(ctx).Create(&reaction).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case existing.Emoji == emoji:
		if err := s.db.WithContext(ctx).Delete(&existing).Error; err != nil {
			return nil, err
		}
	default:
		if err := s.db.WithContext(ctx).Model(&existing).Update("emoji", emoji).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.WithContext(ctx).Preload("User").Preload("Reactions").First(&post, "id = ?", postID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Share creates a public repost carrying no content of its own and bumps
// the shares counter on the source post.
func (s *VoteService) Share(ctx context.Context, viewerID, postID, sector string) (*models.Post, error) {
	var original models.Post
	if err := s.db.WithContext(ctx).First(&original, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if original.UserID == viewerID {
		return nil, ErrForbidden
	}

	share := models.Post{
		ID:           uuid.New().String(),
		UserID:       viewerID,
		Privacy:      models.PrivacyPublic,
		Sector:       sector,
		SharedFromID: &original.ID,
	}
	if err := s.db.WithContext(ctx).Create(&share).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&original).
		UpdateColumn("shares_count", gorm.Expr("shares_count + ?", 1)).Error; err != nil {
		fmt.Printf("Failed to bump share counter for post %s: %v\n", original.ID, err)
	}

	if err := s.notifier.CreateShareNotification(viewerID, original.UserID, original.ID); err != nil {
		fmt.Printf("Failed to create share notification: %v\n", err)
	}

	if err := s.db.WithContext(ctx).Preload("User").Preload("SharedFrom").First(&share, "id = ?", share.ID).Error; err != nil {
		return nil, err
	}
	return &share, nil
}
