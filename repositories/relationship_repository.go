package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"sectornet-api/models"
)

// RelationshipRepository serves the read-only friend/follow/block/membership
// queries every visibility decision depends on. Friend id lists go through
// an optional redis cache; a nil client disables caching.
type RelationshipRepository struct {
	db    *gorm.DB
	cache *redis.Client
	ttl   time.Duration
}

func NewRelationshipRepository(db *gorm.DB, cache *redis.Client) *RelationshipRepository {
	return &RelationshipRepository{db: db, cache: cache, ttl: 5 * time.Minute}
}

func (r *RelationshipRepository) AreFriends(ctx context.Context, a, b string) (bool, error) {
	u1, u2 := models.OrderedPair(a, b)
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("user1_id = ? AND user2_id = ?", u1, u2).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// IsBlocked reports whether either user has blocked the other. Blocking
// hides content in both directions.
func (r *RelationshipRepository) IsBlocked(ctx context.Context, a, b string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&models.UserBlock{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func friendCacheKey(userID string) string {
	return fmt.Sprintf("friends:%s", userID)
}

// FriendIDsOf returns the ids of the user's friends, cache-first.
func (r *RelationshipRepository) FriendIDsOf(ctx context.Context, userID string) ([]string, error) {
	if r.cache != nil {
		if data, err := r.cache.Get(ctx, friendCacheKey(userID)).Bytes(); err == nil {
			var ids []string
			if uErr := json.Unmarshal(data, &ids); uErr == nil {
				return ids, nil
			}
		}
	}

	ids, err := r.queryFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if payload, err := json.Marshal(ids); err == nil {
			_ = r.cache.Set(ctx, friendCacheKey(userID), payload, r.ttl).Err()
		}
	}
	return ids, nil
}

func (r *RelationshipRepository) queryFriendIDs(ctx context.Context, userID string) ([]string, error) {
	var friendships []models.Friendship
	if err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Find(&friendships).Error; err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(friendships))
	for _, f := range friendships {
		if f.User1ID == userID {
			ids = append(ids, f.User2ID)
		} else {
			ids = append(ids, f.User1ID)
		}
	}
	return ids, nil
}

// InvalidateFriends drops the cached friend list for both sides of a
// friendship mutation.
func (r *RelationshipRepository) InvalidateFriends(ctx context.Context, userIDs ...string) {
	if r.cache == nil {
		return
	}
	for _, id := range userIDs {
		_ = r.cache.Del(ctx, friendCacheKey(id)).Err()
	}
}

func (r *RelationshipRepository) FollowingIDsOf(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	return ids, err
}

func (r *RelationshipRepository) IsGroupMember(ctx context.Context, groupID, userID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// RoleOf returns the user's role in the group, GroupRoleNone for non-members.
func (r *RelationshipRepository) RoleOf(ctx context.Context, groupID, userID string) (models.GroupRole, error) {
	var member models.GroupMember
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.GroupRoleNone, nil
		}
		return models.GroupRoleNone, err
	}
	return member.Role, nil
}
