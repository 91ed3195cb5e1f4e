// File: /services/visibility_service.go
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sectornet-api/models"
	"sectornet-api/repositories"
)

// VisibilityService decides which posts a viewer may see. Every query is
// confined to one sector; cross-sector visibility is never implicit.
type VisibilityService struct {
	db  *gorm.DB
	rel *repositories.RelationshipRepository
}

func NewVisibilityService(db *gorm.DB, rel *repositories.RelationshipRepository) *VisibilityService {
	return &VisibilityService{db: db, rel: rel}
}

// feedScope narrows a posts query to what the viewer may see in the sector:
// public posts, the viewer's own, friends-level posts from friends, and
// specific-level posts listing the viewer. Group posts are excluded from
// the main feed, as are posts across a block in either direction.
func (s *VisibilityService) feedScope(ctx context.Context, tx *gorm.DB, viewerID, sector string) (*gorm.DB, error) {
	friendIDs, err := s.rel.FriendIDsOf(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(friendIDs) == 0 {
		friendIDs = []string{""} // keep the IN clause valid with no friends
	}

	return tx.
		Where("sector = ? AND group_id IS NULL", sector).
		Where(
			tx.Session(&gorm.Session{NewDB: true}).
				Where("privacy = ?", models.PrivacyPublic).
				Or("user_id = ?", viewerID).
				Or("privacy = ? AND user_id IN ?", models.PrivacyFriends, friendIDs).
				Or("privacy = ? AND id IN (?)", models.PrivacySpecific,
					tx.Session(&gorm.Session{NewDB: true}).Model(&models.PostAudience{}).
						Select("post_id").Where("user_id = ?", viewerID)),
		).
		Where("user_id NOT IN (?)",
			tx.Session(&gorm.Session{NewDB: true}).Model(&models.UserBlock{}).
				Select("blocked_id").Where("blocker_id = ?", viewerID)).
		Where("user_id NOT IN (?)",
			tx.Session(&gorm.Session{NewDB: true}).Model(&models.UserBlock{}).
				Select("blocker_id").Where("blocked_id = ?", viewerID)), nil
}

// ListFeed returns the sector feed newest-first with offset pagination.
// A post inserted between pages may be skipped or duplicated; that is
// accepted eventual-consistency behavior, not a bug.
func (s *VisibilityService) ListFeed(ctx context.Context, viewerID, sector string, skip, limit int) ([]models.Post, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.Post{})
	scoped, err := s.feedScope(ctx, base, viewerID, sector)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := scoped.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	if err := scoped.Preload("User").
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// CanView evaluates the inclusion predicate for a single post.
func (s *VisibilityService) CanView(ctx context.Context, viewerID string, post *models.Post) (bool, error) {
	if post.UserID == viewerID {
		return true, nil
	}

	blocked, err := s.rel.IsBlocked(ctx, viewerID, post.UserID)
	if err != nil {
		return false, err
	}
	if blocked {
		return false, nil
	}

	if post.GroupID != nil {
		return s.rel.IsGroupMember(ctx, *post.GroupID, viewerID)
	}

	switch post.Privacy {
	case models.PrivacyPublic:
		return true, nil
	case models.PrivacyFriends:
		return s.rel.AreFriends(ctx, viewerID, post.UserID)
	case models.PrivacySpecific:
		var cnt int64
		if err := s.db.WithContext(ctx).Model(&models.PostAudience{}).
			Where("post_id = ? AND user_id = ?", post.ID, viewerID).
			Count(&cnt).Error; err != nil {
			return false, err
		}
		return cnt > 0, nil
	}
	return false, nil
}

// ListGroupPosts returns a group's posts, members only.
func (s *VisibilityService) ListGroupPosts(ctx context.Context, viewerID, groupID string, skip, limit int) ([]models.Post, int64, error) {
	member, err := s.rel.IsGroupMember(ctx, groupID, viewerID)
	if err != nil {
		return nil, 0, err
	}
	if !member {
		return nil, 0, ErrForbidden
	}

	query := s.db.WithContext(ctx).Model(&models.Post{}).Where("group_id = ?", groupID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	if err := query.Preload("User").
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListFollowingFeed restricts the feed to followed authors. Privacy level is
// deliberately ignored here: following implies consent to view. Flagged as
// a risky shortcut, kept pending product confirmation.
func (s *VisibilityService) ListFollowingFeed(ctx context.Context, viewerID, sector string, skip, limit int) ([]models.Post, int64, error) {
	followingIDs, err := s.rel.FollowingIDsOf(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}
	if len(followingIDs) == 0 {
		return []models.Post{}, 0, nil
	}

	query := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("sector = ? AND group_id IS NULL AND user_id IN ?", sector, followingIDs)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	if err := query.Preload("User").
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListUserPosts returns a single author's non-group posts in the sector,
// filtered per post through the inclusion predicate.
func (s *VisibilityService) ListUserPosts(ctx context.Context, viewerID, authorID, sector string, skip, limit int) ([]models.Post, error) {
	var candidates []models.Post
	if err := s.db.WithContext(ctx).Preload("User").
		Where("user_id = ? AND sector = ? AND group_id IS NULL", authorID, sector).
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	visible := make([]models.Post, 0, len(candidates))
	for i := range candidates {
		ok, err := s.CanView(ctx, viewerID, &candidates[i])
		if err != nil {
			return nil, err
		}
		if ok {
			visible = append(visible, candidates[i])
		}
	}
	return visible, nil
}

// GetPost loads a post and enforces the inclusion predicate.
func (s *VisibilityService) GetPost(ctx context.Context, viewerID, postID string) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("User").First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	ok, err := s.CanView(ctx, viewerID, &post)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return &post, nil
}
