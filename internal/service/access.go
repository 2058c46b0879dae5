// Package service implements the application's business logic.
package service

import (
	"context"

	"memoria/internal/models"
	"memoria/internal/repository"

	"gorm.io/gorm"
)

// AccessPolicy decides who can see communities and posts. Moderation state
// (blocked, filtered, hidden) never deletes data; it only narrows visibility.
type AccessPolicy struct {
	communityRepo repository.CommunityRepository
}

// NewAccessPolicy returns a new AccessPolicy.
func NewAccessPolicy(communityRepo repository.CommunityRepository) *AccessPolicy {
	return &AccessPolicy{communityRepo: communityRepo}
}

// CanAccessCommunity reports whether the user may interact with the
// community. Admins bypass the blocked status entirely. The filter axis and
// the user's personal block only affect listings, so includeFiltered is true
// for direct access by ID.
func (p *AccessPolicy) CanAccessCommunity(ctx context.Context, user *models.User, community *models.Community, includeFiltered bool) (bool, error) {
	if user.IsAdmin {
		return true, nil
	}
	if community.Status == models.CommunityStatusBlocked {
		return false, nil
	}
	if community.IsFiltered && !includeFiltered {
		return false, nil
	}
	block, err := p.communityRepo.GetBlock(ctx, user.ID, community.ID)
	if err != nil {
		return false, err
	}
	return block == nil, nil
}

// IsPostVisible reports whether the user may see the post. Hidden posts stay
// visible to their author and to admins.
func (p *AccessPolicy) IsPostVisible(user *models.User, post *models.CommunityPost) bool {
	if !post.IsHidden {
		return true
	}
	return user.IsAdmin || post.AuthorID == user.ID
}

// VisiblePosts is a query scope restricting community_posts rows to what the
// user may see.
func VisiblePosts(userID uint, isAdmin bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if isAdmin {
			return db
		}
		return db.Where("community_posts.is_hidden = ? OR community_posts.author_id = ?", false, userID)
	}
}
