package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"memoria/internal/models"
	"memoria/internal/repository"

	"gorm.io/gorm"
)

const (
	activityWindow = 30 * 24 * time.Hour
	activityLimit  = 10
)

// ActivityItem is one entry in a user's recent activity feed.
type ActivityItem struct {
	Kind      string    `json:"kind"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is a user's public view with recent activity attached.
type Profile struct {
	User           *models.User   `json:"user"`
	RecentActivity []ActivityItem `json:"recent_activity"`
}

// UpdateProfileInput carries the self-editable profile fields.
type UpdateProfileInput struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

// UserService serves user profiles and profile updates.
type UserService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
}

// NewUserService returns a new UserService.
func NewUserService(db *gorm.DB, userRepo repository.UserRepository) *UserService {
	return &UserService{db: db, userRepo: userRepo}
}

// List returns a page of users ordered by id.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile returns the user with their activity from the last thirty days,
// newest first, capped at ten entries across all activity kinds.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	since := time.Now().Add(-activityWindow)
	db := s.db.WithContext(ctx)
	var items []ActivityItem

	var ratings []models.Rating
	if err := db.Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").Limit(activityLimit).
		Find(&ratings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, r := range ratings {
		items = append(items, ActivityItem{
			Kind:      "rating",
			Summary:   fmt.Sprintf("Rated content #%d with %d stars", r.ContentID, r.Stars),
			CreatedAt: r.CreatedAt,
		})
	}

	var posts []models.CommunityPost
	if err := db.Where("author_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").Limit(activityLimit).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, p := range posts {
		items = append(items, ActivityItem{
			Kind:      "post",
			Summary:   fmt.Sprintf("Posted in community #%d", p.CommunityID),
			CreatedAt: p.CreatedAt,
		})
	}

	var comments []models.CommunityPostComment
	if err := db.Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").Limit(activityLimit).
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, c := range comments {
		items = append(items, ActivityItem{
			Kind:      "comment",
			Summary:   fmt.Sprintf("Commented on post #%d", c.PostID),
			CreatedAt: c.CreatedAt,
		})
	}

	var likes []models.CommunityPostLike
	if err := db.Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").Limit(activityLimit).
		Find(&likes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, l := range likes {
		items = append(items, ActivityItem{
			Kind:      "like",
			Summary:   fmt.Sprintf("Liked post #%d", l.PostID),
			CreatedAt: l.CreatedAt,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > activityLimit {
		items = items[:activityLimit]
	}

	return &Profile{User: user, RecentActivity: items}, nil
}

// UpdateProfile updates the user's own editable fields. Nil inputs leave the
// field unchanged.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, models.NewValidationError("Name cannot be empty")
		}
		user.Name = name
	}
	if input.Bio != nil {
		user.Bio = strings.TrimSpace(*input.Bio)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
