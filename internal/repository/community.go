package repository

import (
	"context"
	"errors"

	"memoria/internal/models"

	"gorm.io/gorm"
)

// CommunityRepository defines persistence operations for communities and
// per-user community blocks.
type CommunityRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Community, error)
	Create(ctx context.Context, community *models.Community) error
	Update(ctx context.Context, community *models.Community) error
	ListActive(ctx context.Context, limit, offset int) ([]models.Community, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Community, error)
	ListParticipating(ctx context.Context, userID uint) ([]models.Community, error)

	GetBlock(ctx context.Context, userID, communityID uint) (*models.CommunityBlock, error)
	CreateBlock(ctx context.Context, block *models.CommunityBlock) error
	DeleteBlock(ctx context.Context, userID, communityID uint) error
	ListBlockedIDs(ctx context.Context, userID uint) ([]uint, error)
}

type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository returns a new CommunityRepository implementation.
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) GetByID(ctx context.Context, id uint) (*models.Community, error) {
	var community models.Community
	if err := r.db.WithContext(ctx).Preload("Owner").First(&community, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Community", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &community, nil
}

func (r *communityRepository) Create(ctx context.Context, community *models.Community) error {
	if err := r.db.WithContext(ctx).Create(community).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *communityRepository) Update(ctx context.Context, community *models.Community) error {
	if err := r.db.WithContext(ctx).Save(community).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *communityRepository) ListActive(ctx context.Context, limit, offset int) ([]models.Community, error) {
	if limit <= 0 {
		limit = 100
	}
	var communities []models.Community
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("status = ?", models.CommunityStatusActive).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&communities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return communities, nil
}

func (r *communityRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Community, error) {
	if limit <= 0 {
		limit = 100
	}
	var communities []models.Community
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&communities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return communities, nil
}

// ListParticipating returns active communities where the user owns, posted,
// commented, or liked, most recently created first.
func (r *communityRepository) ListParticipating(ctx context.Context, userID uint) ([]models.Community, error) {
	var communities []models.Community
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("communities.status = ?", models.CommunityStatusActive).
		Where(`communities.owner_id = ?
			OR communities.id IN (SELECT community_id FROM community_posts WHERE author_id = ?)
			OR communities.id IN (
				SELECT p.community_id FROM community_posts p
				JOIN community_post_comments c ON c.post_id = p.id
				WHERE c.user_id = ?)
			OR communities.id IN (
				SELECT p.community_id FROM community_posts p
				JOIN community_post_likes l ON l.post_id = p.id
				WHERE l.user_id = ?)`,
			userID, userID, userID, userID).
		Order("created_at DESC").
		Find(&communities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return communities, nil
}

func (r *communityRepository) GetBlock(ctx context.Context, userID, communityID uint) (*models.CommunityBlock, error) {
	var block models.CommunityBlock
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND community_id = ?", userID, communityID).
		First(&block).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &block, nil
}

func (r *communityRepository) CreateBlock(ctx context.Context, block *models.CommunityBlock) error {
	// ON CONFLICT DO NOTHING keeps repeated block requests idempotent
	// under concurrency.
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO community_blocks (user_id, community_id, reason, created_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, community_id) DO NOTHING`,
		block.UserID, block.CommunityID, block.Reason,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *communityRepository) DeleteBlock(ctx context.Context, userID, communityID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND community_id = ?", userID, communityID).
		Delete(&models.CommunityBlock{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *communityRepository) ListBlockedIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.CommunityBlock{}).
		Where("user_id = ?", userID).
		Pluck("community_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
