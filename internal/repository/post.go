package repository

import (
	"context"
	"errors"

	"memoria/internal/cache"
	"memoria/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for community posts, their
// likes, and their comments.
type PostRepository interface {
	Create(ctx context.Context, post *models.CommunityPost) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.CommunityPost, error)
	ListByCommunity(ctx context.Context, communityID uint, currentUserID uint, includeHidden bool, limit, offset int) ([]*models.CommunityPost, error)
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]*models.CommunityPost, error)
	Update(ctx context.Context, post *models.CommunityPost) error
	Delete(ctx context.Context, id uint) error

	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error

	CreateComment(ctx context.Context, comment *models.CommunityPostComment) error
	GetComment(ctx context.Context, id uint) (*models.CommunityPostComment, error)
	DeleteComment(ctx context.Context, id uint) error
	ListComments(ctx context.Context, postID uint, limit, offset int) ([]models.CommunityPostComment, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "community_posts.*, " +
		"(SELECT COUNT(*) FROM community_post_comments WHERE community_post_comments.post_id = community_posts.id) as comments_count, " +
		"(SELECT COUNT(*) FROM community_post_likes WHERE community_post_likes.post_id = community_posts.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM community_post_likes WHERE community_post_likes.post_id = community_posts.id AND community_post_likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *postRepository) Create(ctx context.Context, post *models.CommunityPost) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.CommunityPost, error) {
	var post models.CommunityPost
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Author").
		Preload("Community").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) ListByCommunity(ctx context.Context, communityID uint, currentUserID uint, includeHidden bool, limit, offset int) ([]*models.CommunityPost, error) {
	var posts []*models.CommunityPost
	q := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Author").
		Where("community_posts.community_id = ?", communityID)

	if !includeHidden {
		// Hidden posts stay visible to their author.
		q = q.Where("community_posts.is_hidden = ? OR community_posts.author_id = ?", false, currentUserID)
	}

	if limit <= 0 {
		limit = 50
	}
	err := q.Order("community_posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]*models.CommunityPost, error) {
	if limit <= 0 {
		limit = 20
	}
	var posts []*models.CommunityPost
	err := r.applyPostDetails(r.db.WithContext(ctx), authorID).
		Preload("Community").
		Where("community_posts.author_id = ?", authorID).
		Order("community_posts.created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.CommunityPost) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostKey(post.ID))
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.CommunityPostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.CommunityPostComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CommunityPost{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostKey(id))
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CommunityPostLike{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	// INSERT ... ON CONFLICT DO NOTHING is atomic and prevents duplicate
	// key errors under concurrent like requests.
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO community_post_likes (user_id, post_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostKey(postID))
	return nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.CommunityPostLike{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostKey(postID))
	return nil
}

func (r *postRepository) CreateComment(ctx context.Context, comment *models.CommunityPostComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostKey(comment.PostID))
	return nil
}

func (r *postRepository) GetComment(ctx context.Context, id uint) (*models.CommunityPostComment, error) {
	var comment models.CommunityPostComment
	if err := r.db.WithContext(ctx).Preload("Post").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *postRepository) DeleteComment(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.CommunityPostComment{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) ListComments(ctx context.Context, postID uint, limit, offset int) ([]models.CommunityPostComment, error) {
	if limit <= 0 {
		limit = 100
	}
	var comments []models.CommunityPostComment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}
