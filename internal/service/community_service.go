package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"memoria/internal/models"
	"memoria/internal/repository"
	"memoria/internal/validation"

	"gorm.io/gorm"
)

// CommunityService provides community, post, like, and comment logic.
type CommunityService struct {
	db            *gorm.DB
	communityRepo repository.CommunityRepository
	postRepo      repository.PostRepository
	userRepo      repository.UserRepository
	access        *AccessPolicy
}

// NewCommunityService returns a new CommunityService.
func NewCommunityService(
	db *gorm.DB,
	communityRepo repository.CommunityRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	access *AccessPolicy,
) *CommunityService {
	return &CommunityService{
		db:            db,
		communityRepo: communityRepo,
		postRepo:      postRepo,
		userRepo:      userRepo,
		access:        access,
	}
}

// CreateCommunityInput is the payload for creating a community.
type CreateCommunityInput struct {
	OwnerID     uint
	Name        string
	Description string
}

// CreatePostInput is the payload for creating a community post.
type CreatePostInput struct {
	AuthorID    uint
	CommunityID uint
	Content     string
}

// CreateCommentInput is the payload for commenting on a post.
type CreateCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

const maxPostContentLen = 10000
const maxCommentLen = 2000

// ListAccessible returns the communities the user may see in listings.
// Admins see everything including blocked communities; other users see
// active, unfiltered (unless opted in), not personally blocked ones.
func (s *CommunityService) ListAccessible(ctx context.Context, userID uint, includeFiltered bool, limit, offset int) ([]models.Community, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.IsAdmin {
		return s.communityRepo.ListAll(ctx, limit, offset)
	}

	communities, err := s.communityRepo.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	blockedIDs, err := s.communityRepo.ListBlockedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	blocked := make(map[uint]struct{}, len(blockedIDs))
	for _, id := range blockedIDs {
		blocked[id] = struct{}{}
	}

	visible := make([]models.Community, 0, len(communities))
	for _, c := range communities {
		if _, isBlocked := blocked[c.ID]; isBlocked {
			continue
		}
		if c.IsFiltered && !includeFiltered {
			continue
		}
		visible = append(visible, c)
	}
	return visible, nil
}

// ListMine returns active communities the user owns or has participated in
// through posts, comments, or likes, excluding personally blocked ones.
// Filtered communities are hidden unless includeFiltered is set.
func (s *CommunityService) ListMine(ctx context.Context, userID uint, includeFiltered bool) ([]models.Community, error) {
	communities, err := s.communityRepo.ListParticipating(ctx, userID)
	if err != nil {
		return nil, err
	}

	blockedIDs, err := s.communityRepo.ListBlockedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	blocked := make(map[uint]struct{}, len(blockedIDs))
	for _, id := range blockedIDs {
		blocked[id] = struct{}{}
	}

	mine := make([]models.Community, 0, len(communities))
	for _, c := range communities {
		if _, isBlocked := blocked[c.ID]; isBlocked {
			continue
		}
		if c.IsFiltered && !includeFiltered {
			continue
		}
		mine = append(mine, c)
	}
	return mine, nil
}

// ListBlocked returns the communities the user has personally blocked.
func (s *CommunityService) ListBlocked(ctx context.Context, userID uint) ([]models.Community, error) {
	ids, err := s.communityRepo.ListBlockedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Community{}, nil
	}
	var communities []models.Community
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&communities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return communities, nil
}

// Create creates a new community owned by the caller.
func (s *CommunityService) Create(ctx context.Context, in CreateCommunityInput) (*models.Community, error) {
	user, err := s.userRepo.GetByID(ctx, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := user.CanPost(time.Now()); err != nil {
		return nil, err
	}
	if err := validation.ValidateCommunityName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateCommunityDescription(in.Description); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	community := &models.Community{
		OwnerID:     in.OwnerID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Status:      models.CommunityStatusActive,
	}
	if err := s.communityRepo.Create(ctx, community); err != nil {
		return nil, err
	}
	return community, nil
}

// Delete removes a community and everything in it. Owner only; all deletes
// run in one transaction.
func (s *CommunityService) Delete(ctx context.Context, actorID, communityID uint) error {
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return err
	}
	if community.OwnerID != actorID {
		return models.NewForbiddenError("Only the community owner can delete it")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postIDs := tx.Model(&models.CommunityPost{}).
			Select("id").
			Where("community_id = ?", communityID)

		if err := tx.Where("post_id IN (?)", postIDs).Delete(&models.CommunityPostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&models.CommunityPostComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("community_id = ?", communityID).Delete(&models.CommunityPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("community_id = ?", communityID).Delete(&models.CommunityBlock{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Community{}, communityID).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Block records the user's personal opt-out of a community. Repeated blocks
// are no-ops.
func (s *CommunityService) Block(ctx context.Context, userID, communityID uint, reason string) (string, error) {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return "", err
	}

	existing, err := s.communityRepo.GetBlock(ctx, userID, communityID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "Community is already blocked", nil
	}

	block := &models.CommunityBlock{
		UserID:      userID,
		CommunityID: communityID,
		Reason:      strings.TrimSpace(reason),
	}
	if err := s.communityRepo.CreateBlock(ctx, block); err != nil {
		return "", err
	}
	return "Community blocked", nil
}

// Unblock removes the user's personal block. Unblocking a community that is
// not blocked is a no-op.
func (s *CommunityService) Unblock(ctx context.Context, userID, communityID uint) (string, error) {
	existing, err := s.communityRepo.GetBlock(ctx, userID, communityID)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return "Community is not blocked", nil
	}
	if err := s.communityRepo.DeleteBlock(ctx, userID, communityID); err != nil {
		return "", err
	}
	return "Community unblocked", nil
}

// Posts returns the posts of a community the user may see, newest first.
func (s *CommunityService) Posts(ctx context.Context, userID, communityID uint, limit, offset int) ([]*models.CommunityPost, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return nil, err
	}

	ok, err := s.access.CanAccessCommunity(ctx, user, community, true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewNotFoundError("Community", communityID)
	}

	return s.postRepo.ListByCommunity(ctx, communityID, userID, user.IsAdmin, limit, offset)
}

// CreatePost creates a post in a community the user can access.
func (s *CommunityService) CreatePost(ctx context.Context, in CreatePostInput) (*models.CommunityPost, error) {
	user, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if err := user.CanPost(time.Now()); err != nil {
		return nil, err
	}

	community, err := s.communityRepo.GetByID(ctx, in.CommunityID)
	if err != nil {
		return nil, err
	}
	ok, err := s.access.CanAccessCommunity(ctx, user, community, true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewNotFoundError("Community", in.CommunityID)
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	post := &models.CommunityPost{
		CommunityID: in.CommunityID,
		AuthorID:    in.AuthorID,
		Content:     content,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ToggleLike flips the user's like on a post. Returns the resulting liked
// state and the new like count.
func (s *CommunityService) ToggleLike(ctx context.Context, userID, postID uint) (bool, int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, 0, err
	}
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return false, 0, err
	}
	if !s.access.IsPostVisible(user, post) {
		return false, 0, models.NewNotFoundError("Post", postID)
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return false, 0, err
	}

	if liked {
		if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
			return false, 0, err
		}
	} else {
		if err := s.postRepo.Like(ctx, userID, postID); err != nil {
			return false, 0, err
		}
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.CommunityPostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return false, 0, models.NewInternalError(err)
	}
	return !liked, count, nil
}

// CreateComment adds a comment to a post the user can see.
func (s *CommunityService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.CommunityPostComment, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := user.CanPost(time.Now()); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !s.access.IsPostVisible(user, post) {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if utf8.RuneCountInString(text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	comment := &models.CommunityPostComment{
		PostID: in.PostID,
		UserID: in.UserID,
		Text:   text,
	}
	if err := s.postRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment. Allowed for the comment author, the
// community owner, and admins.
func (s *CommunityService) DeleteComment(ctx context.Context, actorID, commentID uint) error {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	comment, err := s.postRepo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}

	allowed := actor.IsAdmin || comment.UserID == actorID
	if !allowed {
		community, err := s.communityRepo.GetByID(ctx, comment.Post.CommunityID)
		if err != nil {
			return err
		}
		allowed = community.OwnerID == actorID
	}
	if !allowed {
		return models.NewForbiddenError("You cannot delete this comment")
	}

	return s.postRepo.DeleteComment(ctx, commentID)
}

// DeletePost removes a post with its likes and comments. Allowed for the
// author, the community owner, admins, and holders of the delete-any-user
// capability.
func (s *CommunityService) DeletePost(ctx context.Context, actorID, postID uint) error {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	post, err := s.postRepo.GetByID(ctx, postID, actorID)
	if err != nil {
		return err
	}

	allowed := actor.IsAdmin || actor.CanDeleteAnyUser || post.AuthorID == actorID
	if !allowed {
		community, err := s.communityRepo.GetByID(ctx, post.CommunityID)
		if err != nil {
			return err
		}
		allowed = community.OwnerID == actorID
	}
	if !allowed {
		return models.NewForbiddenError("You cannot delete this post")
	}

	return s.postRepo.Delete(ctx, postID)
}
